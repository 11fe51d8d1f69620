package booking

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	core "github.com/codr1/vistos/internal/booking"
)

const fieldEndpoint = "/api/v1/booking/field"

type inputSpec struct {
	Field        core.Field
	Label        string
	Type         string
	Value        string
	Error        string
	Placeholder  string
	Autocomplete string
}

type selectSpec struct {
	Field   core.Field
	Label   string
	Value   string
	Error   string
	Options []SelectOption
}

func errorID(field core.Field) string {
	return fmt.Sprintf("%s-error", field)
}

// FieldMessage renders the validation slot beneath an input. An empty
// message still renders the slot so a later edit can swap it.
func FieldMessage(field core.Field, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeFieldMessage(&b, field, message)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeFieldMessage(b *strings.Builder, field core.Field, message string) {
	if message == "" {
		b.WriteString(fmt.Sprintf(`<p id="%s" class="hidden"></p>`, errorID(field)))
		return
	}
	b.WriteString(fmt.Sprintf(`<p id="%s" class="text-xs text-[var(--theme-highlight)]" role="alert">%s</p>`, errorID(field), html.EscapeString(message)))
}

// fieldAttrs wires an input to the field endpoint. The response replaces
// the field's message slot.
func fieldAttrs(field core.Field, message string) string {
	attrs := fmt.Sprintf(`id="%s" name="value" hx-post="%s" hx-trigger="change" hx-vals='{"field":"%s"}' hx-target="#%s" hx-swap="outerHTML"`,
		field, fieldEndpoint, field, errorID(field))
	if message != "" {
		attrs += fmt.Sprintf(` aria-invalid="true" aria-describedby="%s"`, errorID(field))
	}
	return attrs
}

func writeInput(b *strings.Builder, in inputSpec) {
	inputType := in.Type
	if inputType == "" {
		inputType = "text"
	}
	b.WriteString(`<div class="flex flex-col gap-2">`)
	b.WriteString(fmt.Sprintf(`<label for="%s" class="text-sm font-medium text-foreground">%s</label>`, in.Field, html.EscapeString(in.Label)))
	b.WriteString(fmt.Sprintf(`<input type="%s" %s value="%s"`, inputType, fieldAttrs(in.Field, in.Error), html.EscapeString(in.Value)))
	if in.Placeholder != "" {
		b.WriteString(fmt.Sprintf(` placeholder="%s"`, html.EscapeString(in.Placeholder)))
	}
	if in.Autocomplete != "" {
		b.WriteString(fmt.Sprintf(` autocomplete="%s"`, in.Autocomplete))
	}
	b.WriteString(` class="h-11 w-full rounded-md border border-border px-3 text-sm focus:border-[var(--theme-accent)] focus:ring-[var(--theme-accent)]"/>`)
	writeFieldMessage(b, in.Field, in.Error)
	b.WriteString(`</div>`)
}

func writeSelect(b *strings.Builder, sel selectSpec) {
	b.WriteString(`<div class="flex flex-col gap-2">`)
	b.WriteString(fmt.Sprintf(`<label for="%s" class="text-sm font-medium text-foreground">%s</label>`, sel.Field, html.EscapeString(sel.Label)))
	b.WriteString(fmt.Sprintf(`<select %s class="h-11 w-full rounded-md border border-border px-3 text-sm">`, fieldAttrs(sel.Field, sel.Error)))
	b.WriteString(`<option value="">Selecione</option>`)
	for _, option := range sel.Options {
		selected := ""
		if option.Value == sel.Value {
			selected = " selected"
		}
		b.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`, html.EscapeString(option.Value), selected, html.EscapeString(option.Label)))
	}
	b.WriteString(`</select>`)
	writeFieldMessage(b, sel.Field, sel.Error)
	b.WriteString(`</div>`)
}
