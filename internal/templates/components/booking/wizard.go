package booking

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/vistos/internal/wizard"
)

// Wizard renders the shell: step indicator, current step and navigation.
// Every navigation response swaps the whole shell.
func Wizard(data WizardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if data.Submitted {
			return Submitted().Render(ctx, w)
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf(`<section id="%s" class="mx-auto flex max-w-3xl flex-col gap-6 p-4">`, WizardElementID))
		writeStepIndicator(&b, data)
		b.WriteString(fmt.Sprintf(`<div id="%s">`, FeedbackID))
		if data.Notice != "" {
			b.WriteString(fmt.Sprintf(`<div class="rounded-md border border-[var(--theme-highlight)]/30 p-3 text-sm text-[var(--theme-highlight)]" role="status">%s</div>`, html.EscapeString(data.Notice)))
		}
		b.WriteString(`</div>`)
		b.WriteString(fmt.Sprintf(`<h2 class="text-xl font-semibold text-foreground">%s</h2>`, html.EscapeString(data.Step.Title())))
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := stepComponent(data).Render(ctx, w); err != nil {
			return err
		}

		b.Reset()
		writeNavigation(&b, data)
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Submitted replaces the shell once the request was handed over.
func Submitted() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, fmt.Sprintf(`<section id="%s" class="mx-auto max-w-3xl p-4"><div class="rounded-lg border border-border bg-background p-6 text-center"><h2 class="text-xl font-semibold text-foreground">Pedido de agendamento recebido</h2><p class="mt-2 text-sm text-muted-foreground">Sera redirecionado para a pagina de pagamento.</p></div></section>`, WizardElementID))
		return err
	})
}

func stepComponent(data WizardData) templ.Component {
	switch data.Step {
	case wizard.StepPassport:
		return Passport(data)
	case wizard.StepTravel:
		return TravelDetails(data)
	case wizard.StepReview:
		return Review(data)
	default:
		return PersonalData(data)
	}
}

func writeStepIndicator(b *strings.Builder, data WizardData) {
	b.WriteString(`<ol class="flex items-center gap-2 text-xs" aria-label="Progresso">`)
	for _, step := range data.Steps {
		class := "flex items-center gap-2 rounded-full px-3 py-1"
		switch {
		case step.Current:
			class += " bg-[var(--theme-accent)] text-white"
		case step.Complete:
			class += " text-[var(--theme-accent)]"
		default:
			class += " text-muted-foreground"
		}
		current := ""
		if step.Current {
			current = ` aria-current="step"`
		}
		b.WriteString(fmt.Sprintf(`<li class="%s"%s><span>%d</span><span>%s</span></li>`, class, current, step.Number, html.EscapeString(step.Title)))
	}
	b.WriteString(`</ol>`)
}

func writeNavigation(b *strings.Builder, data WizardData) {
	b.WriteString(`<div class="flex items-center justify-between gap-4 border-t border-border pt-4">`)
	if data.Step.IsFirst() {
		b.WriteString(`<span></span>`)
	} else {
		b.WriteString(navButton("/api/v1/booking/back", "Voltar", "rounded-md border border-border px-4 py-2 text-sm font-medium text-foreground"))
	}
	primary := "rounded-md bg-[var(--theme-accent)] px-4 py-2 text-sm font-semibold text-white"
	if data.Step.IsLast() {
		b.WriteString(navButton("/api/v1/booking/submit", "Prosseguir para Pagamento", primary))
	} else {
		b.WriteString(navButton("/api/v1/booking/next", "Continuar", primary))
	}
	b.WriteString(`</div>`)
}

func navButton(endpoint, label, class string) string {
	return fmt.Sprintf(`<button type="button" class="%s" hx-post="%s" hx-target="#%s" hx-swap="outerHTML">%s</button>`,
		class, endpoint, WizardElementID, html.EscapeString(label))
}
