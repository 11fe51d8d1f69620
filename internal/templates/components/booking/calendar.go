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

const (
	dayEndpoint  = "/api/v1/booking/day"
	timeEndpoint = "/api/v1/booking/time"
)

// TravelDetails renders the calendar, the time slots for the chosen day and
// the confirmation banner.
func TravelDetails(data WizardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildTravelDetailsHTML(data))
		return err
	})
}

func buildTravelDetailsHTML(data WizardData) string {
	var b strings.Builder
	b.WriteString(`<div class="flex flex-col gap-6">`)
	writeCalendar(&b, data)
	if data.SlotsVisible() {
		writeTimeSlots(&b, data)
	}
	if data.HasAppointment() {
		b.WriteString(`<div class="rounded-lg border border-[var(--theme-accent)]/20 bg-[var(--theme-accent)]/5 p-4">`)
		b.WriteString(fmt.Sprintf(`<p class="text-sm text-foreground"><strong>Atendimento agendado para:</strong> %s as %s</p>`,
			html.EscapeString(data.SelectedDateLabel()), html.EscapeString(data.Data.AppointmentTime)))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeCalendar(b *strings.Builder, data WizardData) {
	view := data.Calendar
	monthLabel := html.EscapeString(view.MonthLabel)

	b.WriteString(`<div class="flex flex-col gap-2">`)
	b.WriteString(`<span class="text-sm font-medium text-foreground">Data do Atendimento</span>`)
	b.WriteString(`<div class="rounded-lg border border-border bg-background p-4">`)
	b.WriteString(fmt.Sprintf(`<div class="mb-4 flex items-center justify-center"><span class="text-sm font-semibold capitalize text-foreground">%s</span></div>`, monthLabel))

	b.WriteString(`<div class="mb-2 grid grid-cols-7 gap-1">`)
	for _, label := range view.Weekdays {
		b.WriteString(fmt.Sprintf(`<div class="text-center text-xs font-medium text-muted-foreground">%s</div>`, html.EscapeString(label)))
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="grid grid-cols-7 gap-1">`)
	for _, cell := range view.Cells {
		if cell.Blank() {
			b.WriteString(`<div aria-hidden="true"></div>`)
			continue
		}
		writeDayButton(b, cell, monthLabel)
	}
	b.WriteString(`</div></div>`)
	writeFieldMessage(b, core.FieldAppointmentDate, data.ErrorFor(core.FieldAppointmentDate))
	b.WriteString(`</div>`)
}

func writeDayButton(b *strings.Builder, cell core.DayCell, monthLabel string) {
	class := "flex h-9 w-full items-center justify-center rounded-md text-sm"
	switch {
	case cell.Selected:
		class += " bg-[var(--theme-accent)] font-semibold text-white"
	case cell.Available:
		class += " cursor-pointer font-semibold text-[var(--theme-accent)] ring-1 ring-[var(--theme-accent)]/30"
	default:
		class += " cursor-not-allowed text-muted-foreground/40"
	}

	disabled := ""
	if cell.Disabled() {
		disabled = " disabled"
	}
	b.WriteString(fmt.Sprintf(
		`<button type="button" class="%s" hx-post="%s" hx-vals='{"day":"%d"}' hx-target="#%s" hx-swap="outerHTML" aria-label="%d de %s" aria-pressed="%t"%s>%d</button>`,
		class, dayEndpoint, cell.Day, WizardElementID, cell.Day, monthLabel, cell.Selected, disabled, cell.Day,
	))
}

func writeTimeSlots(b *strings.Builder, data WizardData) {
	b.WriteString(`<div class="flex flex-col gap-2">`)
	b.WriteString(`<span class="flex items-center gap-2 text-sm font-medium text-foreground">Horario do Atendimento`)
	if label := data.SelectedDateLabel(); label != "" {
		b.WriteString(fmt.Sprintf(` <span class="text-xs font-normal text-muted-foreground">- %s</span>`, html.EscapeString(label)))
	}
	b.WriteString(`</span>`)

	b.WriteString(`<div class="grid grid-cols-3 gap-2 sm:grid-cols-4 md:grid-cols-5">`)
	for _, slot := range data.Slots {
		selected := data.SlotSelected(slot)
		class := "flex h-10 items-center justify-center rounded-md border text-sm font-medium"
		if selected {
			class += " border-[var(--theme-accent)] bg-[var(--theme-accent)] text-white"
		} else {
			class += " border-border bg-background text-foreground hover:border-[var(--theme-accent)]/50"
		}
		slot = html.EscapeString(slot)
		b.WriteString(fmt.Sprintf(
			`<button type="button" class="%s" hx-post="%s" hx-vals='{"time":"%s"}' hx-target="#%s" hx-swap="outerHTML" aria-pressed="%t">%s</button>`,
			class, timeEndpoint, slot, WizardElementID, selected, slot,
		))
	}
	b.WriteString(`</div>`)
	writeFieldMessage(b, core.FieldAppointmentTime, data.ErrorFor(core.FieldAppointmentTime))
	b.WriteString(`</div>`)
}
