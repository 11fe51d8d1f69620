package booking

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/codr1/vistos/internal/booking"
	"github.com/codr1/vistos/internal/drafts"
	"github.com/codr1/vistos/internal/wizard"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	return buf.String()
}

func travelData(formData core.FormData) WizardData {
	draft := drafts.Draft{ID: "d1", Step: string(wizard.StepTravel), Data: formData}
	return NewWizardData(draft, core.DefaultAvailability(), core.DefaultTimeSlots())
}

func TestTravelDetails_CalendarButtons(t *testing.T) {
	body := render(t, TravelDetails(travelData(core.FormData{})))

	assert.Equal(t, 31, strings.Count(body, `hx-post="/api/v1/booking/day"`), "day buttons")
	assert.Equal(t, 26, strings.Count(body, " disabled>"), "disabled days")
	assert.Contains(t, body, `aria-label="11 de março de 2026"`)
	assert.Contains(t, body, ">março de 2026<")
	assert.NotContains(t, body, timeEndpoint, "time slots should be hidden until a date is chosen")
	assert.NotContains(t, body, "Atendimento agendado para", "confirmation banner should be hidden without a date and time")
}

func TestTravelDetails_SelectedDayAndSlot(t *testing.T) {
	body := render(t, TravelDetails(travelData(core.FormData{
		AppointmentDate: "2026-03-11",
		AppointmentTime: "10:30",
	})))

	assert.Equal(t, 2, strings.Count(body, `aria-pressed="true"`), "day and slot should be pressed")
	assert.Equal(t, 13, strings.Count(body, `hx-post="/api/v1/booking/time"`), "slot buttons")
	assert.Contains(t, body, "<strong>Atendimento agendado para:</strong> quarta-feira, 11 de março de 2026 as 10:30")
}

func TestPersonalData_ErrorAccessibility(t *testing.T) {
	draft := drafts.Draft{
		Step:   string(wizard.StepPersonal),
		Data:   core.FormData{Email: "bad"},
		Errors: core.Errors{core.FieldEmail: "Indique um e-mail valido"},
	}
	body := render(t, PersonalData(NewWizardData(draft, core.DefaultAvailability(), core.DefaultTimeSlots())))

	assert.Contains(t, body, `aria-invalid="true" aria-describedby="email-error"`)
	assert.Contains(t, body, `<p id="email-error" class="text-xs text-[var(--theme-highlight)]" role="alert">Indique um e-mail valido</p>`)
	assert.Equal(t, 1, strings.Count(body, `aria-invalid="true"`), "only the email input should be marked invalid")
}

func TestPersonalData_EscapesValues(t *testing.T) {
	draft := drafts.Draft{
		Step: string(wizard.StepPersonal),
		Data: core.FormData{FullName: `<script>alert("x")</script>`},
	}
	body := render(t, PersonalData(NewWizardData(draft, core.DefaultAvailability(), core.DefaultTimeSlots())))
	assert.NotContains(t, body, "<script>")
}

func TestReview_RendersProjection(t *testing.T) {
	draft := drafts.Draft{
		Step: string(wizard.StepReview),
		Data: core.FormData{
			PostalCode:      "7600",
			AppointmentDate: "2026-03-11",
			AppointmentTime: "10:30",
		},
	}
	body := render(t, Wizard(NewWizardData(draft, core.DefaultAvailability(), core.DefaultTimeSlots())))

	for _, want := range []string{
		"<dd class=\"text-sm font-medium text-foreground\">, 7600</dd>",
		"quarta-feira, 11 de março de 2026",
		"Nao indicado",
		"Prosseguir para Pagamento",
		`hx-post="/api/v1/booking/submit"`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestWizard_Navigation(t *testing.T) {
	first := render(t, Wizard(NewWizardData(drafts.Draft{Step: string(wizard.StepPersonal)}, core.DefaultAvailability(), core.DefaultTimeSlots())))
	assert.NotContains(t, first, "/api/v1/booking/back", "first step should not offer back")
	assert.Contains(t, first, "/api/v1/booking/next")
	assert.Contains(t, first, `aria-current="step"`)

	submitted := render(t, Wizard(WizardData{Submitted: true}))
	assert.Contains(t, submitted, "Pedido de agendamento recebido")
}

func TestPassport_VisaSelect(t *testing.T) {
	draft := drafts.Draft{
		Step: string(wizard.StepPassport),
		Data: core.FormData{VisaType: "estudante", PreviousVisa: "sim"},
	}
	body := render(t, Passport(NewWizardData(draft, core.DefaultAvailability(), core.DefaultTimeSlots())))

	assert.Equal(t, len(core.VisaTypes())+len(previousVisaOptions)+2, strings.Count(body, `<option value="`),
		"visa types, previous-visa choices and placeholders")
	assert.Contains(t, body, `<option value="estudante" selected>Visto de Estudante</option>`)
	assert.Contains(t, body, `hx-vals='{"field":"passportNumber"}'`)
}
