package booking

import (
	core "github.com/codr1/vistos/internal/booking"
	"github.com/codr1/vistos/internal/drafts"
	"github.com/codr1/vistos/internal/wizard"
)

const (
	WizardElementID = "booking-wizard"
	FeedbackID      = "booking-feedback"
)

type StepIndicator struct {
	Number   int
	Title    string
	Current  bool
	Complete bool
}

type SelectOption struct {
	Value string
	Label string
}

var genderOptions = []SelectOption{
	{Value: "masculino", Label: "Masculino"},
	{Value: "feminino", Label: "Feminino"},
	{Value: "outro", Label: "Outro"},
}

var previousVisaOptions = []SelectOption{
	{Value: "sim", Label: "Sim"},
	{Value: "nao", Label: "Nao"},
}

// WizardData is everything a step needs to render. Selection flags are
// derived from Data on each render, never stored.
type WizardData struct {
	Step      wizard.Step
	Steps     []StepIndicator
	Data      core.FormData
	Errors    core.Errors
	Calendar  core.CalendarView
	Slots     core.TimeSlots
	Review    []core.ReviewSection
	Submitted bool
	Notice    string
}

func NewWizardData(draft drafts.Draft, availability core.Availability, slots core.TimeSlots) WizardData {
	step, ok := wizard.ParseStep(draft.Step)
	if !ok {
		step = wizard.StepPersonal
	}

	indicators := make([]StepIndicator, len(wizard.Steps))
	for i, s := range wizard.Steps {
		indicators[i] = StepIndicator{
			Number:   i + 1,
			Title:    s.Title(),
			Current:  s == step,
			Complete: i < step.Index(),
		}
	}

	data := WizardData{
		Step:      step,
		Steps:     indicators,
		Data:      draft.Data,
		Errors:    draft.Errors,
		Slots:     slots,
		Submitted: draft.Submitted(),
	}
	switch step {
	case wizard.StepTravel:
		data.Calendar = availability.Calendar(draft.Data)
	case wizard.StepReview:
		data.Review = core.Review(draft.Data)
	}
	return data
}

func (d WizardData) ErrorFor(field core.Field) string {
	return d.Errors[field]
}

func (d WizardData) SlotsVisible() bool {
	return d.Slots.Visible(d.Data)
}

func (d WizardData) SlotSelected(slot string) bool {
	return d.Slots.IsSelected(d.Data, slot)
}

// SelectedDateLabel is the long pt-PT form of the chosen date, or "".
func (d WizardData) SelectedDateLabel() string {
	return core.FormatLongDate(d.Data.AppointmentDate)
}

func (d WizardData) HasAppointment() bool {
	return d.Data.AppointmentDate != "" && d.Data.AppointmentTime != ""
}

