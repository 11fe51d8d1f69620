package booking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is assumed for numbers typed without a country prefix.
const DefaultPhoneRegion = "CV"

var fieldMessages = map[string]string{
	"required":   "Campo obrigatorio",
	"email":      "Indique um e-mail valido",
	"phone":      "Indique um numero de telefone valido",
	"datetime":   "Indique uma data valida (AAAA-MM-DD)",
	"past_date":  "A data deve ser anterior a hoje",
	"oneof":      "Selecione uma opcao valida",
	"visa_type":  "Selecione um tipo de visto valido",
	"alphanum":   "Use apenas letras e numeros",
	"min":        "Valor demasiado curto",
	"max":        "Valor demasiado longo",
	"slot":       "Indique um horario valido (HH:MM)",
	"after_from": "A data de validade deve ser posterior a data de emissao",
}

type personalInput struct {
	FullName    string `json:"fullName" validate:"max=120"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02,past_date"`
	Gender      string `json:"gender" validate:"omitempty,oneof=masculino feminino outro"`
	Nationality string `json:"nationality" validate:"max=60"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
}

type passportInput struct {
	Address                string `json:"address" validate:"max=200"`
	City                   string `json:"city" validate:"max=80"`
	PostalCode             string `json:"postalCode" validate:"max=20"`
	PassportNumber         string `json:"passportNumber" validate:"omitempty,alphanum,min=5,max=20"`
	PassportIssueDate      string `json:"passportIssueDate" validate:"omitempty,datetime=2006-01-02,past_date"`
	PassportExpiryDate     string `json:"passportExpiryDate" validate:"omitempty,datetime=2006-01-02"`
	PassportIssuingCountry string `json:"passportIssuingCountry" validate:"max=60"`
	VisaType               string `json:"visaType" validate:"omitempty,visa_type"`
	PreviousVisa           string `json:"previousVisa" validate:"omitempty,oneof=sim nao"`
}

type appointmentInput struct {
	AppointmentDate string `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	AppointmentTime string `json:"appointmentTime" validate:"required,slot"`
}

// Validator checks form values section by section and reports per-field
// messages. Personal and passport values are optional and only checked for
// format; the appointment needs both a date and a time.
type Validator struct {
	validate     *validator.Validate
	availability Availability
	slots        TimeSlots
	now          func() time.Time
}

// NewValidator builds a Validator bound to the open booking window.
func NewValidator(availability Availability, slots TimeSlots) (*Validator, error) {
	v := &Validator{
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		availability: availability,
		slots:        slots,
		now:          time.Now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		"phone":     validatePhone,
		"visa_type": validateVisaType,
		"slot":      validateSlot,
		"past_date": v.validatePastDate,
	}
	for tag, fn := range custom {
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %q validator: %w", tag, err)
		}
	}

	return v, nil
}

// WithClock overrides the reference time used for past-date checks.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// ValidatePersonal checks the personal data step.
func (v *Validator) ValidatePersonal(data FormData) Errors {
	return v.check(personalInput{
		FullName:    strings.TrimSpace(data.FullName),
		DateOfBirth: data.DateOfBirth,
		Gender:      data.Gender,
		Nationality: strings.TrimSpace(data.Nationality),
		Email:       strings.TrimSpace(data.Email),
		Phone:       strings.TrimSpace(data.Phone),
	})
}

// ValidatePassport checks the passport, visa and address step.
func (v *Validator) ValidatePassport(data FormData) Errors {
	errs := v.check(passportInput{
		Address:                strings.TrimSpace(data.Address),
		City:                   strings.TrimSpace(data.City),
		PostalCode:             strings.TrimSpace(data.PostalCode),
		PassportNumber:         strings.TrimSpace(data.PassportNumber),
		PassportIssueDate:      data.PassportIssueDate,
		PassportExpiryDate:     data.PassportExpiryDate,
		PassportIssuingCountry: strings.TrimSpace(data.PassportIssuingCountry),
		VisaType:               data.VisaType,
		PreviousVisa:           data.PreviousVisa,
	})
	if errs.Has(FieldPassportIssueDate) || errs.Has(FieldPassportExpiryDate) {
		return errs
	}
	if data.PassportIssueDate != "" && data.PassportExpiryDate != "" {
		issued, _ := time.Parse(DateLayout, data.PassportIssueDate)
		expires, _ := time.Parse(DateLayout, data.PassportExpiryDate)
		if !expires.After(issued) {
			errs = ensure(errs)
			errs[FieldPassportExpiryDate] = fieldMessages["after_from"]
		}
	}
	return errs
}

// ValidateAppointment checks that a bookable day and an offered slot are
// chosen.
func (v *Validator) ValidateAppointment(data FormData) Errors {
	errs := v.check(appointmentInput{
		AppointmentDate: data.AppointmentDate,
		AppointmentTime: data.AppointmentTime,
	})
	if !errs.Has(FieldAppointmentDate) && !v.isOpenDate(data.AppointmentDate) {
		errs = ensure(errs)
		errs[FieldAppointmentDate] = "Data indisponivel para atendimento"
	}
	if !errs.Has(FieldAppointmentTime) && !v.slots.Contains(data.AppointmentTime) {
		errs = ensure(errs)
		errs[FieldAppointmentTime] = "Horario indisponivel"
	}
	return errs
}

// ValidateAll runs every section and merges the results.
func (v *Validator) ValidateAll(data FormData) Errors {
	merged := Errors{}
	for _, errs := range []Errors{v.ValidatePersonal(data), v.ValidatePassport(data), v.ValidateAppointment(data)} {
		for field, msg := range errs {
			merged[field] = msg
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

func (v *Validator) isOpenDate(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return t.Year() == v.availability.Year &&
		t.Month() == v.availability.Month &&
		v.availability.IsDayAvailable(t.Day())
}

func (v *Validator) check(input any) Errors {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return Errors{"": err.Error()}
	}
	errs := Errors{}
	for _, fe := range validationErrs {
		field := Field(fe.Field())
		if errs.Has(field) {
			continue
		}
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "Valor invalido"
		}
		errs[field] = msg
	}
	return errs
}

func (v *Validator) validatePastDate(fl validator.FieldLevel) bool {
	t, err := time.Parse(DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return t.Before(v.now())
}

func validatePhone(fl validator.FieldLevel) bool {
	num, err := phonenumbers.Parse(fl.Field().String(), DefaultPhoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

func validateVisaType(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	return VisaTypeLabel(code) != code
}

func validateSlot(fl validator.FieldLevel) bool {
	return IsValidSlot(fl.Field().String())
}

func ensure(errs Errors) Errors {
	if errs == nil {
		return Errors{}
	}
	return errs
}
