package booking

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	core "github.com/codr1/vistos/internal/booking"
)

// PersonalData renders the applicant identity and contact fields.
func PersonalData(data WizardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildPersonalDataHTML(data))
		return err
	})
}

func buildPersonalDataHTML(data WizardData) string {
	var b strings.Builder
	b.WriteString(`<div class="flex flex-col gap-5">`)
	writeInput(&b, inputSpec{
		Field:        core.FieldFullName,
		Label:        "Nome Completo",
		Value:        data.Data.FullName,
		Error:        data.ErrorFor(core.FieldFullName),
		Placeholder:  "Nome conforme o passaporte",
		Autocomplete: "name",
	})

	b.WriteString(`<div class="grid gap-5 sm:grid-cols-2">`)
	writeInput(&b, inputSpec{
		Field: core.FieldDateOfBirth,
		Label: "Data de Nascimento",
		Type:  "date",
		Value: data.Data.DateOfBirth,
		Error: data.ErrorFor(core.FieldDateOfBirth),
	})
	writeSelect(&b, selectSpec{
		Field:   core.FieldGender,
		Label:   "Genero",
		Value:   data.Data.Gender,
		Error:   data.ErrorFor(core.FieldGender),
		Options: genderOptions,
	})
	b.WriteString(`</div>`)

	b.WriteString(`<div class="grid gap-5 sm:grid-cols-2">`)
	writeInput(&b, inputSpec{
		Field:       core.FieldNationality,
		Label:       "Nacionalidade",
		Value:       data.Data.Nationality,
		Error:       data.ErrorFor(core.FieldNationality),
		Placeholder: "Ex: Cabo-verdiana",
	})
	writeInput(&b, inputSpec{
		Field:        core.FieldEmail,
		Label:        "E-mail",
		Type:         "email",
		Value:        data.Data.Email,
		Error:        data.ErrorFor(core.FieldEmail),
		Placeholder:  "seu@email.com",
		Autocomplete: "email",
	})
	b.WriteString(`</div>`)

	writeInput(&b, inputSpec{
		Field:        core.FieldPhone,
		Label:        "Telefone",
		Type:         "tel",
		Value:        data.Data.Phone,
		Error:        data.ErrorFor(core.FieldPhone),
		Placeholder:  "+238 999 0000",
		Autocomplete: "tel",
	})
	b.WriteString(`<p class="text-xs text-muted-foreground">Todos os campos sao opcionais.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

// Passport renders the address, passport and visa fields.
func Passport(data WizardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildPassportHTML(data))
		return err
	})
}

func buildPassportHTML(data WizardData) string {
	var b strings.Builder
	b.WriteString(`<div class="flex flex-col gap-5">`)
	writeInput(&b, inputSpec{
		Field:        core.FieldAddress,
		Label:        "Morada",
		Value:        data.Data.Address,
		Error:        data.ErrorFor(core.FieldAddress),
		Placeholder:  "Rua, numero, andar",
		Autocomplete: "street-address",
	})

	b.WriteString(`<div class="grid gap-5 sm:grid-cols-2">`)
	writeInput(&b, inputSpec{
		Field: core.FieldCity,
		Label: "Cidade",
		Value: data.Data.City,
		Error: data.ErrorFor(core.FieldCity),
	})
	writeInput(&b, inputSpec{
		Field:        core.FieldPostalCode,
		Label:        "Codigo Postal",
		Value:        data.Data.PostalCode,
		Error:        data.ErrorFor(core.FieldPostalCode),
		Autocomplete: "postal-code",
	})
	b.WriteString(`</div>`)

	b.WriteString(`<div class="grid gap-5 sm:grid-cols-2">`)
	writeInput(&b, inputSpec{
		Field: core.FieldPassportNumber,
		Label: "Numero do Passaporte",
		Value: data.Data.PassportNumber,
		Error: data.ErrorFor(core.FieldPassportNumber),
	})
	writeInput(&b, inputSpec{
		Field:       core.FieldPassportIssuingCountry,
		Label:       "Pais de Emissao",
		Value:       data.Data.PassportIssuingCountry,
		Error:       data.ErrorFor(core.FieldPassportIssuingCountry),
		Placeholder: "Ex: Cabo Verde",
	})
	b.WriteString(`</div>`)

	b.WriteString(`<div class="grid gap-5 sm:grid-cols-2">`)
	writeInput(&b, inputSpec{
		Field: core.FieldPassportIssueDate,
		Label: "Data de Emissao",
		Type:  "date",
		Value: data.Data.PassportIssueDate,
		Error: data.ErrorFor(core.FieldPassportIssueDate),
	})
	writeInput(&b, inputSpec{
		Field: core.FieldPassportExpiryDate,
		Label: "Data de Validade",
		Type:  "date",
		Value: data.Data.PassportExpiryDate,
		Error: data.ErrorFor(core.FieldPassportExpiryDate),
	})
	b.WriteString(`</div>`)

	visaOptions := make([]SelectOption, 0, len(core.VisaTypes()))
	for _, option := range core.VisaTypes() {
		visaOptions = append(visaOptions, SelectOption{Value: option.Code, Label: option.Label})
	}
	b.WriteString(`<div class="grid gap-5 sm:grid-cols-2">`)
	writeSelect(&b, selectSpec{
		Field:   core.FieldVisaType,
		Label:   "Tipo de Visto",
		Value:   data.Data.VisaType,
		Error:   data.ErrorFor(core.FieldVisaType),
		Options: visaOptions,
	})
	writeSelect(&b, selectSpec{
		Field:   core.FieldPreviousVisa,
		Label:   "Visto Schengen Anterior",
		Value:   data.Data.PreviousVisa,
		Error:   data.ErrorFor(core.FieldPreviousVisa),
		Options: previousVisaOptions,
	})
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)
	return b.String()
}
