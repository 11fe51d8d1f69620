package booking

const (
	placeholder         = "---"
	previousVisaUnknown = "Nao indicado"
)

// VisaTypeOption is one selectable visa type code and its label.
type VisaTypeOption struct {
	Code  string
	Label string
}

var visaTypes = []VisaTypeOption{
	{Code: "turismo", Label: "Visto de Turismo (Curta Duracao)"},
	{Code: "trabalho", Label: "Visto de Trabalho"},
	{Code: "estudante", Label: "Visto de Estudante"},
	{Code: "residencia", Label: "Visto de Residencia"},
	{Code: "familiar", Label: "Reagrupamento Familiar"},
	{Code: "transito", Label: "Visto de Transito"},
	{Code: "medico", Label: "Visto para Tratamento Medico"},
	{Code: "negocios", Label: "Visto de Negocios"},
}

// VisaTypes returns the visa type options in display order.
func VisaTypes() []VisaTypeOption {
	return visaTypes
}

// VisaTypeLabel maps a visa type code to its label. Unknown codes, including
// the empty string, are returned unchanged.
func VisaTypeLabel(code string) string {
	for _, option := range visaTypes {
		if option.Code == code {
			return option.Label
		}
	}
	return code
}

// ReviewRow is a labelled value of the review step.
type ReviewRow struct {
	Label string
	Value string
}

// Display returns the value, or a dash placeholder when it is empty.
func (r ReviewRow) Display() string {
	if r.Value == "" {
		return placeholder
	}
	return r.Value
}

// ReviewSection groups rows under a heading.
type ReviewSection struct {
	Title string
	Icon  string
	Rows  []ReviewRow
}

// Review projects data into the read-only summary shown before payment.
func Review(data FormData) []ReviewSection {
	return []ReviewSection{
		{
			Title: "Dados Pessoais",
			Icon:  "user",
			Rows: []ReviewRow{
				{Label: "Nome Completo", Value: data.FullName},
				{Label: "Data de Nascimento", Value: data.DateOfBirth},
				{Label: "Genero", Value: data.Gender},
				{Label: "Nacionalidade", Value: data.Nationality},
				{Label: "E-mail", Value: data.Email},
				{Label: "Telefone", Value: data.Phone},
				{Label: "Morada", Value: data.Address},
				{Label: "Cidade", Value: cityLine(data)},
			},
		},
		{
			Title: "Passaporte e Visto",
			Icon:  "file-text",
			Rows: []ReviewRow{
				{Label: "Numero do Passaporte", Value: data.PassportNumber},
				{Label: "Data de Emissao", Value: data.PassportIssueDate},
				{Label: "Data de Validade", Value: data.PassportExpiryDate},
				{Label: "Pais de Emissao", Value: data.PassportIssuingCountry},
				{Label: "Tipo de Visto", Value: VisaTypeLabel(data.VisaType)},
				{Label: "Visto Schengen Anterior", Value: orDefault(data.PreviousVisa, previousVisaUnknown)},
			},
		},
		{
			Title: "Agendamento",
			Icon:  "calendar-days",
			Rows: []ReviewRow{
				{Label: "Data do Atendimento", Value: orDefault(FormatLongDate(data.AppointmentDate), placeholder)},
				{Label: "Horario", Value: orDefault(data.AppointmentTime, placeholder)},
			},
		},
	}
}

// cityLine appends the postal code only when present; an empty city still
// yields ", {postalCode}".
func cityLine(data FormData) string {
	if data.PostalCode == "" {
		return data.City
	}
	return data.City + ", " + data.PostalCode
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
