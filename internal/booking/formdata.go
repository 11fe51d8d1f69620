// Package booking holds the visa appointment form data and the pure rules
// that drive the booking steps: calendar grid, day and time-slot selection,
// review projection and field validation.
//
// Nothing in this package mutates FormData in place. Interactions return
// UpdateField commands that the owning coordinator applies.
package booking

// Field names a single value of the booking form.
type Field string

const (
	FieldFullName               Field = "fullName"
	FieldDateOfBirth            Field = "dateOfBirth"
	FieldGender                 Field = "gender"
	FieldNationality            Field = "nationality"
	FieldEmail                  Field = "email"
	FieldPhone                  Field = "phone"
	FieldAddress                Field = "address"
	FieldCity                   Field = "city"
	FieldPostalCode             Field = "postalCode"
	FieldPassportNumber         Field = "passportNumber"
	FieldPassportIssueDate      Field = "passportIssueDate"
	FieldPassportExpiryDate     Field = "passportExpiryDate"
	FieldPassportIssuingCountry Field = "passportIssuingCountry"
	FieldVisaType               Field = "visaType"
	FieldPreviousVisa           Field = "previousVisa"
	FieldAppointmentDate        Field = "appointmentDate"
	FieldAppointmentTime        Field = "appointmentTime"
)

// AllFields lists every form field in display order.
var AllFields = []Field{
	FieldFullName,
	FieldDateOfBirth,
	FieldGender,
	FieldNationality,
	FieldEmail,
	FieldPhone,
	FieldAddress,
	FieldCity,
	FieldPostalCode,
	FieldPassportNumber,
	FieldPassportIssueDate,
	FieldPassportExpiryDate,
	FieldPassportIssuingCountry,
	FieldVisaType,
	FieldPreviousVisa,
	FieldAppointmentDate,
	FieldAppointmentTime,
}

// ParseField returns the Field for a raw name, reporting whether it is known.
func ParseField(name string) (Field, bool) {
	for _, field := range AllFields {
		if string(field) == name {
			return field, true
		}
	}
	return "", false
}

// FormData is the flat set of string values collected by the wizard.
// Dates are YYYY-MM-DD and the appointment time is HH:MM.
type FormData struct {
	FullName               string `json:"fullName"`
	DateOfBirth            string `json:"dateOfBirth"`
	Gender                 string `json:"gender"`
	Nationality            string `json:"nationality"`
	Email                  string `json:"email"`
	Phone                  string `json:"phone"`
	Address                string `json:"address"`
	City                   string `json:"city"`
	PostalCode             string `json:"postalCode"`
	PassportNumber         string `json:"passportNumber"`
	PassportIssueDate      string `json:"passportIssueDate"`
	PassportExpiryDate     string `json:"passportExpiryDate"`
	PassportIssuingCountry string `json:"passportIssuingCountry"`
	VisaType               string `json:"visaType"`
	PreviousVisa           string `json:"previousVisa"`
	AppointmentDate        string `json:"appointmentDate"`
	AppointmentTime        string `json:"appointmentTime"`
}

// Value returns the value stored under field, or "" for unknown fields.
func (d FormData) Value(field Field) string {
	if p := d.ref(field); p != nil {
		return *p
	}
	return ""
}

// With returns a copy of d with field set to value. The boolean is false and
// d is returned unchanged when field is unknown.
func (d FormData) With(field Field, value string) (FormData, bool) {
	p := d.ref(field)
	if p == nil {
		return d, false
	}
	*p = value
	return d, true
}

// ref points into the receiver copy; callers only ever see copies.
func (d *FormData) ref(field Field) *string {
	switch field {
	case FieldFullName:
		return &d.FullName
	case FieldDateOfBirth:
		return &d.DateOfBirth
	case FieldGender:
		return &d.Gender
	case FieldNationality:
		return &d.Nationality
	case FieldEmail:
		return &d.Email
	case FieldPhone:
		return &d.Phone
	case FieldAddress:
		return &d.Address
	case FieldCity:
		return &d.City
	case FieldPostalCode:
		return &d.PostalCode
	case FieldPassportNumber:
		return &d.PassportNumber
	case FieldPassportIssueDate:
		return &d.PassportIssueDate
	case FieldPassportExpiryDate:
		return &d.PassportExpiryDate
	case FieldPassportIssuingCountry:
		return &d.PassportIssuingCountry
	case FieldVisaType:
		return &d.VisaType
	case FieldPreviousVisa:
		return &d.PreviousVisa
	case FieldAppointmentDate:
		return &d.AppointmentDate
	case FieldAppointmentTime:
		return &d.AppointmentTime
	}
	return nil
}

// Errors maps a field to the validation message shown beneath its input.
type Errors map[Field]string

// Has reports whether field carries a message.
func (e Errors) Has(field Field) bool {
	return e[field] != ""
}
