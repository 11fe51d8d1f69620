package booking

// UpdateField asks the owner of the form data to set Field to Value.
type UpdateField struct {
	Field Field
	Value string
}

// Set is shorthand for a single-command slice.
func Set(field Field, value string) []UpdateField {
	return []UpdateField{{Field: field, Value: value}}
}

// Apply folds cmds over data in order and returns the result. Commands naming
// unknown fields are skipped.
func Apply(data FormData, cmds ...UpdateField) FormData {
	for _, cmd := range cmds {
		data, _ = data.With(cmd.Field, cmd.Value)
	}
	return data
}
