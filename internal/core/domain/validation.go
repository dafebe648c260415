package domain

// ValidationError reports the first request field that failed validation.
// Fields are checked independently and in a fixed order, so the error always
// names exactly one field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "invalid or missing " + e.Field
}
