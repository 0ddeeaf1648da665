package validate

// FieldError field error to be nested by other errors
type FieldError struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// NewFieldError create new field error
func NewFieldError(domain string, reason string) *FieldError {
	return &FieldError{domain, reason}
}

// Validator validates request payloads, messages are translated into the first supported locale
type Validator interface {
	Struct(s interface{}, locales ...string) []*FieldError
	Empty(varName string, s interface{}) []*FieldError
}
