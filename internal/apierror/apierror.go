// Package apierror provides the error envelopes returned by the API.
// Handlers never put internal details (SQL errors, stack traces) in them.
package apierror

// APIError is the envelope for every 4xx/5xx response.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps per-field errors. Fields is keyed by field name, or by
// option group id when the pricing engine rejects a selection.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Fields: fields}
}

// NewValidationMsg is NewValidation with a custom headline.
func NewValidationMsg(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Detail: msg, Fields: fields}
}
