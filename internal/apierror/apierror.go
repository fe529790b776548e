// Package apierror defines the JSON error envelopes the API returns.
// Handlers never serialize raw errors: internal detail (SQL, stack traces)
// stays out of responses.
package apierror

// APIError is the envelope for every 4xx/5xx response: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries per-field messages from request validation,
// keyed by the JSON field name.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validación", Fields: fields}
}
