// Package errs defines the error shapes the API returns to clients.
//
// Two kinds reach the client on purpose: a ValidationError, rendered as
// 400 with every failed rule, and an HTTPError, rendered with its own status
// and a single message. Anything else is treated as an internal error.
package errs

import "net/http"

// Client-facing messages.
const (
	MsgProductNotFound = "Producto no encontrado"
	MsgProductDeleted  = "Producto eliminado"
	MsgInternal        = "Error interno del servidor"
)

// FieldError describes one failed validation rule.
//
//	{ "type": "field", "value": 0, "msg": "Precio no valido", "path": "price", "location": "body" }
type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// ValidationError is the ordered list of every rule that failed for a request.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Errors[0].Msg
}

// HTTPError is an error with a status code and a single client message.
type HTTPError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewNotFoundError creates a 404 HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: message}
}

// NewInternalServerError creates a 500 HTTPError with a generic message, so
// internal details never reach the client.
func NewInternalServerError() *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Message: MsgInternal}
}
