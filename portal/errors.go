package portal

import (
	"errors"
	"fmt"
)

// Kind classifies a portal failure. Every error leaving this package carries
// exactly one Kind and a short, pre-classified user-facing message; raw
// server bodies and transport details never reach a caller-visible string.
type Kind string

const (
	KindAuth              Kind = "auth"
	KindSessionExpired    Kind = "session_expired"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindServerError       Kind = "server_error"
	KindNetworkError      Kind = "network_error"
	KindUnexpectedStatus  Kind = "unexpected_status"
	KindValidation        Kind = "validation"
	KindInsufficientFunds Kind = "insufficient_funds"
)

// Fixed user-facing messages, one per failure class.
const (
	msgAuth              = "Login failed. Please check your credentials."
	msgSessionExpired    = "Your session has expired. Please log in again."
	msgForbidden         = "You do not have permission to perform this action."
	msgNotFound          = "The requested resource was not found."
	msgServerError       = "A server error occurred. Please try again later."
	msgNetworkError      = "Unable to reach the server. Please check your connection."
	msgInsufficientFunds = "Insufficient wallet balance."
)

// Error is the uniform portal failure.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string { return e.Message }

// IsKind reports whether err (anywhere in its chain) is a portal Error of
// the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}

func authError(status int) *Error {
	return &Error{Kind: KindAuth, Message: msgAuth, StatusCode: status}
}

func networkError() *Error {
	return &Error{Kind: KindNetworkError, Message: msgNetworkError}
}

func insufficientFundsError() *Error {
	return &Error{Kind: KindInsufficientFunds, Message: msgInsufficientFunds}
}

// ErrInsufficientFunds reports that a wallet balance cannot cover a purchase.
func ErrInsufficientFunds() error { return insufficientFundsError() }

// ErrNotFound reports a missing entity with the standard user-facing message.
func ErrNotFound() error {
	return &Error{Kind: KindNotFound, Message: msgNotFound}
}

// classify maps a non-2xx HTTP status to a portal Error. 401 is handled by
// the caller first (it is the forced-logout chokepoint).
func classify(status int) *Error {
	switch {
	case status == 401:
		return &Error{Kind: KindSessionExpired, Message: msgSessionExpired, StatusCode: status}
	case status == 403:
		return &Error{Kind: KindForbidden, Message: msgForbidden, StatusCode: status}
	case status == 404:
		return &Error{Kind: KindNotFound, Message: msgNotFound, StatusCode: status}
	case status >= 500:
		return &Error{Kind: KindServerError, Message: msgServerError, StatusCode: status}
	default:
		return &Error{
			Kind:       KindUnexpectedStatus,
			Message:    fmt.Sprintf("Request failed (%d). Please try again.", status),
			StatusCode: status,
		}
	}
}

// FieldError indicates a problem with one named input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is a local, pre-network, field-scoped failure.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

// NewValidationError builds a ValidationError from a summary and its fields.
func NewValidationError(err error, fields ...FieldError) *ValidationError {
	return &ValidationError{Err: err, Fields: fields}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "invalid input"
	}
	return e.Err.Error()
}

// FieldMessage returns the message attached to a field, or "".
func (e *ValidationError) FieldMessage(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}
