package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies application errors so the transport layer can map
// them to status codes without inspecting message strings.
type ErrorKind string

const (
	ErrorKindValidation    ErrorKind = "VALIDATION"
	ErrorKindNotFound      ErrorKind = "NOT_FOUND"
	ErrorKindConflict      ErrorKind = "CONFLICT"
	ErrorKindAuthorization ErrorKind = "AUTHORIZATION"
	ErrorKindInternal      ErrorKind = "INTERNAL"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Field   string // set for validation errors when a single field is at fault
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewValidationError(field, message string) *Error {
	return &Error{Kind: ErrorKindValidation, Field: field, Message: message}
}

func NewNotFoundError(resource string) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: ErrorKindConflict, Message: message}
}

func NewAuthorizationError(message string) *Error {
	return &Error{Kind: ErrorKindAuthorization, Message: message}
}

// NewInternalError wraps an unexpected store or collaborator failure. The
// original error stays reachable through Unwrap for logging.
func NewInternalError(err error) *Error {
	return &Error{Kind: ErrorKindInternal, Message: "internal error", cause: err}
}

// KindOf extracts the error kind, defaulting to internal for errors that did
// not originate in this package.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrorKindInternal
}
