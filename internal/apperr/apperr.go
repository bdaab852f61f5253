package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so handlers can map it to an HTTP
// status without inspecting raw backend error text.
type Kind int

const (
	Validation Kind = iota
	Auth
	Authorization
	NotFound
	Backend
	RateLimit
	ExternalService
)

// Error is an application error carrying a kind and a user-safe message.
// The wrapped cause is for logs only; it is never returned to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an application error with a user-safe message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an application error wrapping an underlying cause
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error, defaulting to Backend
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Backend
}

// MessageOf extracts the user-safe message from an error. Unknown errors
// collapse to a generic message so backend details never leak to clients.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong, please try again"
}
