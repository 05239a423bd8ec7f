package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is a custom error type that contains a code and a message.
type Error struct {
	Code    int
	Message string
	Err     error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error.
func New(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with a formatted message.
func Newf(code int, format string, a ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code int, err error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain carries the given code.
func Is(err error, code int) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Error codes
const (
	// ErrUnknown is an unknown error.
	ErrUnknown = iota
	// ErrNotFound is a not found error.
	ErrNotFound
	// ErrBadRequest is a bad request error.
	ErrBadRequest
	// ErrUnavailable means the operation cannot run right now (busy or throttled).
	ErrUnavailable
	// ErrInternal is an internal error.
	ErrInternal
)
