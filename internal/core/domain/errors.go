package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for the API boundary.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a classified failure. Message is safe to show to callers for
// validation and not-found errors; Err holds the underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ErrNotFound is returned when no POI has the requested id.
var ErrNotFound = &Error{Kind: KindNotFound, Message: "POI not found"}

// NewValidationError builds a caller-facing input error.
func NewValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewInternalError wraps an infrastructure fault.
func NewInternalError(op string, err error) error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of err. Unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
