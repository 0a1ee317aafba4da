package model

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failures the ledger reports to callers.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindBalanceExceeded ErrorKind = "balance_exceeded"
	KindConflict        ErrorKind = "conflict"
	KindUnavailable     ErrorKind = "unavailable"
)

// Error carries a kind, a human-readable message and the underlying cause.
// errors.Is matches any *Error of the same kind against the Err* sentinels.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error

	// final marks a conflict that repeating the request cannot resolve.
	final bool
}

var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrBalanceExceeded = &Error{Kind: KindBalanceExceeded}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrUnavailable     = &Error{Kind: KindUnavailable}
)

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Retriable reports whether the caller may safely repeat the operation.
func (e *Error) Retriable() bool {
	switch e.Kind {
	case KindConflict:
		return !e.final
	case KindUnavailable:
		return true
	}
	return false
}

// IsRetriable reports whether err carries a retriable kind.
func IsRetriable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retriable()
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func BalanceExceeded(amount, balance fmt.Stringer) *Error {
	return &Error{
		Kind:    KindBalanceExceeded,
		Message: fmt.Sprintf("payment amount %s cannot exceed outstanding balance %s", amount, balance),
	}
}

func Conflict(err error) *Error {
	return &Error{Kind: KindConflict, Message: "the record was changed by another request, please try again", Err: err}
}

// AlreadyExists is a conflict with existing state, such as a unique key. It
// is not retriable.
func AlreadyExists(entity string, err error) *Error {
	return &Error{Kind: KindConflict, Message: entity + " already exists", Err: err, final: true}
}

func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Message: "service unavailable, please try again later", Err: err}
}

// KindOf returns the kind of err, or KindUnavailable for errors that never
// went through the translation boundary.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}

// UserMessage is the text safe to show an end user. Infrastructure details
// never leak through it.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	switch KindOf(err) {
	case KindValidation:
		return "invalid input"
	case KindNotFound:
		return "not found"
	case KindBalanceExceeded:
		return "payment amount cannot exceed outstanding balance"
	case KindConflict:
		return "the record was changed by another request, please try again"
	}
	return "service unavailable, please try again later"
}
