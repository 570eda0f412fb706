// Package taskerr carries the error taxonomy shared by the services and
// the HTTP adapter. Every error is convertible to a kind, a message and
// optional details so the adapter can render a structured response.
package taskerr

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindNoWorkingDays   Kind = "no_working_days"
	KindNoEligibleDates Kind = "no_eligible_dates"
	KindStore           Kind = "store"
)

type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetail attaches a named detail and returns the error for chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error, keeping its cause chain intact and
// recording the call site.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.WithStack(err)}
}

// KindOf reports the kind of err, or KindStore for anything unclassified:
// an error that reached the adapter without a kind came from persistence
// or a bug, and both surface as server faults.
func KindOf(err error) Kind {
	var te *Error
	if stderrors.As(err, &te) {
		return te.Kind
	}
	return KindStore
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
