package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind is the stable classification attached to every domain error. The
// HTTP adapter maps kinds to status codes; the core never deals in status
// codes directly.
type ErrorKind string

const (
	KindInvalidInput     ErrorKind = "invalid_input"
	KindNotFound         ErrorKind = "not_found"
	KindWrongStatus      ErrorKind = "wrong_status"
	KindAlreadyRecorded  ErrorKind = "already_recorded"
	KindInvalidRoster    ErrorKind = "invalid_roster"
	KindInvalidScore     ErrorKind = "invalid_score"
	KindAuthorization    ErrorKind = "authorization_failed"
	KindConflict         ErrorKind = "conflict"
	KindTransientStore   ErrorKind = "transient_store"
	KindFatalStore       ErrorKind = "fatal_store"
	KindDeadlineExceeded ErrorKind = "deadline_exceeded"
	KindCancelled        ErrorKind = "cancelled"
)

// Error is the single error type the core surfaces. Message is safe to show to
// callers; store-level detail stays in the wrapped cause.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds a domain error of the given kind.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a domain error that keeps cause for errors.Is/As chains
// without leaking its text to callers.
func WrapError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

func NewErrInvalidInput(format string, args ...any) *Error {
	return NewError(KindInvalidInput, format, args...)
}

func NewErrNotFound(resource string, id any) *Error {
	return NewError(KindNotFound, "%s not found: %v", resource, id)
}

func NewErrWrongStatus(format string, args ...any) *Error {
	return NewError(KindWrongStatus, format, args...)
}

func NewErrAlreadyRecorded(format string, args ...any) *Error {
	return NewError(KindAlreadyRecorded, format, args...)
}

func NewErrInvalidRoster(format string, args ...any) *Error {
	return NewError(KindInvalidRoster, format, args...)
}

func NewErrInvalidScore(format string, args ...any) *Error {
	return NewError(KindInvalidScore, format, args...)
}

func NewErrUnauthorized() *Error {
	return NewError(KindAuthorization, "caller is not allowed to perform this operation")
}

func NewErrConflict(format string, args ...any) *Error {
	return NewError(KindConflict, format, args...)
}

// KindOf classifies an arbitrary error. Context errors are folded into the
// taxonomy so adapters have a single switch to write.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return KindCancelled
	}
	return KindFatalStore
}

// IsRetryable reports whether a mutating operation may retry after err.
func IsRetryable(err error) bool {
	k := KindOf(err)
	return k == KindTransientStore || k == KindConflict
}
