package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures so callers can map them to transport errors.
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

const (
	// Validation (1xxx)
	CodeInvalidArgument        = 1000
	CodeInvalidStatus          = 1005
	CodeInvalidRole            = 1006
	CodeInvalidExperienceLevel = 1007
	CodeMissingRequired        = 1009
	CodeInvalidDateRange       = 1015
	CodeInvalidUsername        = 1016
	CodeInvalidPassword        = 1017

	// Domain state (2xxx)
	CodeTaskNotFound        = 2001
	CodeUserNotFound        = 2002
	CodeTaskTypeNotFound    = 2003
	CodeConflict            = 2102
	CodeExecutionOrderInUse = 2103
	CodeOutOfOrder          = 2104
	CodeWIPLimit            = 2105
	CodeTaskImmutable       = 2106
	CodeStillReferenced     = 2107
	CodeUsernameTaken       = 2108

	// Auth (3xxx)
	CodeForbidden = 3002

	// Internal (4xxx)
	CodeInternal     = 4001
	CodeStoreFailure = 4002
)

// Error is a classified service failure.
type Error struct {
	Kind Kind
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// CodeOf returns the numeric code of err, falling back to the kind default.
func CodeOf(err error) int {
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Code != 0 {
		return svcErr.Code
	}
	return defaultCode(KindOf(err))
}

func defaultCode(kind Kind) int {
	switch kind {
	case KindInvalidArgument:
		return CodeInvalidArgument
	case KindForbidden:
		return CodeForbidden
	case KindNotFound:
		return CodeTaskNotFound
	case KindConflict:
		return CodeConflict
	default:
		return CodeInternal
	}
}

func newError(kind Kind, code int, format string, args ...any) error {
	return &Error{Kind: kind, Code: code, Err: fmt.Errorf(format, args...)}
}

func invalidArgument(code int, format string, args ...any) error {
	return newError(KindInvalidArgument, code, format, args...)
}

func forbidden(format string, args ...any) error {
	return newError(KindForbidden, CodeForbidden, format, args...)
}

func notFound(code int, format string, args ...any) error {
	return newError(KindNotFound, code, format, args...)
}

func conflict(code int, format string, args ...any) error {
	return newError(KindConflict, code, format, args...)
}

// storeFailure wraps a persistence error. Classified errors pass through unchanged.
func storeFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return &Error{Kind: KindInternal, Code: CodeStoreFailure, Err: fmt.Errorf("%s: %w", op, err)}
}
