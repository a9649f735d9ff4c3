package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can decide how to
// surface it without inspecting message text.
type Kind int

const (
	// KindInternal covers unexpected failures, typically errors bubbling
	// up from the database driver. These are not retried here.
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a single human-readable message alongside its kind. Domain
// services return exactly one message per failure; no aggregation.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, format, args...)
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return New(KindInvalidArgument, format, args...)
}

// Internal wraps an unexpected provider error. The original error remains
// reachable via errors.Unwrap for logging; the outward message stays opaque.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "unexpected internal error", cause: err}
}

// KindOf extracts the Kind of err, or KindInternal when err carries
// no classification.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	return KindInternal
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsConflict(err error) bool { return KindOf(err) == KindConflict }

func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }
