package core

import (
	"errors"
	"log/slog"
)

// Kind classifies a failure at the read model boundary.
type Kind string

const (
	KindDatastore  Kind = "datastore"
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
)

// Sentinels for errors.Is checks against an *Error.
var (
	ErrDatastore  = errors.New("datastore error")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// Error is the failure returned by every read operation. Callers see the
// kind, the operation and a fixed message; the underlying cause is only
// exposed to log handlers through LogValue.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	cause   error
}

// NewError builds a classified error for op.
func NewError(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, cause: cause}
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrDatastore:
		return e.Kind == KindDatastore
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

// LogValue implements slog.LogValuer so log sinks receive the full cause.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", string(e.Kind)),
		slog.String("operation", e.Op),
		slog.String("message", e.Message),
	}
	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}
	return slog.GroupValue(attrs...)
}

// KindOf returns the kind of a classified error, or KindDatastore for any
// other non-nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDatastore
}
