package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers and the HTTP layer can branch on it
// without matching message strings.
type Kind int

const (
	// KindInternal is the default for unclassified failures.
	KindInternal Kind = iota
	// KindValidation marks malformed or unacceptable input; no side effects
	// took place.
	KindValidation
	// KindUnavailable marks a required model component that is not
	// initialized; the caller may retry later.
	KindUnavailable
	// KindNotFound marks a session id with no stored record.
	KindNotFound
	// KindUpstream marks a failure raised by the external model during
	// processing or conversation.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnavailable:
		return "unavailable"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	}
	return "internal"
}

// Error carries a kind, a caller-visible message and an optional cause.
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

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Unavailable(format string, args ...any) *Error {
	return &Error{Kind: KindUnavailable, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Upstream(message string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: cause}
}

// KindOf extracts the kind of any error, defaulting to internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
