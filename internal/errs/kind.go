package errs

import "errors"

// Kind classifies an error so callers can tell "fix this field" from
// "try again" from "contact support".
type Kind string

const (
	KindInternal      Kind = "internal"
	KindInvalidInput  Kind = "invalid_input"
	KindUnknownChild  Kind = "unknown_child"
	KindConflict      Kind = "conflict"
	KindLimitExceeded Kind = "limit_exceeded"
	KindNotFound      Kind = "not_found"
	KindInvalidState  Kind = "invalid_state"
)

type kinded interface {
	Kind() Kind
}

// SentinelError is a comparable error value that carries a Kind.
// Declare package-level sentinels with Sentinel and wrap them with %w.
type SentinelError struct {
	kind Kind
	msg  string
}

func Sentinel(kind Kind, msg string) *SentinelError {
	return &SentinelError{kind: kind, msg: msg}
}

func (e *SentinelError) Error() string { return e.msg }
func (e *SentinelError) Kind() Kind    { return e.kind }

// KindOf returns the kind of the first classified error in the chain,
// or KindInternal when none is classified.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// Recoverable reports whether the caller can fix the input and retry.
func Recoverable(err error) bool {
	switch KindOf(err) {
	case KindInternal, "":
		return false
	default:
		return true
	}
}
