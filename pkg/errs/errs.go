// Package errs defines the error taxonomy shared across the module. Every
// error carries a kind and a human-readable message so callers can tell
// "fix your input" from "try again later" from "this is final".
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	// KindValidation marks malformed caller input. Never retried.
	KindValidation Kind = iota + 1
	// KindConflict marks a state conflict, e.g. a transition attempted from
	// a canceled card. Fatal to the operation.
	KindConflict
	// KindLimitExceeded marks an authorization that would exceed the rolling
	// spend limit. The caller may retry with a smaller amount or after
	// exposure ages out.
	KindLimitExceeded
	// KindCrypto marks a cryptographic failure: wrong environment key,
	// malformed ciphertext, or a decryption failure. Always fatal to that
	// single retrieval.
	KindCrypto
	// KindExternal marks a failure from an external collaborator, passed
	// through with its origin preserved.
	KindExternal
	// KindNotFound marks a missing entity.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindLimitExceeded:
		return "limit exceeded"
	case KindCrypto:
		return "crypto"
	case KindExternal:
		return "external"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is a kinded error with a human message and an optional cause.
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

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so sentinel comparisons like
// errors.Is(err, errs.New(errs.KindConflict, "")) work across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or 0 if err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
