// Package shahaerr defines the error kinds surfaced across the hash
// database engine, grounded on indexes/errors.go's sentinel style but
// extended with wrapping so callers can carry per-error context and
// still test kind with errors.Is/errors.As.
package shahaerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error kinds in spec.md §7.
type Kind int

const (
	KindEmptyInput Kind = iota
	KindUnknownAlgorithm
	KindBadHexInput
	KindSourceUnavailable
	KindMissingCredential
	KindCorruptArtifact
	KindRemoteIOError
	KindInconsistentMerge
)

func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "EmptyInput"
	case KindUnknownAlgorithm:
		return "UnknownAlgorithm"
	case KindBadHexInput:
		return "BadHexInput"
	case KindSourceUnavailable:
		return "SourceUnavailable"
	case KindMissingCredential:
		return "MissingCredential"
	case KindCorruptArtifact:
		return "CorruptArtifact"
	case KindRemoteIOError:
		return "RemoteIOError"
	case KindInconsistentMerge:
		return "InconsistentMerge"
	default:
		return "Unknown"
	}
}

// Error is a typed error carrying a Kind so callers can branch on it
// without string matching, while still wrapping an underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so
// errors.Is(err, shahaerr.New(KindBadHexInput, "", nil)) works without
// requiring an exact message match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Msg: err.Error(), Err: err}
}

// Of returns the Kind of err if it (or something it wraps) is a
// *Error, and ok=false otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

var (
	ErrEmptyInput         = &Error{Kind: KindEmptyInput}
	ErrBadHexInput        = &Error{Kind: KindBadHexInput}
	ErrInconsistentMerge  = &Error{Kind: KindInconsistentMerge}
)
