// Package scanerrors implements the closed error taxonomy from spec.md §7 as
// a small set of sentinel-wrapped types rather than an exception hierarchy —
// the "replace exception-driven control flow with a result sum type" redesign
// flag from spec.md §9, applied uniformly across the engine.
package scanerrors

import (
	"errors"
	"fmt"
)

// Kind is one of the eight error kinds spec.md §7 enumerates.
type Kind string

const (
	KindInvalidInput          Kind = "InvalidInput"
	KindTargetUnreachable     Kind = "TargetUnreachable"
	KindArchitectureViolation Kind = "ArchitectureViolation"
	KindToolNotInstalled      Kind = "ToolNotInstalled"
	KindToolTimeout           Kind = "ToolTimeout"
	KindToolArgumentError     Kind = "ToolArgumentError"
	KindParseFailure          Kind = "ParseFailure"
	KindBudgetExhausted       Kind = "BudgetExhausted"
)

// Error wraps an underlying cause with its taxonomy Kind so callers can
// branch with errors.As without inspecting message text.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New constructs a taxonomy error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs a taxonomy error of the given kind around a cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Halts reports whether an error of this kind must abort the whole scan
// (exit code 5), per spec.md §7's propagation policy: only InvalidInput and
// ArchitectureViolation halt; every other kind is local to one tool and is
// recorded on its ExecutionRecord instead of propagated.
func Halts(err error) bool {
	return Is(err, KindInvalidInput) || Is(err, KindArchitectureViolation)
}
