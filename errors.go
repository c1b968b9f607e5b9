package fsmkit

import (
	"errors"
	"fmt"
)

// Construction failures. New wraps each of them with definition context,
// so callers match with errors.Is.
var (
	// ErrNoInitialState is returned when a definition marks no state as initial.
	ErrNoInitialState = errors.New("no initial state defined")

	// ErrMultipleInitialStates is returned when a definition marks more than one state as initial.
	ErrMultipleInitialStates = errors.New("more than one initial state defined")

	// ErrEmptyStateValue is returned when a state descriptor carries the empty value.
	ErrEmptyStateValue = errors.New("state value is empty")

	// ErrUnknownState is returned when a handler descriptor references a state outside the state set.
	ErrUnknownState = errors.New("unknown state")

	// ErrInvalidHandler is returned when a handler descriptor carries a nil
	// callable, a callable of an unsupported shape, or an unknown kind.
	ErrInvalidHandler = errors.New("invalid handler")
)

// ErrNoExactHook is the rejection cause when no guard hook is registered
// under the exact (from, to) pair of a requested transition. Wildcard
// coverage alone never permits a transition.
var ErrNoExactHook = errors.New("no exact guard hook for this transition")

// ErrParsingConfig is returned by LoadConfig when the environment cannot
// be parsed into a Config.
var ErrParsingConfig = errors.New("fsmkit: failed to parse config")

// ErrStateNotFound indicates a transition target outside the state set.
type ErrStateNotFound struct {
	State State
}

func (e *ErrStateNotFound) Error() string {
	return fmt.Sprintf("fsmkit: state %q is not part of the state set", string(e.State))
}

// ErrTransitionRejected indicates a transition that was stopped before
// commit: either no exact guard hook exists for the pair, or an invoked
// guard hook failed. Err carries the cause.
type ErrTransitionRejected struct {
	Transition Transition
	Err        error
}

func (e *ErrTransitionRejected) Error() string {
	return fmt.Sprintf("fsmkit: transition %s rejected: %v", e.Transition, e.Err)
}

func (e *ErrTransitionRejected) Unwrap() error {
	return e.Err
}

// IsStateNotFoundError reports whether err is an ErrStateNotFound.
func IsStateNotFoundError(err error) bool {
	var e *ErrStateNotFound
	return errors.As(err, &e)
}

// IsTransitionRejectedError reports whether err is an ErrTransitionRejected.
func IsTransitionRejectedError(err error) bool {
	var e *ErrTransitionRejected
	return errors.As(err, &e)
}
