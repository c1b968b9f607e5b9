// Package fsmkit builds finite-state machines from declarative
// definitions and drives their transitions with guarded hooks and
// best-effort observer notification.
//
// A machine is described up front: a set of states with exactly one
// marked initial, guard hooks keyed by (from, to) transition pairs,
// post-commit listeners keyed the same way, and enter/leave actions
// keyed by a single state. Either side of a transition key may be the
// wildcard Any. New validates the whole description and returns a
// machine positioned at the initial state; hooks and listeners can still
// be added and removed at runtime.
//
// # Architecture
//
// Every registry is a concurrent de-duplicating multimap (see the
// multimap subpackage) from a key to the set of registered callables.
// Callables are identified by code pointer, so registering the same
// function twice under one key is idempotent: the duplicate is logged
// and dropped, never rejected.
//
// Switch evaluates a transition in a fixed order. The target must be a
// member of the state set; the four guard sets (Any, Any), (current,
// Any), (Any, target) and the exact pair are snapshotted; at least one
// exact guard must exist, wildcard coverage alone never suffices; guards
// run in that order and veto by returning an error or panicking. Only
// then is the transition committed, after which leave actions, listeners
// and enter actions are notified. Notification failures go to an
// optional failure handler or the logger and never undo the transition.
//
// # Usage
//
//	import "github.com/dmitrymomot/fsmkit"
//
//	m, err := fsmkit.NewBuilder().
//		InitialState("draft").
//		State("published").
//		Hook("draft", "published", func(t fsmkit.Transition) error {
//			return nil // return an error to veto
//		}).
//		OnEnter("published", func() { /* announce */ }).
//		Build()
//	if err != nil {
//		// the definition is malformed
//	}
//
//	if m.Switch("published") {
//		// m.Current() == "published"
//	} else {
//		// m.LastFailure() explains the rejection
//	}
//
// Definitions can also be assembled literally, discovered from struct
// tags (see the statetag subpackage), or loaded from YAML manifests (see
// the manifest subpackage).
//
// # Error Handling
//
// Construction failures wrap sentinel errors such as ErrNoInitialState
// and ErrUnknownState for errors.Is matching. Rejected transitions are
// reported through the false return of Switch plus LastFailure, which
// carries either an ErrStateNotFound or an ErrTransitionRejected;
// predicates IsStateNotFoundError and IsTransitionRejectedError
// differentiate the two.
//
// # Concurrency
//
// The registries are internally synchronized, so hook management is safe
// from any goroutine, including concurrently with a transition in
// flight. The transition state itself is not synchronized: one Switch at
// a time, serialized by the caller. Guards and actions run inline on the
// caller's goroutine and may re-enter the machine.
package fsmkit
