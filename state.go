package fsmkit

// State is one element of a machine's finite state domain. States are
// opaque comparable values with no intrinsic behavior; the set of states a
// machine knows is fixed once construction completes.
type State string

// Any is the wildcard sentinel. Used on either side of a Transition key it
// matches every state; it is never a member of the state set and never a
// valid transition target.
const Any State = ""

// Transition identifies a from-to state pair. It keys the guard-hook and
// listener registries, where either side may be Any, and it is the value
// handed to every invoked callback, where both sides are always concrete.
type Transition struct {
	From State
	To   State
}

// String renders the pair for logs and error messages, with "*" standing
// in for a wildcard side.
func (t Transition) String() string {
	return wildcardLabel(t.From) + "->" + wildcardLabel(t.To)
}

func wildcardLabel(s State) string {
	if s == Any {
		return "*"
	}
	return string(s)
}
