// Package manifest loads machine definitions from YAML, so a transition
// relation can live in configuration instead of code.
//
// A manifest lists the state set, the initial state and the permitted
// transitions:
//
//	name: order-flow
//	states: [draft, review, published]
//	initial: draft
//	transitions:
//	  - {from: draft, to: review}
//	  - {from: review, to: published, guard: checkApproval}
//	listeners:
//	  - {from: draft, to: review, handler: auditLog}
//	enter:
//	  - {state: published, handler: announce}
//	leave:
//	  - {state: draft, handler: cleanup}
//
// Each transitions entry becomes an exact guard hook: a permit-all one,
// or the named handler when guard is set, which then decides at runtime.
// Because the engine requires an exact guard per pair, the transitions
// list is the machine's transition relation. Entries without a guard must
// name both states; entries with one may leave a side empty to key the
// guard by the wildcard.
//
// Handler names are resolved against the map given via WithHandlers.
// Listener, enter and leave entries always require a handler name.
//
// Load and Parse only assemble a definition; fsmkit.New validates it like
// any other.
package manifest
