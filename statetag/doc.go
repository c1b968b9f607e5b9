// Package statetag discovers a machine definition from struct tags, so a
// host object can declare its states and lifecycle callbacks next to the
// data they belong to.
//
// Fields are marked with the fsm tag:
//
//	type Order struct {
//		Draft   fsmkit.State `fsm:"state,initial"`
//		Paid    fsmkit.State `fsm:"state"`
//		Refused fsmkit.State `fsm:"state"`
//
//		CheckPayment func(fsmkit.Transition) error `fsm:"hook,from=draft,to=paid"`
//		NotifyPaid   func()                        `fsm:"enter,state=paid"`
//		AuditTrail   func(fsmkit.Transition)       `fsm:"listener"`
//	}
//
// A state field must have a string kind; its value at Describe time is
// the state. Handler fields must hold a non-nil function in one of the
// shapes New accepts. Omitting from, to or state in a handler tag keys it
// by the wildcard. Unexported fields, untagged fields and fields tagged
// "-" are skipped; exported anonymous embedded structs are scanned
// recursively.
//
// Describe only discovers: the returned definition is validated by
// fsmkit.New like any other.
package statetag
