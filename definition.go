package fsmkit

// HandlerKind selects the registry a handler descriptor targets.
type HandlerKind string

const (
	// HandlerGuard registers a pre-commit guard hook keyed by (From, To).
	HandlerGuard HandlerKind = "guard"
	// HandlerListener registers a post-commit listener keyed by (From, To).
	HandlerListener HandlerKind = "listener"
	// HandlerEnter registers a post-commit action fired on entering State.
	HandlerEnter HandlerKind = "enter"
	// HandlerLeave registers a post-commit action fired on leaving State.
	HandlerLeave HandlerKind = "leave"
)

// Definition is the declarative description a machine is built from. It is
// plain data: produce it literally, through a Builder, by scanning a host
// struct (package statetag), or by parsing a manifest file (package
// manifest), then hand it to New.
type Definition struct {
	States   []StateDef
	Handlers []HandlerDef
}

// StateDef declares one member of the state set.
type StateDef struct {
	// Field optionally names the marker that declared this state (a struct
	// field, a manifest entry). It is used in diagnostics only.
	Field string

	// Value is the state itself. The empty value is rejected at
	// construction.
	Value State

	// Initial marks the machine's starting state. Exactly one descriptor
	// per definition must set it.
	Initial bool
}

// HandlerDef declares one guard hook, listener, or enter/leave action.
//
// Func must be a callable in one of the accepted shapes: Callback,
// func(Transition) error, func(Transition), func() error, or func().
// Zero-argument shapes are adapted into ignore-argument wrappers at
// registration, so the engine always invokes a single shape taking the
// concrete transition.
//
// Guards and listeners read From and To, where Any on either side makes
// the key wildcard. Enter and leave actions read State. Construction fails
// when a non-wildcard side names a state outside the state set.
type HandlerDef struct {
	Kind  HandlerKind
	Func  any
	From  State
	To    State
	State State
}
