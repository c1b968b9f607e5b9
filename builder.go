package fsmkit

import "slices"

// Builder accumulates a Definition through a fluent API. It performs no
// validation itself; Build hands the accumulated definition to New, which
// validates everything in one place.
type Builder struct {
	def Definition
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// State declares a state value.
func (b *Builder) State(s State) *Builder {
	b.def.States = append(b.def.States, StateDef{Value: s})
	return b
}

// InitialState declares the state the machine starts in. Exactly one
// initial state must be declared across the whole definition.
func (b *Builder) InitialState(s State) *Builder {
	b.def.States = append(b.def.States, StateDef{Value: s, Initial: true})
	return b
}

// Hook registers a guard hook for the (from, to) pair; either side may be
// Any. fn must be one of the accepted callable shapes.
func (b *Builder) Hook(from, to State, fn any) *Builder {
	b.def.Handlers = append(b.def.Handlers, HandlerDef{Kind: HandlerGuard, Func: fn, From: from, To: to})
	return b
}

// Listener registers a post-commit listener for the (from, to) pair.
func (b *Builder) Listener(from, to State, fn any) *Builder {
	b.def.Handlers = append(b.def.Handlers, HandlerDef{Kind: HandlerListener, Func: fn, From: from, To: to})
	return b
}

// OnEnter registers an action fired after a transition into state.
func (b *Builder) OnEnter(state State, fn any) *Builder {
	b.def.Handlers = append(b.def.Handlers, HandlerDef{Kind: HandlerEnter, Func: fn, State: state})
	return b
}

// OnLeave registers an action fired after a transition out of state.
func (b *Builder) OnLeave(state State, fn any) *Builder {
	b.def.Handlers = append(b.def.Handlers, HandlerDef{Kind: HandlerLeave, Func: fn, State: state})
	return b
}

// Definition returns a copy of the accumulated definition. The builder
// can keep accumulating afterward without affecting the copy.
func (b *Builder) Definition() Definition {
	return Definition{
		States:   slices.Clone(b.def.States),
		Handlers: slices.Clone(b.def.Handlers),
	}
}

// Build validates the accumulated definition and constructs the machine.
func (b *Builder) Build(opts ...Option) (*Machine, error) {
	return New(b.Definition(), opts...)
}
