package fsmkit

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/fsmkit/multimap"
)

const defaultWatchBuffer = 16

// Machine is a finite-state machine built from a Definition. The state
// set and initial state are fixed at construction; guard hooks, listeners
// and enter/leave actions may be added and removed afterward.
//
// The registries are internally synchronized, so hooks can be managed
// from any goroutine. The transition state itself (Current, History,
// LastFailure) is not: callers must serialize Switch externally and keep
// at most one transition in flight per machine.
type Machine struct {
	id          string
	logger      *slog.Logger
	failure     FailureHandler
	watchBuffer int

	states  map[State]struct{}
	initial State

	hooks *hookTable

	guards    *multimap.Map[Transition, *hookEntry]
	listeners *multimap.Map[Transition, *hookEntry]
	enter     *multimap.Map[State, *hookEntry]
	leave     *multimap.Map[State, *hookEntry]

	current State
	history []State
	lastErr error

	watchers *watcherSet
}

// New validates def and builds a machine positioned at the initial state.
//
// Validation runs in a fixed order: every state descriptor first (empty
// values fail, duplicate values are logged and skipped, a second initial
// marker fails), then the exactly-one-initial requirement, then the shape
// of every handler callable before any is registered, then guard and
// listener insertion, then enter and leave insertion. Handlers keyed by a
// named state must reference a member of the state set; the wildcard Any
// bypasses that check. Any failure aborts construction.
func New(def Definition, opts ...Option) (*Machine, error) {
	m := &Machine{
		id:          uuid.NewString(),
		logger:      slog.Default(),
		watchBuffer: defaultWatchBuffer,
		states:      make(map[State]struct{}, len(def.States)),
		hooks:       newHookTable(),
		guards:      multimap.New[Transition, *hookEntry](),
		listeners:   multimap.New[Transition, *hookEntry](),
		enter:       multimap.New[State, *hookEntry](),
		leave:       multimap.New[State, *hookEntry](),
		watchers:    newWatcherSet(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(slog.String("machine", m.id))

	initialSet := false
	for _, sd := range def.States {
		if sd.Value == Any {
			return nil, defErr("state field %q: %w", sd.Field, ErrEmptyStateValue)
		}
		if _, dup := m.states[sd.Value]; dup {
			m.logger.Warn("duplicate state value ignored",
				slog.String("state", string(sd.Value)),
				slog.String("field", sd.Field),
			)
		} else {
			m.states[sd.Value] = struct{}{}
		}
		if sd.Initial {
			if initialSet {
				return nil, defErr("state %q: %w", string(sd.Value), ErrMultipleInitialStates)
			}
			m.initial = sd.Value
			initialSet = true
		}
	}
	if !initialSet {
		return nil, defErr("%w", ErrNoInitialState)
	}

	// Shape check for every handler before any insertion, so a single bad
	// descriptor never leaves the registries partially populated.
	prepared := make([]*hookEntry, len(def.Handlers))
	for i, hd := range def.Handlers {
		switch hd.Kind {
		case HandlerGuard, HandlerListener, HandlerEnter, HandlerLeave:
		default:
			return nil, defErr("handler %d: kind %q: %w", i, string(hd.Kind), ErrInvalidHandler)
		}
		entry, ok := m.hooks.intern(hd.Func)
		if !ok {
			return nil, defErr("%s handler %d: %w", hd.Kind, i, ErrInvalidHandler)
		}
		prepared[i] = entry
	}

	for i, hd := range def.Handlers {
		var reg *multimap.Map[Transition, *hookEntry]
		switch hd.Kind {
		case HandlerGuard:
			reg = m.guards
		case HandlerListener:
			reg = m.listeners
		default:
			continue
		}
		if hd.From != Any && !m.member(hd.From) {
			return nil, defErr("%s handler %d: %w %q", hd.Kind, i, ErrUnknownState, string(hd.From))
		}
		if hd.To != Any && !m.member(hd.To) {
			return nil, defErr("%s handler %d: %w %q", hd.Kind, i, ErrUnknownState, string(hd.To))
		}
		key := Transition{From: hd.From, To: hd.To}
		if !reg.Put(key, prepared[i]) {
			m.logger.Debug("duplicate registration ignored",
				slog.String("kind", string(hd.Kind)),
				slog.String("transition", key.String()),
				slog.String("func", prepared[i].name),
			)
		}
	}

	for i, hd := range def.Handlers {
		var reg *multimap.Map[State, *hookEntry]
		switch hd.Kind {
		case HandlerEnter:
			reg = m.enter
		case HandlerLeave:
			reg = m.leave
		default:
			continue
		}
		if hd.State != Any && !m.member(hd.State) {
			return nil, defErr("%s handler %d: %w %q", hd.Kind, i, ErrUnknownState, string(hd.State))
		}
		if !reg.Put(hd.State, prepared[i]) {
			m.logger.Debug("duplicate registration ignored",
				slog.String("kind", string(hd.Kind)),
				slog.String("state", string(hd.State)),
				slog.String("func", prepared[i].name),
			)
		}
	}

	m.current = m.initial
	return m, nil
}

// MustNew works like New but panics when the definition is invalid.
func MustNew(def Definition, opts ...Option) *Machine {
	m, err := New(def, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Current returns the state the machine occupies.
func (m *Machine) Current() State {
	return m.current
}

// Initial returns the state the machine started in.
func (m *Machine) Initial() State {
	return m.initial
}

// States returns the state set in sorted order.
func (m *Machine) States() []State {
	states := make([]State, 0, len(m.states))
	for s := range m.states {
		states = append(states, s)
	}
	slices.Sort(states)
	return states
}

// History returns the states the machine previously occupied, oldest
// first, one entry per successful transition. The returned slice is a
// copy.
func (m *Machine) History() []State {
	return slices.Clone(m.history)
}

// LastFailure returns the condition behind the most recent rejected
// transition, or nil if no transition was ever rejected. It is not
// cleared by a later successful transition.
func (m *Machine) LastFailure() error {
	return m.lastErr
}

func (m *Machine) member(s State) bool {
	_, ok := m.states[s]
	return ok
}

func defErr(format string, args ...any) error {
	return fmt.Errorf("fsmkit: invalid definition: "+format, args...)
}
