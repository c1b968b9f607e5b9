package fsmkit

import (
	"fmt"
	"log/slog"
	"path"
	"reflect"
	"runtime"
	"sync"

	"github.com/dmitrymomot/fsmkit/multimap"
)

// Callback is the canonical callable shape for guard hooks, listeners and
// enter/leave actions: it receives the concrete transition being taken and
// fails by returning a non-nil error (or panicking; panics are recovered
// and treated as failures).
//
// Callables are identified by their code pointer for de-duplication and
// removal. Two method values of the same method, or two closures built
// from the same function literal, therefore count as the same callable —
// the same way a single declared handler counts once no matter how often
// it is referenced.
type Callback func(t Transition) error

// hookEntry is the engine's canonical representation of one registered
// callable: zero-argument shapes are already adapted, so invocation needs
// no runtime shape inspection.
type hookEntry struct {
	id     uintptr
	name   string
	invoke Callback
}

// call invokes the callable, converting a panic into an error so a
// misbehaving hook can never take down the engine.
func (h *hookEntry) call(t Transition) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", h.name, r)
		}
	}()
	return h.invoke(t)
}

// adaptCallable coerces one of the accepted callable shapes into the
// canonical Callback. It returns false for nil callables and unsupported
// shapes.
func adaptCallable(fn any) (Callback, bool) {
	switch f := fn.(type) {
	case Callback:
		return f, f != nil
	case func(Transition) error:
		return f, f != nil
	case func(Transition):
		if f == nil {
			return nil, false
		}
		return func(t Transition) error {
			f(t)
			return nil
		}, true
	case func() error:
		if f == nil {
			return nil, false
		}
		return func(Transition) error {
			return f()
		}, true
	case func():
		if f == nil {
			return nil, false
		}
		return func(Transition) error {
			f()
			return nil
		}, true
	default:
		return nil, false
	}
}

func callableID(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

func callableName(id uintptr) string {
	if f := runtime.FuncForPC(id); f != nil {
		return path.Base(f.Name())
	}
	return "func"
}

// hookTable canonicalizes callables to one entry per identity, so the
// multimap registries can de-duplicate and remove by the original
// callable. It is synchronized independently of the machine: registration
// is safe from any goroutine.
type hookTable struct {
	mu      sync.Mutex
	entries map[uintptr]*hookEntry
}

func newHookTable() *hookTable {
	return &hookTable{entries: make(map[uintptr]*hookEntry)}
}

// intern returns the canonical entry for fn, creating one on first sight.
// It returns false when fn is nil or not an accepted shape.
func (tbl *hookTable) intern(fn any) (*hookEntry, bool) {
	invoke, ok := adaptCallable(fn)
	if !ok {
		return nil, false
	}
	id := callableID(fn)

	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	if entry, ok := tbl.entries[id]; ok {
		return entry, true
	}
	entry := &hookEntry{id: id, name: callableName(id), invoke: invoke}
	tbl.entries[id] = entry
	return entry, true
}

// lookup returns the canonical entry for the callable with code pointer
// id when one was ever interned.
func (tbl *hookTable) lookup(id uintptr) *hookEntry {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	return tbl.entries[id]
}

// AddHook registers a guard hook under the (from, to) key, where either
// side may be Any. fn takes any of the shapes New accepts. It returns
// false when the same callable is already registered under that key; the
// duplicate is dropped and logged, never rejected. Keys referencing
// states outside the state set are accepted without validation — they
// are simply never matched. A nil or mis-shaped callable panics.
func (m *Machine) AddHook(from, to State, fn any) bool {
	return m.putTransitionHandler(m.guards, "guard", from, to, fn)
}

// RemoveHook removes a guard hook previously registered under the
// (from, to) key, identified by the same callable. It returns false when
// the pair was not present. A nil or mis-shaped callable panics.
func (m *Machine) RemoveHook(from, to State, fn any) bool {
	return m.removeTransitionHandler(m.guards, "guard", from, to, fn)
}

// AddListener registers a post-commit transition listener under the
// (from, to) key. Registration semantics match AddHook. Listeners are
// notified for the exact transition key only.
func (m *Machine) AddListener(from, to State, fn any) bool {
	return m.putTransitionHandler(m.listeners, "listener", from, to, fn)
}

// RemoveListener removes a transition listener. Semantics match RemoveHook.
func (m *Machine) RemoveListener(from, to State, fn any) bool {
	return m.removeTransitionHandler(m.listeners, "listener", from, to, fn)
}

// AddEnterAction registers an action fired after a transition into state.
// Registration semantics match AddHook.
func (m *Machine) AddEnterAction(state State, fn any) bool {
	return m.putStateHandler(m.enter, "enter action", state, fn)
}

// RemoveEnterAction removes an enter action. Semantics match RemoveHook.
func (m *Machine) RemoveEnterAction(state State, fn any) bool {
	return m.removeStateHandler(m.enter, "enter action", state, fn)
}

// AddLeaveAction registers an action fired after a transition out of
// state. Registration semantics match AddHook.
func (m *Machine) AddLeaveAction(state State, fn any) bool {
	return m.putStateHandler(m.leave, "leave action", state, fn)
}

// RemoveLeaveAction removes a leave action. Semantics match RemoveHook.
func (m *Machine) RemoveLeaveAction(state State, fn any) bool {
	return m.removeStateHandler(m.leave, "leave action", state, fn)
}

func (m *Machine) putTransitionHandler(reg *multimap.Map[Transition, *hookEntry], what string, from, to State, fn any) bool {
	entry := m.internCallable(fn, what)
	key := Transition{From: from, To: to}
	if !reg.Put(key, entry) {
		m.logger.Debug("duplicate registration ignored",
			slog.String("kind", what),
			slog.String("transition", key.String()),
			slog.String("func", entry.name),
		)
		return false
	}
	return true
}

func (m *Machine) removeTransitionHandler(reg *multimap.Map[Transition, *hookEntry], what string, from, to State, fn any) bool {
	entry := m.lookupCallable(fn, what)
	if entry == nil {
		return false
	}
	return reg.Remove(Transition{From: from, To: to}, entry)
}

func (m *Machine) putStateHandler(reg *multimap.Map[State, *hookEntry], what string, state State, fn any) bool {
	entry := m.internCallable(fn, what)
	if !reg.Put(state, entry) {
		m.logger.Debug("duplicate registration ignored",
			slog.String("kind", what),
			slog.String("state", string(state)),
			slog.String("func", entry.name),
		)
		return false
	}
	return true
}

func (m *Machine) removeStateHandler(reg *multimap.Map[State, *hookEntry], what string, state State, fn any) bool {
	entry := m.lookupCallable(fn, what)
	if entry == nil {
		return false
	}
	return reg.Remove(state, entry)
}

// internCallable panics when fn is nil or not an accepted shape: shape
// mistakes at a public call site are programmer errors.
func (m *Machine) internCallable(fn any, what string) *hookEntry {
	entry, ok := m.hooks.intern(fn)
	if !ok {
		panic(fmt.Sprintf("fsmkit: %s callback must be a non-nil func in an accepted shape", what))
	}
	return entry
}

// lookupCallable validates fn like internCallable but never creates an
// entry, so removing a never-registered callable leaves no trace.
func (m *Machine) lookupCallable(fn any, what string) *hookEntry {
	if _, ok := adaptCallable(fn); !ok {
		panic(fmt.Sprintf("fsmkit: %s callback must be a non-nil func in an accepted shape", what))
	}
	return m.hooks.lookup(callableID(fn))
}
