package fsmkit

import (
	"log/slog"
)

// Switch requests a transition from the current state into next and
// reports whether it was taken. An empty target panics.
//
// The transition is evaluated in a fixed order. First next must be a
// member of the state set. Then the four guard sets are snapshotted:
// (Any, Any), (current, Any), (Any, next) and the exact (current, next)
// pair. At least one exact guard is mandatory; wildcard coverage alone
// never permits a transition. Guards then run in that order, each
// receiving the concrete transition, and the first error or panic vetoes
// the transition with no state change. On success the prior state is
// appended to the history and the current state updated, then leave
// actions, listeners and enter actions are notified best-effort: their
// failures go to the failure handler or the logger and never undo the
// transition.
//
// On a false return LastFailure carries the rejection condition.
func (m *Machine) Switch(next State) bool {
	if next == Any {
		panic("fsmkit: target state cannot be empty")
	}

	from := m.current
	key := Transition{From: from, To: next}

	if !m.member(next) {
		return m.reject(key, &ErrStateNotFound{State: next})
	}

	anyAny := m.guards.Values(Transition{From: Any, To: Any})
	fromAny := m.guards.Values(Transition{From: from, To: Any})
	anyNext := m.guards.Values(Transition{From: Any, To: next})
	exact := m.guards.Values(key)

	if len(exact) == 0 {
		return m.reject(key, &ErrTransitionRejected{Transition: key, Err: ErrNoExactHook})
	}

	for _, set := range [][]*hookEntry{anyAny, fromAny, anyNext, exact} {
		for _, h := range set {
			if err := h.call(key); err != nil {
				return m.reject(key, &ErrTransitionRejected{Transition: key, Err: err})
			}
		}
	}

	m.history = append(m.history, from)
	m.current = next
	m.logger.Debug("transition committed", slog.String("transition", key.String()))

	m.notify(m.leave.Values(from), "leave action", key)
	m.notify(m.listeners.Values(key), "listener", key)
	m.notify(m.enter.Values(next), "enter action", key)

	m.watchers.publish(Change{From: from, To: next})
	return true
}

// CanSwitch reports whether Switch(next) would pass the membership and
// exact-guard requirements. It invokes no guard, so a true result only
// means the transition would be attempted, not that every guard would
// permit it. An empty target panics.
func (m *Machine) CanSwitch(next State) bool {
	if next == Any {
		panic("fsmkit: target state cannot be empty")
	}
	if !m.member(next) {
		return false
	}
	return m.guards.Count(Transition{From: m.current, To: next}) > 0
}

// reject records err as the latest failure so LastFailure can expose it.
func (m *Machine) reject(key Transition, err error) bool {
	m.lastErr = err
	m.logger.Debug("transition rejected",
		slog.String("transition", key.String()),
		slog.Any("error", err),
	)
	return false
}

func (m *Machine) notify(entries []*hookEntry, stage string, t Transition) {
	for _, h := range entries {
		if err := h.call(t); err != nil {
			m.reportFailure(stage, h.name, t, err)
		}
	}
}

// reportFailure routes a notification failure to the failure handler
// when one is set, otherwise to the logger. The handler runs guarded so
// it cannot take down the transition either.
func (m *Machine) reportFailure(stage, name string, t Transition, err error) {
	if m.failure != nil {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("failure handler panicked",
					slog.String("stage", stage),
					slog.String("transition", t.String()),
					slog.Any("panic", r),
				)
			}
		}()
		m.failure(t, err)
		return
	}
	m.logger.Error("notification failure",
		slog.String("stage", stage),
		slog.String("func", name),
		slog.String("transition", t.String()),
		slog.Any("error", err),
	)
}
