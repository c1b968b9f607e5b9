package fsmkit

import (
	"log/slog"
	"os"
)

// FailureHandler receives notification failures: errors returned (or
// panics raised) by listeners and enter/leave actions after a transition
// has already been committed. It must not assume the machine is idle.
type FailureHandler func(t Transition, err error)

// Option configures a Machine during construction.
type Option func(*Machine)

// WithLogger sets the logger used for lifecycle and notification events.
// A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFailureHandler routes notification failures to fn instead of the
// logger. The handler is invoked guarded: a panic inside it is recovered
// and logged. A nil handler is ignored.
func WithFailureHandler(fn FailureHandler) Option {
	return func(m *Machine) {
		if fn != nil {
			m.failure = fn
		}
	}
}

// WithWatchBuffer sets the channel buffer size handed to Watch
// subscribers. Values below 1 are coerced to 1.
func WithWatchBuffer(n int) Option {
	return func(m *Machine) {
		if n < 1 {
			n = 1
		}
		m.watchBuffer = n
	}
}

// WithConfig applies an environment-derived Config: the watch buffer
// size and a stderr text logger at the configured level. Options apply
// in order, so a later WithLogger overrides the logger built here.
func WithConfig(cfg Config) Option {
	return func(m *Machine) {
		if cfg.WatchBuffer > 0 {
			m.watchBuffer = cfg.WatchBuffer
		}
		m.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
	}
}
