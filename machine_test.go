package fsmkit_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_InitialState(t *testing.T) {
	t.Parallel()

	m, err := fsmkit.New(fsmkit.Definition{
		States: []fsmkit.StateDef{
			{Field: "Draft", Value: "draft", Initial: true},
			{Field: "Live", Value: "live"},
		},
	}, fsmkit.WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, fsmkit.State("draft"), m.Current())
	assert.Equal(t, fsmkit.State("draft"), m.Initial())
	assert.Equal(t, []fsmkit.State{"draft", "live"}, m.States())
	assert.Empty(t, m.History())
	assert.NoError(t, m.LastFailure())
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	allow := func(fsmkit.Transition) error { return nil }

	t.Run("no initial state", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Value: "a"}, {Value: "b"}},
		})
		require.ErrorIs(t, err, fsmkit.ErrNoInitialState)
	})

	t.Run("multiple initial states", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{
				{Value: "a", Initial: true},
				{Value: "b", Initial: true},
			},
		})
		require.ErrorIs(t, err, fsmkit.ErrMultipleInitialStates)
	})

	t.Run("empty state value", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Field: "Blank", Value: "", Initial: true}},
		})
		require.ErrorIs(t, err, fsmkit.ErrEmptyStateValue)
	})

	t.Run("guard references unknown state", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Value: "a", Initial: true}},
			Handlers: []fsmkit.HandlerDef{
				{Kind: fsmkit.HandlerGuard, Func: allow, From: "ghost", To: "a"},
			},
		})
		require.ErrorIs(t, err, fsmkit.ErrUnknownState)
	})

	t.Run("listener references unknown state", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Value: "a", Initial: true}},
			Handlers: []fsmkit.HandlerDef{
				{Kind: fsmkit.HandlerListener, Func: allow, From: "a", To: "ghost"},
			},
		})
		require.ErrorIs(t, err, fsmkit.ErrUnknownState)
	})

	t.Run("enter action references unknown state", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Value: "a", Initial: true}},
			Handlers: []fsmkit.HandlerDef{
				{Kind: fsmkit.HandlerEnter, Func: allow, State: "ghost"},
			},
		})
		require.ErrorIs(t, err, fsmkit.ErrUnknownState)
	})

	t.Run("wildcard keys bypass membership check", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Value: "a", Initial: true}},
			Handlers: []fsmkit.HandlerDef{
				{Kind: fsmkit.HandlerGuard, Func: allow, From: fsmkit.Any, To: fsmkit.Any},
				{Kind: fsmkit.HandlerListener, Func: allow, From: fsmkit.Any, To: "a"},
				{Kind: fsmkit.HandlerLeave, Func: allow, State: fsmkit.Any},
			},
		})
		require.NoError(t, err)
	})

	t.Run("nil handler func", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Value: "a", Initial: true}},
			Handlers: []fsmkit.HandlerDef{
				{Kind: fsmkit.HandlerGuard, Func: nil, From: "a", To: "a"},
			},
		})
		require.ErrorIs(t, err, fsmkit.ErrInvalidHandler)
	})

	t.Run("unsupported handler shape", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Value: "a", Initial: true}},
			Handlers: []fsmkit.HandlerDef{
				{Kind: fsmkit.HandlerGuard, Func: func(int) error { return nil }, From: "a", To: "a"},
			},
		})
		require.ErrorIs(t, err, fsmkit.ErrInvalidHandler)
	})

	t.Run("unknown handler kind", func(t *testing.T) {
		t.Parallel()
		_, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{{Value: "a", Initial: true}},
			Handlers: []fsmkit.HandlerDef{
				{Kind: fsmkit.HandlerKind("around"), Func: allow, From: "a", To: "a"},
			},
		})
		require.ErrorIs(t, err, fsmkit.ErrInvalidHandler)
	})

	t.Run("duplicate state value tolerated", func(t *testing.T) {
		t.Parallel()
		m, err := fsmkit.New(fsmkit.Definition{
			States: []fsmkit.StateDef{
				{Field: "A", Value: "a", Initial: true},
				{Field: "AliasOfA", Value: "a"},
				{Field: "B", Value: "b"},
			},
		}, fsmkit.WithLogger(quietLogger()))
		require.NoError(t, err)
		assert.Equal(t, []fsmkit.State{"a", "b"}, m.States())
	})
}

func TestNew_DuplicateHandlerDeduplicated(t *testing.T) {
	t.Parallel()

	calls := 0
	guard := func(fsmkit.Transition) error {
		calls++
		return nil
	}
	m, err := fsmkit.New(fsmkit.Definition{
		States: []fsmkit.StateDef{
			{Value: "a", Initial: true},
			{Value: "b"},
		},
		Handlers: []fsmkit.HandlerDef{
			{Kind: fsmkit.HandlerGuard, Func: guard, From: "a", To: "b"},
			{Kind: fsmkit.HandlerGuard, Func: guard, From: "a", To: "b"},
		},
	}, fsmkit.WithLogger(quietLogger()))
	require.NoError(t, err)

	require.True(t, m.Switch("b"))
	assert.Equal(t, 1, calls)
}

func TestMustNew(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		fsmkit.MustNew(fsmkit.Definition{})
	})

	m := fsmkit.MustNew(fsmkit.Definition{
		States: []fsmkit.StateDef{{Value: "a", Initial: true}},
	})
	assert.Equal(t, fsmkit.State("a"), m.Current())
}
