package manifest_test

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fsmkit"
	"github.com/dmitrymomot/fsmkit/manifest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const orderFlow = `
name: order-flow
states: [draft, review, published]
initial: draft
transitions:
  - {from: draft, to: review}
  - {from: review, to: published, guard: checkApproval}
listeners:
  - {from: draft, to: review, handler: auditLog}
enter:
  - {state: published, handler: announce}
leave:
  - {state: draft, handler: cleanup}
`

func TestParse(t *testing.T) {
	t.Parallel()

	var audited, announced, cleaned bool
	approved := false
	errPending := errors.New("approval pending")

	def, err := manifest.Parse([]byte(orderFlow), manifest.WithHandlers(map[string]any{
		"checkApproval": func(fsmkit.Transition) error {
			if !approved {
				return errPending
			}
			return nil
		},
		"auditLog": func(fsmkit.Transition) { audited = true },
		"announce": func() { announced = true },
		"cleanup":  func() error { cleaned = true; return nil },
	}))
	require.NoError(t, err)

	require.Len(t, def.States, 3)
	assert.True(t, def.States[0].Initial)

	m, err := fsmkit.New(def, fsmkit.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, fsmkit.State("draft"), m.Current())

	require.True(t, m.Switch("review"))
	assert.True(t, audited)
	assert.True(t, cleaned)

	// The named guard gates its transition.
	require.False(t, m.Switch("published"))
	assert.ErrorIs(t, m.LastFailure(), errPending)

	approved = true
	require.True(t, m.Switch("published"))
	assert.True(t, announced)
	assert.Equal(t, []fsmkit.State{"draft", "review"}, m.History())

	// Pairs absent from the transitions list are rejected.
	require.False(t, m.Switch("draft"))
	assert.ErrorIs(t, m.LastFailure(), fsmkit.ErrNoExactHook)
}

func TestParse_WildcardGuard(t *testing.T) {
	t.Parallel()

	errFrozen := errors.New("machine frozen")
	def, err := manifest.Parse([]byte(`
states: [a, b]
initial: a
transitions:
  - {from: a, to: b}
  - {guard: freeze}
`), manifest.WithHandlers(map[string]any{
		"freeze": func() error { return errFrozen },
	}))
	require.NoError(t, err)

	m, err := fsmkit.New(def, fsmkit.WithLogger(quietLogger()))
	require.NoError(t, err)

	// The wildcard guard runs before the exact permit-all one.
	require.False(t, m.Switch("b"))
	assert.ErrorIs(t, m.LastFailure(), errFrozen)
}

func TestParse_DuplicateTransitionTolerated(t *testing.T) {
	t.Parallel()

	def, err := manifest.Parse([]byte(`
states: [a, b]
initial: a
transitions:
  - {from: a, to: b}
  - {from: a, to: b}
`))
	require.NoError(t, err)

	m, err := fsmkit.New(def, fsmkit.WithLogger(quietLogger()))
	require.NoError(t, err)
	require.True(t, m.Switch("b"))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "empty document",
			yaml: "",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "malformed yaml",
			yaml: "states: [a",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "unknown document field",
			yaml: "states: [a]\ninitial: a\nextras: true\n",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "no states",
			yaml: "initial: a\n",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "no initial",
			yaml: "states: [a, b]\n",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "initial not listed",
			yaml: "states: [a, b]\ninitial: c\n",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "duplicate state",
			yaml: "states: [a, a]\ninitial: a\n",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "unguarded transition with wildcard side",
			yaml: "states: [a, b]\ninitial: a\ntransitions:\n  - {to: b}\n",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "listener without handler",
			yaml: "states: [a, b]\ninitial: a\nlisteners:\n  - {from: a, to: b}\n",
			want: manifest.ErrInvalidManifest,
		},
		{
			name: "unknown handler name",
			yaml: "states: [a, b]\ninitial: a\ntransitions:\n  - {from: a, to: b, guard: nope}\n",
			want: manifest.ErrUnknownHandler,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := manifest.Parse([]byte(tc.yaml))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParse_StubHandlers(t *testing.T) {
	t.Parallel()

	def, err := manifest.Parse([]byte(orderFlow), manifest.WithStubHandlers())
	require.NoError(t, err)

	m, err := fsmkit.New(def, fsmkit.WithLogger(quietLogger()))
	require.NoError(t, err)
	require.True(t, m.Switch("review"))
	require.True(t, m.Switch("published"), "stubbed guards permit everything")
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("reads a manifest file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "flow.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
states: [a, b]
initial: a
transitions:
  - {from: a, to: b}
`), 0o644))

		def, err := manifest.Load(path)
		require.NoError(t, err)
		assert.Len(t, def.States, 2)
		assert.Len(t, def.Handlers, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := manifest.Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.ErrorIs(t, err, fs.ErrNotExist)
	})
}
