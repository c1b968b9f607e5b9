package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/fsmkit"
)

// Option configures manifest loading.
type Option func(*loader)

// WithHandlers supplies the callables a manifest may reference by name.
// Values must be in one of the callable shapes fsmkit.New accepts. The
// option can be given more than once; later maps add to earlier ones.
func WithHandlers(handlers map[string]any) Option {
	return func(l *loader) {
		for name, fn := range handlers {
			l.handlers[name] = fn
		}
	}
}

// WithStubHandlers resolves every handler name a manifest references to a
// shared no-op callable instead of failing on unknown names. Meant for
// validation tooling that checks manifests without the real callables;
// entries naming different handlers under one key collapse to a single
// stub registration.
func WithStubHandlers() Option {
	return func(l *loader) {
		l.stub = true
	}
}

type loader struct {
	handlers map[string]any
	stub     bool
}

type document struct {
	Name        string              `yaml:"name"`
	States      []string            `yaml:"states"`
	Initial     string              `yaml:"initial"`
	Transitions []transitionEntry   `yaml:"transitions"`
	Listeners   []handlerEntry      `yaml:"listeners"`
	Enter       []stateHandlerEntry `yaml:"enter"`
	Leave       []stateHandlerEntry `yaml:"leave"`
}

type transitionEntry struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Guard string `yaml:"guard"`
}

type handlerEntry struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Handler string `yaml:"handler"`
}

type stateHandlerEntry struct {
	State   string `yaml:"state"`
	Handler string `yaml:"handler"`
}

// Load reads a manifest file and assembles it into a definition.
func Load(path string, opts ...Option) (fsmkit.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fsmkit.Definition{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	return Parse(data, opts...)
}

// Parse assembles YAML manifest data into a definition. Unknown document
// fields are rejected.
func Parse(data []byte, opts ...Option) (fsmkit.Definition, error) {
	l := &loader{handlers: make(map[string]any)}
	for _, opt := range opts {
		opt(l)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return fsmkit.Definition{}, fmt.Errorf("%w: empty document", ErrInvalidManifest)
		}
		return fsmkit.Definition{}, errors.Join(ErrInvalidManifest, err)
	}
	return l.assemble(doc)
}

func (l *loader) assemble(doc document) (fsmkit.Definition, error) {
	if len(doc.States) == 0 {
		return fsmkit.Definition{}, fmt.Errorf("%w: at least one state is required", ErrInvalidManifest)
	}
	if doc.Initial == "" {
		return fsmkit.Definition{}, fmt.Errorf("%w: initial state is required", ErrInvalidManifest)
	}

	var def fsmkit.Definition
	seen := make(map[string]struct{}, len(doc.States))
	initialListed := false
	for i, s := range doc.States {
		if _, dup := seen[s]; dup {
			return fsmkit.Definition{}, fmt.Errorf("%w: duplicate state %q", ErrInvalidManifest, s)
		}
		seen[s] = struct{}{}
		if s == doc.Initial {
			initialListed = true
		}
		def.States = append(def.States, fsmkit.StateDef{
			Field:   fmt.Sprintf("states[%d]", i),
			Value:   fsmkit.State(s),
			Initial: s == doc.Initial,
		})
	}
	if !initialListed {
		return fsmkit.Definition{}, fmt.Errorf("%w: initial state %q is not listed in states", ErrInvalidManifest, doc.Initial)
	}

	for i, tr := range doc.Transitions {
		fn := any(fsmkit.Callback(permitAll))
		if tr.Guard != "" {
			resolved, err := l.resolve(tr.Guard)
			if err != nil {
				return fsmkit.Definition{}, err
			}
			fn = resolved
		} else if tr.From == "" || tr.To == "" {
			return fsmkit.Definition{}, fmt.Errorf("%w: transition %d: from and to are required without a guard", ErrInvalidManifest, i)
		}
		def.Handlers = append(def.Handlers, fsmkit.HandlerDef{
			Kind: fsmkit.HandlerGuard,
			Func: fn,
			From: fsmkit.State(tr.From),
			To:   fsmkit.State(tr.To),
		})
	}

	for i, ls := range doc.Listeners {
		fn, err := l.resolveEntry("listener", i, ls.Handler)
		if err != nil {
			return fsmkit.Definition{}, err
		}
		def.Handlers = append(def.Handlers, fsmkit.HandlerDef{
			Kind: fsmkit.HandlerListener,
			Func: fn,
			From: fsmkit.State(ls.From),
			To:   fsmkit.State(ls.To),
		})
	}

	for i, en := range doc.Enter {
		fn, err := l.resolveEntry("enter", i, en.Handler)
		if err != nil {
			return fsmkit.Definition{}, err
		}
		def.Handlers = append(def.Handlers, fsmkit.HandlerDef{
			Kind:  fsmkit.HandlerEnter,
			Func:  fn,
			State: fsmkit.State(en.State),
		})
	}

	for i, lv := range doc.Leave {
		fn, err := l.resolveEntry("leave", i, lv.Handler)
		if err != nil {
			return fsmkit.Definition{}, err
		}
		def.Handlers = append(def.Handlers, fsmkit.HandlerDef{
			Kind:  fsmkit.HandlerLeave,
			Func:  fn,
			State: fsmkit.State(lv.State),
		})
	}

	return def, nil
}

func (l *loader) resolveEntry(section string, index int, name string) (any, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %s %d: handler is required", ErrInvalidManifest, section, index)
	}
	return l.resolve(name)
}

func (l *loader) resolve(name string) (any, error) {
	fn, ok := l.handlers[name]
	if !ok || fn == nil {
		if l.stub {
			return any(fsmkit.Callback(stubHandler)), nil
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandler, name)
	}
	return fn, nil
}

func stubHandler(fsmkit.Transition) error {
	return nil
}

// permitAll is the guard synthesized for transitions entries without a
// named guard. De-duplication is per (key, callable) pair, so the shared
// identity still registers once under each listed pair.
func permitAll(fsmkit.Transition) error {
	return nil
}
