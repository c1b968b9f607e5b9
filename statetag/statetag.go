package statetag

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/dmitrymomot/fsmkit"
)

const tagName = "fsm"

// Describe scans host's struct fields for fsm tags and assembles the
// discovered states and handlers into a definition. See the package
// documentation for the tag grammar.
func Describe(host any) (fsmkit.Definition, error) {
	rv := reflect.ValueOf(host)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fsmkit.Definition{}, ErrInvalidHost
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fsmkit.Definition{}, ErrInvalidHost
	}

	var def fsmkit.Definition
	if err := scanStruct(rv, &def); err != nil {
		return fsmkit.Definition{}, err
	}
	return def, nil
}

func scanStruct(rv reflect.Value, def *fsmkit.Definition) error {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		sf := rt.Field(i)

		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && field.Kind() == reflect.Struct && sf.Tag.Get(tagName) == "" {
			if err := scanStruct(field, def); err != nil {
				return err
			}
			continue
		}

		tag := sf.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		directive, opts := parts[0], parts[1:]

		switch directive {
		case "state":
			if err := addState(field, sf, opts, def); err != nil {
				return err
			}
		case "hook", "listener", "enter", "leave":
			if err := addHandler(field, sf, directive, opts, def); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: field %s: unknown directive %q", ErrInvalidTag, sf.Name, directive)
		}
	}
	return nil
}

func addState(field reflect.Value, sf reflect.StructField, opts []string, def *fsmkit.Definition) error {
	if field.Kind() != reflect.String {
		return fmt.Errorf("%w: field %s has type %s", ErrInvalidStateField, sf.Name, sf.Type)
	}

	initial := false
	for _, opt := range opts {
		if opt != "initial" {
			return fmt.Errorf("%w: field %s: unknown option %q", ErrInvalidTag, sf.Name, opt)
		}
		initial = true
	}

	def.States = append(def.States, fsmkit.StateDef{
		Field:   sf.Name,
		Value:   fsmkit.State(field.String()),
		Initial: initial,
	})
	return nil
}

func addHandler(field reflect.Value, sf reflect.StructField, directive string, opts []string, def *fsmkit.Definition) error {
	if field.Kind() != reflect.Func || field.IsNil() {
		return fmt.Errorf("%w: field %s", ErrInvalidHandlerField, sf.Name)
	}

	hd := fsmkit.HandlerDef{Func: field.Interface()}
	switch directive {
	case "hook", "listener":
		kv, err := keyValues(sf, opts, "from", "to")
		if err != nil {
			return err
		}
		hd.From = fsmkit.State(kv["from"])
		hd.To = fsmkit.State(kv["to"])
		if directive == "hook" {
			hd.Kind = fsmkit.HandlerGuard
		} else {
			hd.Kind = fsmkit.HandlerListener
		}
	case "enter", "leave":
		kv, err := keyValues(sf, opts, "state")
		if err != nil {
			return err
		}
		hd.State = fsmkit.State(kv["state"])
		if directive == "enter" {
			hd.Kind = fsmkit.HandlerEnter
		} else {
			hd.Kind = fsmkit.HandlerLeave
		}
	}

	def.Handlers = append(def.Handlers, hd)
	return nil
}

// keyValues parses key=value tag options, allowing each key at most once.
// Absent keys are simply missing from the result, which callers read as
// the wildcard.
func keyValues(sf reflect.StructField, opts []string, allowed ...string) (map[string]string, error) {
	kv := make(map[string]string, len(opts))
	for _, opt := range opts {
		k, v, ok := strings.Cut(opt, "=")
		if !ok || !slices.Contains(allowed, k) {
			return nil, fmt.Errorf("%w: field %s: unknown option %q", ErrInvalidTag, sf.Name, opt)
		}
		if _, dup := kv[k]; dup {
			return nil, fmt.Errorf("%w: field %s: duplicate option %q", ErrInvalidTag, sf.Name, k)
		}
		kv[k] = v
	}
	return kv, nil
}
