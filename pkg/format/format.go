// Package format implements the named-transform registry the record core
// consults for its formatting pass-through. Transforms are small pure
// functions looked up by name; the registry is safe for concurrent reads
// after construction.
package format

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Func is a named transform applied to an attribute's current value plus any
// extra arguments supplied by the caller.
type Func func(value any, args ...any) (any, error)

// ErrNotFound indicates a transform name is not registered.
var ErrNotFound = errors.New("format: transform not found")

// Registry maps transform names to implementations.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry constructs a registry pre-populated with the built-in string
// transforms.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.Register("upper", func(value any, _ ...any) (any, error) {
		s, err := asString("upper", value)
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(s), nil
	})
	r.Register("lower", func(value any, _ ...any) (any, error) {
		s, err := asString("lower", value)
		if err != nil {
			return nil, err
		}
		return strings.ToLower(s), nil
	})
	r.Register("capitalize", func(value any, _ ...any) (any, error) {
		s, err := asString("capitalize", value)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return s, nil
		}
		runes := []rune(s)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes), nil
	})
	r.Register("trim", func(value any, _ ...any) (any, error) {
		s, err := asString("trim", value)
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(s), nil
	})
	r.Register("truncate", func(value any, args ...any) (any, error) {
		s, err := asString("truncate", value)
		if err != nil {
			return nil, err
		}
		limit, err := asInt("truncate", args)
		if err != nil {
			return nil, err
		}
		if limit < 0 {
			return nil, fmt.Errorf("format: truncate limit must be non-negative")
		}
		runes := []rune(s)
		if len(runes) <= limit {
			return s, nil
		}
		return string(runes[:limit]), nil
	})
	r.Register("prefix", func(value any, args ...any) (any, error) {
		s, err := asString("prefix", value)
		if err != nil {
			return nil, err
		}
		affix, err := asStringArg("prefix", args)
		if err != nil {
			return nil, err
		}
		return affix + s, nil
	})
	r.Register("suffix", func(value any, args ...any) (any, error) {
		s, err := asString("suffix", value)
		if err != nil {
			return nil, err
		}
		affix, err := asStringArg("suffix", args)
		if err != nil {
			return nil, err
		}
		return s + affix, nil
	})
	return r
}

// Register adds or replaces a transform under the given name.
func (r *Registry) Register(name string, fn Func) {
	if name == "" || fn == nil {
		return
	}
	r.funcs[name] = fn
}

// Lookup returns the transform registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.funcs[name]
	return fn, ok
}

// Apply runs the named transform against value.
func (r *Registry) Apply(name string, value any, args ...any) (any, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fn(value, args...)
}

// Names returns the sorted transform names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns registered transform names starting with prefix. The first
// flag is accepted for signature compatibility but has no effect: Find
// returns at most one name regardless, so first=false never selects all
// matches. Callers wanting every match should filter Names themselves.
func (r *Registry) Find(prefix string, first bool) []string {
	_ = first
	for _, name := range r.Names() {
		if strings.HasPrefix(name, prefix) {
			return []string{name}
		}
	}
	return nil
}

func asString(name string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("format: %s expects a string value, got %T", name, value)
	}
	return s, nil
}

func asStringArg(name string, args []any) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("format: %s expects a string argument", name)
	}
	s, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("format: %s expects a string argument, got %T", name, args[0])
	}
	return s, nil
}

func asInt(name string, args []any) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("format: %s expects an integer argument", name)
	}
	switch v := args[0].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("format: %s expects an integer argument", name)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("format: %s expects an integer argument, got %T", name, args[0])
	}
}
