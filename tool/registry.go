package tool

import (
	"fmt"
	"sort"
)

// Registry is the immutable mapping from tool name to invocation contract.
// It is built once at startup and read-only thereafter, so it is safe to
// share across concurrent sessions without locking.
type Registry struct {
	tools map[string]Tool
	names []string
}

// NewRegistry builds a registry from the given tools. Duplicate names are a
// configuration error and rejected outright.
func NewRegistry(tools ...Tool) (*Registry, error) {
	m := make(map[string]Tool, len(tools))
	names := make([]string, 0, len(tools))

	for _, t := range tools {
		if _, exists := m[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		m[t.Name()] = t
		names = append(names, t.Name())
	}
	sort.Strings(names)

	return &Registry{tools: m, names: names}, nil
}

// MustNewRegistry is NewRegistry that panics on configuration errors. For use
// in process bootstrap where a duplicate name is a programming mistake.
func MustNewRegistry(tools ...Tool) *Registry {
	r, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }
