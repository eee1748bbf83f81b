package controller

import (
	"fmt"
	"strings"
)

// Factory builds a Controller from named parameters.
type Factory func(params map[string]any) (Controller, error)

// Registry indexes Controller factories by name (case-insensitive).
type Registry struct {
	factories map[string]Factory
}

// NewRegistry constructs a registry pre-populated with "sequential" and
// "parallel" Basic controllers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("sequential", func(map[string]any) (Controller, error) { return NewBasic(Sequential), nil })
	r.Register("parallel", func(map[string]any) (Controller, error) { return NewBasic(Parallel), nil })
	return r
}

// Register adds a factory under name, overwriting any existing
// registration for the same name.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[strings.ToLower(name)] = factory
}

// Instantiate builds the named Controller.
func (r *Registry) Instantiate(name string, params map[string]any) (Controller, error) {
	factory, ok := r.factories[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("controller: unknown controller %q", name)
	}
	return factory(params)
}
