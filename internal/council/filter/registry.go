package filter

import (
	"fmt"
	"strings"
)

// Factory builds a Filter from named parameters.
type Factory func(params map[string]any) (Filter, error)

// Registry indexes Filter factories by name (case-insensitive).
type Registry struct {
	factories map[string]Factory
}

// NewRegistry constructs a registry pre-populated with the "basic"
// filter, reading "threshold" and "topK" out of params if present.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("basic", func(params map[string]any) (Filter, error) {
		threshold, _ := params["threshold"].(float64)
		topK, _ := params["topK"].(int)
		return NewBasic(threshold, topK), nil
	})
	return r
}

// Register adds a factory under name, overwriting any existing
// registration for the same name.
func (r *Registry) Register(name string, factory Factory) {
	r.factories[strings.ToLower(name)] = factory
}

// Instantiate builds the named Filter.
func (r *Registry) Instantiate(name string, params map[string]any) (Filter, error) {
	factory, ok := r.factories[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("filter: unknown filter %q", name)
	}
	return factory(params)
}
