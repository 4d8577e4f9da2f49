// SPDX-License-Identifier: MPL-2.0

// Package resolver computes the transitive closure of a module's
// dependencies, restricted to modules that ship as their own package.
package resolver

import "github.com/static-php/spc-packages/internal/registry"

type (
	// Option configures a Resolver.
	Option func(*Resolver)

	// Resolver walks declared dependencies over a registry.
	Resolver struct {
		reg         *registry.Registry
		suggestions bool
	}
)

// WithSuggestions makes declared suggestions edges of the walk, next to
// declared dependencies.
func WithSuggestions(include bool) Option {
	return func(r *Resolver) { r.suggestions = include }
}

// New creates a Resolver over reg.
func New(reg *registry.Registry, opts ...Option) *Resolver {
	r := &Resolver{reg: reg}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the packageable modules reachable from name in first
// discovery order, each exactly once. name itself must have a record.
// Modules without a record contribute no further edges.
//
// A module already expanded is not walked again, so cycles terminate; a
// cycle back to name puts name in the result.
func (r *Resolver) Resolve(name string) ([]string, error) {
	if _, err := r.reg.Require(name); err != nil {
		return nil, err
	}

	visited := map[string]bool{name: true}
	seen := make(map[string]bool)
	var out []string

	var walk func(string)
	walk = func(node string) {
		for _, next := range r.Direct(node) {
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			walk(next)
		}
	}
	walk(name)
	return out, nil
}

// Direct returns the packageable modules name names as dependencies (and
// suggestions, when enabled), in declaration order.
func (r *Resolver) Direct(name string) []string {
	m, ok := r.reg.Lookup(name)
	if !ok {
		return nil
	}
	candidates := m.Dependencies
	if r.suggestions {
		candidates = append(append([]string(nil), m.Dependencies...), m.Suggestions...)
	}

	var out []string
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c] || !r.reg.Packageable(c) {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
