// SPDX-License-Identifier: MPL-2.0

// Package registry holds the declared front-ends, static modules and shared
// modules of one build, joined with per-module metadata from the extension
// catalog. A Registry is built once and never mutated.
package registry

import "slices"

type (
	// Declaration is the build configuration: which names were built how.
	Declaration struct {
		Static []string
		Shared []string
		Sapis  []string
	}

	// Registry answers metadata queries for one build.
	Registry struct {
		decl    Declaration
		records map[string]*Module
		static  map[string]bool
		shared  map[string]bool
		sapis   map[string]bool
	}
)

// New joins the declaration with catalog records. Names declared in the build
// but absent from the catalog have no record.
func New(decl Declaration, catalog Catalog) *Registry {
	r := &Registry{
		decl:    decl,
		records: make(map[string]*Module, len(catalog)),
		static:  toSet(decl.Static),
		shared:  toSet(decl.Shared),
		sapis:   toSet(decl.Sapis),
	}
	for name, entry := range catalog {
		r.records[name] = &Module{
			Name:         name,
			Shared:       r.shared[name],
			Static:       r.static[name],
			Kind:         entry.kind(),
			Dependencies: entry.dependencies(),
			Suggestions:  entry.suggestions(),
		}
	}
	return r
}

// Lookup returns the module record for name.
func (r *Registry) Lookup(name string) (*Module, bool) {
	m, ok := r.records[name]
	return m, ok
}

// Require is Lookup that fails with MissingRecordError.
func (r *Registry) Require(name string) (*Module, error) {
	if m, ok := r.records[name]; ok {
		return m, nil
	}
	return nil, &MissingRecordError{Name: name}
}

// Packageable reports whether name is a shared, non-static, non-addon module.
// Declared shared modules without a catalog record count as normal modules.
func (r *Registry) Packageable(name string) bool {
	if m, ok := r.records[name]; ok {
		return m.Packageable()
	}
	return r.shared[name] && !r.static[name]
}

// IsLoader reports whether name is a zend_extension.
func (r *Registry) IsLoader(name string) bool {
	m, ok := r.records[name]
	return ok && m.IsLoader()
}

// IsSapi reports whether name is a declared front-end.
func (r *Registry) IsSapi(name string) bool { return r.sapis[name] }

// IsShared reports whether name was declared as a shared module.
func (r *Registry) IsShared(name string) bool { return r.shared[name] }

// IsStatic reports whether name is compiled into the runtime.
func (r *Registry) IsStatic(name string) bool { return r.static[name] }

// Sapis returns the declared front-ends in declaration order.
func (r *Registry) Sapis() []string { return slices.Clone(r.decl.Sapis) }

// Static returns the static modules in declaration order.
func (r *Registry) Static() []string { return slices.Clone(r.decl.Static) }

// Shared returns the shared modules in declaration order.
func (r *Registry) Shared() []string { return slices.Clone(r.decl.Shared) }

// PackageableModules returns the shared modules that ship standalone, in
// declaration order. Addon modules are left out.
func (r *Registry) PackageableModules() []string {
	var out []string
	for _, name := range r.decl.Shared {
		if r.Packageable(name) {
			out = append(out, name)
		}
	}
	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
