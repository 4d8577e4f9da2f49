// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/ldd"
	"github.com/static-php/spc-packages/internal/loadorder"
	"github.com/static-php/spc-packages/internal/probe"
	"github.com/static-php/spc-packages/internal/registry"
	"github.com/static-php/spc-packages/internal/resolver"
)

type (
	// Aggregator builds manifests for the components of one run.
	Aggregator struct {
		cfg        *config.Config
		reg        *registry.Registry
		depends    *resolver.Resolver
		ordering   *resolver.Resolver
		order      *loadorder.Assigner
		strategies *Strategies
		probe      VersionProber
		logger     *slog.Logger

		phpVersion   string
		architecture string
		libraries    []ldd.Requirement
	}

	// Host is what the run learned about the build before packaging.
	Host struct {
		PHPVersion   string
		Architecture string
		Libraries    []ldd.Requirement
	}

	// Option configures an Aggregator.
	Option func(*Aggregator)
)

// WithStrategies replaces the built-in strategy table.
func WithStrategies(s *Strategies) Option {
	return func(a *Aggregator) { a.strategies = s }
}

// NewAggregator creates an Aggregator. Suggestion handling for package
// dependencies and for load order follows cfg.Dependencies.
func NewAggregator(cfg *config.Config, reg *registry.Registry, prober VersionProber, host Host, logger *slog.Logger, opts ...Option) *Aggregator {
	ordering := resolver.New(reg, resolver.WithSuggestions(cfg.Dependencies.SuggestionsInLoadOrder))
	a := &Aggregator{
		cfg:          cfg,
		reg:          reg,
		depends:      resolver.New(reg, resolver.WithSuggestions(cfg.Dependencies.SuggestionsInDepends)),
		ordering:     ordering,
		order:        loadorder.New(reg, ordering, cfg.LoadOrder),
		strategies:   DefaultStrategies(),
		probe:        prober,
		logger:       logger,
		phpVersion:   host.PHPVersion,
		architecture: host.Architecture,
		libraries:    host.Libraries,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IsComponent reports whether name can be packaged in this build.
func (a *Aggregator) IsComponent(name string) bool {
	return a.reg.IsSapi(name) || name == "devel" || a.reg.IsShared(name)
}

// Build returns the manifest for component. Unknown components fail with
// ErrUnknownComponent, modules without a catalog record with
// registry.MissingRecordError and absent required assets with
// MissingComponentError.
func (a *Aggregator) Build(ctx context.Context, component string) (*Manifest, error) {
	env := &Env{
		Config:       a.cfg,
		Registry:     a.reg,
		Probe:        a.probe,
		Logger:       a.logger,
		Component:    component,
		PHPVersion:   a.phpVersion,
		Architecture: a.architecture,
	}

	switch {
	case a.reg.IsSapi(component), component == "devel":
		if !a.strategies.Has(component) {
			return nil, fmt.Errorf("%s: no packaging strategy for front-end: %w", component, ErrUnknownComponent)
		}
	case a.reg.IsShared(component):
		view, err := a.View(component)
		if err != nil {
			return nil, err
		}
		env.Module = view
	default:
		return nil, fmt.Errorf("%s: %w", component, ErrUnknownComponent)
	}

	b := NewBuilder(a.cfg.PackageName(component), a.phpVersion, a.architecture)
	if err := a.strategies.For(component).Contribute(ctx, env, b); err != nil {
		return nil, err
	}
	if b.Architecture() != Noarch {
		b.Libraries(a.libraries...)
	}
	return b.Build(), nil
}

// View computes the packaging view of a shared module.
func (a *Aggregator) View(name string) (*ModulePackageView, error) {
	deps, err := a.depends.Resolve(name)
	if err != nil {
		return nil, err
	}
	orderDeps, err := a.ordering.Resolve(name)
	if err != nil {
		return nil, err
	}
	prefix, err := a.order.Prefix(name, orderDeps)
	if err != nil {
		return nil, err
	}
	sequence, err := a.loadSequence(name, orderDeps)
	if err != nil {
		return nil, err
	}

	return &ModulePackageView{
		Name:         name,
		Prefix:       prefix,
		IniFilename:  prefix + name + ".ini",
		Dependencies: slices.DeleteFunc(deps, func(d string) bool { return d == name }),
		LoadSequence: sequence,
		IniSource:    filepath.Join(a.cfg.Paths.ExtensionIniDir(), name+".ini"),
		ModuleBinary: filepath.Join(a.cfg.Paths.ModulesDir(), name+".so"),
	}, nil
}

// loadSequence orders deps the way the runtime would load their ini files.
func (a *Aggregator) loadSequence(name string, deps []string) ([]probe.Module, error) {
	type entry struct {
		file   string
		module probe.Module
	}
	var entries []entry
	for _, dep := range deps {
		if dep == name {
			continue
		}
		depDeps, err := a.ordering.Resolve(dep)
		if err != nil {
			// A dependency without a record has no edges of its own.
			depDeps = nil
		}
		file, err := a.order.Filename(dep, depDeps)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{file: file, module: probe.Module{Name: dep, Loader: a.reg.IsLoader(dep)}})
	}
	slices.SortStableFunc(entries, func(x, y entry) int { return cmp.Compare(x.file, y.file) })

	out := make([]probe.Module, len(entries))
	for i, e := range entries {
		out[i] = e.module
	}
	return out, nil
}
