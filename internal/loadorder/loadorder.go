// SPDX-License-Identifier: MPL-2.0

// Package loadorder computes ini filename prefixes so that the runtime,
// which loads module configuration in filename order, initializes every
// module after the modules it depends on.
package loadorder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/dag"
	"github.com/static-php/spc-packages/internal/registry"
	"github.com/static-php/spc-packages/internal/resolver"
)

// Tier bases for the tiered strategy. A module's number is raised above
// every dependency's number, so deep chains climb past TierDependent.
const (
	TierEarly       = 10
	TierLoader      = 15
	TierIndependent = 20
	TierDependent   = 21

	maxTier = 99
)

// ErrPrefixOverflow is returned when a dependency chain needs more tiers
// than a two-digit prefix can express, or padding cannot order two names.
var ErrPrefixOverflow = errors.New("load order prefix out of range")

// Assigner computes filename prefixes.
type Assigner struct {
	reg      *registry.Registry
	res      *resolver.Resolver
	strategy config.LoadOrderStrategy
	early    map[string]bool
	filler   string
}

// New creates an Assigner. res supplies the direct edges between modules and
// decides whether suggestions count as ordering constraints.
func New(reg *registry.Registry, res *resolver.Resolver, cfg config.LoadOrderConfig) *Assigner {
	early := make(map[string]bool, len(cfg.Early))
	for _, name := range cfg.Early {
		early[name] = true
	}
	filler := cfg.Filler
	if filler == "" {
		filler = "z"
	}
	strategy := cfg.Strategy
	if strategy == "" {
		strategy = config.LoadOrderTiered
	}
	return &Assigner{reg: reg, res: res, strategy: strategy, early: early, filler: filler}
}

// Prefix returns the string prepended to name's ini filename stem. deps is
// the module's resolved dependency closure.
func (a *Assigner) Prefix(name string, deps []string) (string, error) {
	if a.strategy == config.LoadOrderPadding {
		return a.padding(name, deps)
	}
	return a.tiered(name, deps)
}

// Filename returns "<prefix><name>.ini".
func (a *Assigner) Filename(name string, deps []string) (string, error) {
	prefix, err := a.Prefix(name, deps)
	if err != nil {
		return "", err
	}
	return prefix + name + ".ini", nil
}

func (a *Assigner) tiered(name string, deps []string) (string, error) {
	members := append([]string{name}, deps...)
	inClosure := make(map[string]bool, len(members))
	for _, m := range members {
		inClosure[m] = true
	}

	g := dag.New()
	for _, m := range members {
		g.AddNode(m)
		for _, dep := range a.res.Direct(m) {
			if inClosure[dep] {
				g.AddEdge(dep, m)
			}
		}
	}

	ranks, err := g.Rank(a.tierOf)
	if err != nil {
		return "", fmt.Errorf("order %s: %w", name, err)
	}
	rank := ranks[name]
	if rank > maxTier {
		return "", fmt.Errorf("order %s: rank %d: %w", name, rank, ErrPrefixOverflow)
	}
	return fmt.Sprintf("%02d-", rank), nil
}

func (a *Assigner) tierOf(name string) int {
	switch {
	case a.early[name]:
		return TierEarly
	case a.reg.IsLoader(name):
		return TierLoader
	case len(a.res.Direct(name)) == 0:
		return TierIndependent
	default:
		return TierDependent
	}
}

// padding prepends the filler until "<pad><name>.ini" sorts after
// "<dep>.ini" for every dependency. Only two-level chains are guaranteed to
// keep their order, since dependencies are compared unpadded.
func (a *Assigner) padding(name string, deps []string) (string, error) {
	stem := name + ".ini"
	var longest string
	for _, dep := range deps {
		if dep == name {
			continue
		}
		target := dep + ".ini"
		pad := ""
		for strings.Compare(pad+stem, target) <= 0 {
			if len(pad) > len(target) {
				return "", fmt.Errorf("order %s after %s with filler %q: %w", name, dep, a.filler, ErrPrefixOverflow)
			}
			pad += a.filler
		}
		if len(pad) > len(longest) {
			longest = pad
		}
	}
	return longest, nil
}
