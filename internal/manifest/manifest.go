// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"slices"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/ldd"
)

// Noarch is the architecture of packages without native code.
const Noarch = "noarch"

type (
	// Relation is a provides or replaces entry. An empty Version stands for
	// the package's own version-iteration.
	Relation struct {
		Token   string
		Version string
	}

	// Mapping installs Source at Dest. A non-empty Format limits the mapping
	// to that backend.
	Mapping struct {
		Source string
		Dest   string
		Format config.Format
	}

	// Scripts are maintainer script paths on the packaging host.
	Scripts struct {
		BeforeInstall string
		AfterInstall  string
		BeforeRemove  string
		AfterRemove   string
	}

	// Arg is a backend flag appended after the manifest-derived arguments.
	// An empty Format applies to every backend; an empty Value emits the
	// flag alone.
	Arg struct {
		Format config.Format
		Flag   string
		Value  string
	}

	// Meta overrides the default package header fields.
	Meta struct {
		Description string
		License     string
		Vendor      string
		Maintainer  string
		URL         string
		Category    string
	}

	// Manifest describes one package, independent of the target format.
	Manifest struct {
		Name         string
		Version      string
		Architecture string
		Meta         Meta

		Provides []Relation
		Replaces []Relation
		// Depends are package or file tokens, in insertion order.
		Depends []string
		// Libraries are the runtime binary's versioned library requirements.
		Libraries []ldd.Requirement

		ConfigFiles      []string
		Directories      []string
		EmptyDirectories []string
		// Files keeps insertion order; it decides argument order.
		Files []Mapping

		Scripts   map[config.Format]Scripts
		ExtraArgs []Arg
	}
)

// FilesFor returns the mappings that apply to f.
func (m *Manifest) FilesFor(f config.Format) []Mapping {
	var out []Mapping
	for _, fm := range m.Files {
		if fm.Format == "" || fm.Format == f {
			out = append(out, fm)
		}
	}
	return out
}

// ExtraArgsFor returns the extra arguments that apply to f.
func (m *Manifest) ExtraArgsFor(f config.Format) []Arg {
	var out []Arg
	for _, a := range m.ExtraArgs {
		if a.Format == "" || a.Format == f {
			out = append(out, a)
		}
	}
	return out
}

// IsNoarch reports whether the package carries no native code.
func (m *Manifest) IsNoarch() bool { return m.Architecture == Noarch }

func (m *Manifest) clone() *Manifest {
	c := *m
	c.Provides = slices.Clone(m.Provides)
	c.Replaces = slices.Clone(m.Replaces)
	c.Depends = slices.Clone(m.Depends)
	c.Libraries = slices.Clone(m.Libraries)
	c.ConfigFiles = slices.Clone(m.ConfigFiles)
	c.Directories = slices.Clone(m.Directories)
	c.EmptyDirectories = slices.Clone(m.EmptyDirectories)
	c.Files = slices.Clone(m.Files)
	c.ExtraArgs = slices.Clone(m.ExtraArgs)
	if m.Scripts != nil {
		c.Scripts = make(map[config.Format]Scripts, len(m.Scripts))
		for f, s := range m.Scripts {
			c.Scripts[f] = s
		}
	}
	return &c
}
