// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/ldd"
)

// Builder accumulates a Manifest. Every list is an ordered set: repeated
// entries keep their first position.
type Builder struct {
	m    Manifest
	seen map[string]map[string]bool
}

// NewBuilder starts a manifest for name at version on arch.
func NewBuilder(name, version, arch string) *Builder {
	return &Builder{
		m:    Manifest{Name: name, Version: version, Architecture: arch},
		seen: make(map[string]map[string]bool),
	}
}

func (b *Builder) add(list, key string) bool {
	set, ok := b.seen[list]
	if !ok {
		set = make(map[string]bool)
		b.seen[list] = set
	}
	if set[key] {
		return false
	}
	set[key] = true
	return true
}

// Name returns the current package name.
func (b *Builder) Name() string { return b.m.Name }

// Version returns the current package version.
func (b *Builder) Version() string { return b.m.Version }

// Architecture returns the current package architecture.
func (b *Builder) Architecture() string { return b.m.Architecture }

// SetName renames the package.
func (b *Builder) SetName(name string) *Builder { b.m.Name = name; return b }

// SetVersion replaces the package version.
func (b *Builder) SetVersion(v string) *Builder { b.m.Version = v; return b }

// SetArchitecture replaces the package architecture.
func (b *Builder) SetArchitecture(arch string) *Builder { b.m.Architecture = arch; return b }

// SetMeta replaces the header overrides.
func (b *Builder) SetMeta(meta Meta) *Builder { b.m.Meta = meta; return b }

// Provide adds provides entries pinned to the package's own version.
func (b *Builder) Provide(tokens ...string) *Builder {
	for _, t := range tokens {
		b.ProvideAt(t, "")
	}
	return b
}

// ProvideAt adds a provides entry pinned to version.
func (b *Builder) ProvideAt(token, version string) *Builder {
	if token != "" && b.add("provides", token) {
		b.m.Provides = append(b.m.Provides, Relation{Token: token, Version: version})
	}
	return b
}

// Replace adds replaces entries bounded by the package's own version.
func (b *Builder) Replace(tokens ...string) *Builder {
	for _, t := range tokens {
		if t != "" && b.add("replaces", t) {
			b.m.Replaces = append(b.m.Replaces, Relation{Token: t})
		}
	}
	return b
}

// Depend adds dependency tokens.
func (b *Builder) Depend(tokens ...string) *Builder {
	for _, t := range tokens {
		if t != "" && b.add("depends", t) {
			b.m.Depends = append(b.m.Depends, t)
		}
	}
	return b
}

// Libraries adds library requirements.
func (b *Builder) Libraries(reqs ...ldd.Requirement) *Builder {
	for _, r := range reqs {
		if b.add("libraries", r.Library+"\x00"+r.Token) {
			b.m.Libraries = append(b.m.Libraries, r)
		}
	}
	return b
}

// ConfigFile marks installed paths as configuration.
func (b *Builder) ConfigFile(paths ...string) *Builder {
	for _, p := range paths {
		if p != "" && b.add("config", p) {
			b.m.ConfigFiles = append(b.m.ConfigFiles, p)
		}
	}
	return b
}

// Directory marks installed directories as owned by the package.
func (b *Builder) Directory(paths ...string) *Builder {
	for _, p := range paths {
		if p != "" && b.add("directories", p) {
			b.m.Directories = append(b.m.Directories, p)
		}
	}
	return b
}

// EmptyDirectory creates empty directories at install time.
func (b *Builder) EmptyDirectory(paths ...string) *Builder {
	for _, p := range paths {
		if p != "" && b.add("empty", p) {
			b.m.EmptyDirectories = append(b.m.EmptyDirectories, p)
		}
	}
	return b
}

// File installs src at dest for every backend.
func (b *Builder) File(src, dest string) *Builder {
	return b.FileFor("", src, dest)
}

// FileFor installs src at dest for backend f only.
func (b *Builder) FileFor(f config.Format, src, dest string) *Builder {
	if b.add("files", string(f)+"\x00"+src+"\x00"+dest) {
		b.m.Files = append(b.m.Files, Mapping{Source: src, Dest: dest, Format: f})
	}
	return b
}

// Scripts sets the maintainer scripts for backend f.
func (b *Builder) Scripts(f config.Format, s Scripts) *Builder {
	if b.m.Scripts == nil {
		b.m.Scripts = make(map[config.Format]Scripts)
	}
	b.m.Scripts[f] = s
	return b
}

// Extra appends a backend flag. An empty f applies it to every backend.
func (b *Builder) Extra(f config.Format, flag, value string) *Builder {
	b.m.ExtraArgs = append(b.m.ExtraArgs, Arg{Format: f, Flag: flag, Value: value})
	return b
}

// Build returns an independent copy of the accumulated manifest.
func (b *Builder) Build() *Manifest {
	return b.m.clone()
}
