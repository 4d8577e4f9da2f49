// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/probe"
	"github.com/static-php/spc-packages/internal/registry"
)

type (
	// VersionProber reports versions only the built binaries know.
	VersionProber interface {
		ModuleVersion(ctx context.Context, module probe.Module, modulesDir string, deps []probe.Module, phpVersion string) (string, error)
		FrankenPHPVersion(ctx context.Context, binary, libDir string) (string, error)
	}

	// Env is what a Strategy may consult while describing a component.
	Env struct {
		Config       *config.Config
		Registry     *registry.Registry
		Probe        VersionProber
		Logger       *slog.Logger
		Component    string
		PHPVersion   string
		Architecture string
		// Module is set when the component is a shared module.
		Module *ModulePackageView
	}

	// ModulePackageView is the per-run packaging view of one shared module.
	ModulePackageView struct {
		Name string
		// Prefix is the load-order prefix of the ini filename.
		Prefix string
		// IniFilename is "<prefix><name>.ini".
		IniFilename string
		// Dependencies are the resolved packageable dependencies, self excluded.
		Dependencies []string
		// LoadSequence lists the modules to load before this one, in load order.
		LoadSequence []probe.Module
		IniSource    string
		ModuleBinary string
	}

	// Strategy contributes a component's intrinsic metadata to the builder.
	Strategy interface {
		Contribute(ctx context.Context, env *Env, b *Builder) error
	}

	// StrategyFunc adapts a function to Strategy.
	StrategyFunc func(ctx context.Context, env *Env, b *Builder) error

	// Factory creates the Strategy for a component name.
	Factory func(component string) Strategy

	// Strategies dispatches component names to factories. Names without a
	// registered factory use the fallback.
	Strategies struct {
		factories map[string]Factory
		fallback  Factory
	}
)

// Contribute calls f.
func (f StrategyFunc) Contribute(ctx context.Context, env *Env, b *Builder) error {
	return f(ctx, env, b)
}

// fixed wraps a stateless strategy as a Factory.
func fixed(s StrategyFunc) Factory {
	return func(string) Strategy { return s }
}

// NewStrategies creates an empty dispatch table with fallback.
func NewStrategies(fallback Factory) *Strategies {
	return &Strategies{factories: make(map[string]Factory), fallback: fallback}
}

// DefaultStrategies returns the table of built-in component strategies.
func DefaultStrategies() *Strategies {
	s := NewStrategies(fixed(extension))
	s.Register("cli", fixed(cli))
	s.Register("cgi", fixed(cgi))
	s.Register("fpm", fixed(fpm))
	s.Register("embed", fixed(embed))
	s.Register("devel", fixed(devel))
	s.Register("composer", fixed(composer))
	s.Register("pie", fixed(pie))
	s.Register("frankenphp", fixed(frankenPHP))
	s.Register("imagick", fixed(imagick))
	s.Register("spx", fixed(spx))
	return s
}

// Register sets the factory for component, replacing any previous one.
func (s *Strategies) Register(component string, f Factory) {
	s.factories[component] = f
}

// Has reports whether component has a specialized factory.
func (s *Strategies) Has(component string) bool {
	_, ok := s.factories[component]
	return ok
}

// For returns the strategy for component.
func (s *Strategies) For(component string) Strategy {
	if f, ok := s.factories[component]; ok {
		return f(component)
	}
	return s.fallback(component)
}

// Stage writes data under the temp directory and returns its path.
func (e *Env) Stage(name string, data []byte, mode os.FileMode) (string, error) {
	dir := e.Config.Paths.Temp
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, mode); err != nil {
		return "", fmt.Errorf("stage %s: %w", name, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, mode); err != nil {
		return "", fmt.Errorf("stage %s: %w", name, err)
	}
	return path, nil
}

// Require fails with MissingComponentError when path does not exist.
func (e *Env) Require(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &MissingComponentError{Component: e.Component, Asset: path}
	}
	return nil
}

// Series is the PHP major and minor without a dot, e.g. "84".
func (e *Env) Series() (string, error) {
	return probe.Series(e.PHPVersion)
}

// EmbedLibrary is the installed name of the embed library, e.g.
// "libphp-zts-84.so".
func (e *Env) EmbedLibrary() (string, error) {
	series, err := e.Series()
	if err != nil {
		return "", err
	}
	return "lib" + e.Config.Prefix + "-" + series + ".so", nil
}
