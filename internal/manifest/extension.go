// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/static-php/spc-packages/internal/probe"
)

// enableDirective matches a commented (zend_)extension= line.
var enableDirective = regexp.MustCompile(`(?m)^([ \t]*);[ \t]*((?:zend_)?extension[ \t]*=)`)

// RewriteIni uncomments the module's enable directive when enable is true
// and returns the content unchanged otherwise.
func RewriteIni(content []byte, enable bool) []byte {
	if !enable {
		return content
	}
	return enableDirective.ReplaceAll(content, []byte("${1}${2}"))
}

// extension is the default strategy: a shared module with its rewritten ini.
func extension(ctx context.Context, env *Env, b *Builder) error {
	v := env.Module
	if v == nil {
		return fmt.Errorf("%s: %w", env.Component, ErrUnknownComponent)
	}
	cfg := env.Config

	ini, err := os.ReadFile(v.IniSource)
	if err != nil {
		return &MissingComponentError{Component: env.Component, Asset: v.IniSource}
	}

	loader := env.Registry.IsLoader(v.Name)
	version, err := env.Probe.ModuleVersion(ctx, probe.Module{Name: v.Name, Loader: loader},
		cfg.Paths.ModulesDir(), v.LoadSequence, env.PHPVersion)
	if err != nil {
		return err
	}

	enable := env.Registry.IsShared(v.Name) && !env.Registry.IsStatic(v.Name)
	staged, err := env.Stage(v.IniFilename, RewriteIni(ini, enable), 0o644)
	if err != nil {
		return err
	}

	dest := filepath.Join(cfg.Install.IniDir, v.IniFilename)
	b.SetVersion(version).
		Depend(cfg.PackageName("cli"))
	for _, dep := range v.Dependencies {
		b.Depend(cfg.PackageName(dep))
	}
	b.ConfigFile(dest).
		File(v.ModuleBinary, filepath.Join(cfg.Install.ModulesDir, v.Name+".so")).
		File(staged, dest)
	return nil
}

func imagick(ctx context.Context, env *Env, b *Builder) error {
	if err := extension(ctx, env, b); err != nil {
		return err
	}
	b.Depend("libgomp.so.1")
	return nil
}

func spx(ctx context.Context, env *Env, b *Builder) error {
	if err := extension(ctx, env, b); err != nil {
		return err
	}
	const assets = "misc/php-spx/assets/web-ui"
	b.File(filepath.Join(env.Config.Paths.ShareDir(), assets), filepath.Join(env.Config.Install.ShareDir, assets))
	return nil
}
