// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/static-php/spc-packages/internal/config"
)

var configPrefix = regexp.MustCompile(`(?m)^prefix=.*$`)

// binaryName derives an installed tool name from the package prefix:
// "php" -> "php-zts", "pie" -> "pie-zts" for the prefix "php-zts".
func binaryName(prefix, tool string) string {
	return tool + strings.TrimPrefix(prefix, "php")
}

func cli(_ context.Context, env *Env, b *Builder) error {
	cfg := env.Config
	bin := filepath.Join(cfg.Paths.BinDir(), "php")
	if err := env.Require(bin); err != nil {
		return err
	}

	b.ConfigFile(cfg.Install.PHPIni).
		Provide(cfg.Prefix)
	for _, ext := range env.Registry.Static() {
		b.Provide(cfg.PackageName(ext))
	}
	b.Directory(cfg.Install.IniDir).
		File(filepath.Join(cfg.Paths.Ini, "php.ini"), cfg.Install.PHPIni).
		File(bin, filepath.Join(cfg.Install.BinDir, binaryName(cfg.Prefix, "php")))
	return nil
}

func cgi(_ context.Context, env *Env, b *Builder) error {
	cfg := env.Config
	bin := filepath.Join(cfg.Paths.BinDir(), "php-cgi")
	if err := env.Require(bin); err != nil {
		return err
	}
	b.Depend(cfg.PackageName("cli")).
		File(bin, filepath.Join(cfg.Install.BinDir, cfg.Prefix+"-cgi"))
	return nil
}

func fpm(_ context.Context, env *Env, b *Builder) error {
	cfg := env.Config
	bin := filepath.Join(cfg.Paths.BinDir(), "php-fpm")
	if err := env.Require(bin); err != nil {
		return err
	}

	pool := filepath.Join(cfg.Install.FPMPoolDir, "www.conf")
	state := []string{
		cfg.Install.FPMPoolDir,
		filepath.Join(cfg.Install.StateDir, "session"),
		filepath.Join(cfg.Install.StateDir, "wsdlcache"),
		filepath.Join(cfg.Install.StateDir, "opcache"),
	}
	b.Depend(cfg.PackageName("cli")).
		ConfigFile(cfg.Install.FPMConfig, pool).
		File(filepath.Join(cfg.Paths.Ini, "php-fpm.conf"), cfg.Install.FPMConfig).
		File(filepath.Join(cfg.Paths.Ini, "www.conf"), pool).
		File(bin, filepath.Join(cfg.Install.BinDir, cfg.Prefix+"-fpm")).
		Directory(state...).
		EmptyDirectory(state...)
	return nil
}

func embed(_ context.Context, env *Env, b *Builder) error {
	cfg := env.Config
	lib := filepath.Join(cfg.Paths.LibDir(), "libphp.so")
	if err := env.Require(lib); err != nil {
		return err
	}
	name, err := env.EmbedLibrary()
	if err != nil {
		return err
	}
	b.Depend(cfg.PackageName("cli")).
		Provide(name).
		File(lib, filepath.Join(cfg.Install.LibDir, name))
	return nil
}

func devel(_ context.Context, env *Env, b *Builder) error {
	cfg := env.Config
	for _, tool := range []string{"php-config", "phpize"} {
		src := filepath.Join(cfg.Paths.BinDir(), tool)
		data, err := os.ReadFile(src)
		if err != nil {
			return &MissingComponentError{Component: env.Component, Asset: src}
		}
		staged, err := env.Stage(tool, configPrefix.ReplaceAll(data, []byte(`prefix="/usr"`)), 0o755)
		if err != nil {
			return err
		}
		b.File(staged, filepath.Join(cfg.Install.BinDir, tool))
	}

	lib, err := env.EmbedLibrary()
	if err != nil {
		return err
	}
	script, err := linkScript(filepath.Join(cfg.Install.LibDir, lib), filepath.Join(cfg.Install.LibDir, "lib"+cfg.Prefix+".so"))
	if err != nil {
		return err
	}
	postinstall, err := env.Stage("devel-postinstall.sh", []byte(script), 0o755)
	if err != nil {
		return err
	}

	b.File(cfg.Paths.IncludeDir(), cfg.Install.IncludeDir).
		Depend(cfg.PackageName("cli"), cfg.PackageName("embed"))
	for _, f := range cfg.Formats {
		b.Scripts(f, Scripts{AfterInstall: postinstall})
	}
	return nil
}

func composer(_ context.Context, env *Env, b *Builder) error {
	cfg := env.Config
	phar := filepath.Join(cfg.Paths.Temp, "composer.phar")
	if err := env.Require(phar); err != nil {
		return err
	}
	b.SetArchitecture(Noarch).
		SetMeta(Meta{
			Description: "Composer is a dependency manager for PHP",
			URL:         "https://getcomposer.org/",
			License:     "MIT",
			Vendor:      "Composer",
			Category:    "Development/Tools",
		}).
		Depend(cfg.PackageName("cli")).
		File(phar, filepath.Join(cfg.Install.BinDir, "composer"))
	return nil
}

func pie(_ context.Context, env *Env, b *Builder) error {
	cfg := env.Config
	phar := filepath.Join(cfg.Paths.Temp, "pie.phar")
	if err := env.Require(phar); err != nil {
		return err
	}
	wrapper := binaryName(cfg.Prefix, "pie")
	b.Depend(cfg.PackageName("cli")).
		File(phar, filepath.Join(cfg.Install.ShareDir, "pie.phar")).
		File(filepath.Join(cfg.Paths.Ini, wrapper), filepath.Join(cfg.Install.BinDir, wrapper))
	return nil
}

const (
	frankenPHPConfigDir = "/etc/frankenphp"
	frankenPHPUnit      = "/usr/lib/systemd/system/frankenphp.service"
)

func frankenPHP(ctx context.Context, env *Env, b *Builder) error {
	cfg := env.Config
	bin := filepath.Join(cfg.Paths.BinDir(), "frankenphp")
	if err := env.Require(bin); err != nil {
		return err
	}
	version, err := env.Probe.FrankenPHPVersion(ctx, bin, cfg.Paths.LibDir())
	if err != nil {
		return err
	}
	series, err := env.Series()
	if err != nil {
		return err
	}

	assets := cfg.Paths.FrankenPHP
	caddyfile := filepath.Join(frankenPHPConfigDir, "Caddyfile")
	caddyDir := filepath.Join(frankenPHPConfigDir, "Caddyfile.d")

	b.SetName("frankenphp").
		SetVersion(version+"_"+series).
		Depend(cfg.PackageName("embed")).
		ConfigFile(caddyfile).
		File(bin, filepath.Join(cfg.Install.BinDir, "frankenphp")).
		FileFor(config.FormatRPM, filepath.Join(assets, "rhel", "frankenphp.service"), frankenPHPUnit).
		FileFor(config.FormatDEB, filepath.Join(assets, "debian", "frankenphp.service"), frankenPHPUnit).
		File(filepath.Join(assets, "Caddyfile"), caddyfile).
		File(filepath.Join(assets, "content")+"/", "/usr/share/frankenphp").
		EmptyDirectory("/var/lib/frankenphp", caddyDir).
		Extra(config.FormatRPM, "--rpm-user", "frankenphp").
		Extra(config.FormatRPM, "--rpm-group", "frankenphp")

	rhel, err := collectScripts(env, filepath.Join(assets, "rhel"), Scripts{
		BeforeInstall: "preinstall.sh",
		AfterInstall:  "postinstall.sh",
		BeforeRemove:  "preuninstall.sh",
		AfterRemove:   "postuninstall.sh",
	})
	if err != nil {
		return err
	}
	debian, err := collectScripts(env, filepath.Join(assets, "debian"), Scripts{
		AfterInstall: "postinst.sh",
		BeforeRemove: "prerm.sh",
		AfterRemove:  "postrm.sh",
	})
	if err != nil {
		return err
	}
	b.Scripts(config.FormatRPM, rhel).Scripts(config.FormatDEB, debian)
	return nil
}
