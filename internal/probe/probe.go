// SPDX-License-Identifier: MPL-2.0

// Package probe asks the built runtime and the host for facts packaging
// needs: the runtime version, the machine architecture and module versions.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/static-php/spc-packages/internal/command"
)

// FallbackArchitecture is used when neither uname nor arch reports one.
const FallbackArchitecture = "x86_64"

var (
	// ErrProbe is the sentinel wrapped by every probe failure.
	ErrProbe = errors.New("runtime probe failed")

	moduleVersion     = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)
	seriesVersion     = regexp.MustCompile(`^(\d+)\.(\d+)`)
	frankenPHPVersion = regexp.MustCompile(`FrankenPHP v(\d+\.\d+\.\d+)`)
)

type (
	// Prober runs the probe commands.
	Prober struct {
		runner *command.Runner
		php    string
		uname  string
		arch   string
		logger *slog.Logger
	}

	// Tools names the executables a Prober invokes.
	Tools struct {
		PHP   string
		Uname string
		Arch  string
	}

	// Module is a shared module to load with the -d directive its kind needs.
	Module struct {
		Name   string
		Loader bool
	}
)

// New creates a Prober.
func New(runner *command.Runner, tools Tools, logger *slog.Logger) *Prober {
	return &Prober{runner: runner, php: tools.PHP, uname: tools.Uname, arch: tools.Arch, logger: logger}
}

// PHPVersion returns PHP_VERSION as reported by the runtime binary.
func (p *Prober) PHPVersion(ctx context.Context) (string, error) {
	res, err := p.runner.Output(ctx, nil, p.php, "-r", "echo PHP_VERSION;")
	if err != nil {
		return "", fmt.Errorf("%w: php version: %w", ErrProbe, err)
	}
	version := strings.TrimSpace(res.Stdout)
	if version == "" {
		return "", fmt.Errorf("%w: %s printed no version", ErrProbe, p.php)
	}
	p.logger.Debug("detected php version", "version", version)
	return version, nil
}

// Architecture returns the machine name from uname -m, then arch, then the
// fallback. It never fails.
func (p *Prober) Architecture(ctx context.Context) string {
	for _, try := range [][]string{{p.uname, "-m"}, {p.arch}} {
		if try[0] == "" {
			continue
		}
		res, err := p.runner.Output(ctx, nil, try[0], try[1:]...)
		if err != nil {
			p.logger.Debug("architecture probe failed", "tool", try[0], "error", err)
			continue
		}
		if arch := strings.TrimSpace(res.Stdout); arch != "" {
			return arch
		}
	}
	p.logger.Warn("could not determine architecture, using fallback", "architecture", FallbackArchitecture)
	return FallbackArchitecture
}

// ModuleVersion loads module (after deps) into the runtime with no php.ini
// and returns phpversion(module). A version different from phpVersion gets
// the runtime series appended, e.g. "3.1.2_84".
func (p *Prober) ModuleVersion(ctx context.Context, module Module, modulesDir string, deps []Module, phpVersion string) (string, error) {
	name := module.Name
	args := []string{"-n", "-d", "extension_dir=" + modulesDir}
	for _, dep := range deps {
		args = append(args, "-d", dep.directive())
	}
	args = append(args, "-d", module.directive(), "-r", fmt.Sprintf("echo phpversion('%s');", name))

	res, err := p.runner.Output(ctx, nil, p.php, args...)
	if err != nil {
		return "", fmt.Errorf("%w: version of %s: %w", ErrProbe, name, err)
	}
	version := moduleVersion.FindString(strings.TrimSpace(res.Stdout))
	if version == "" {
		return "", fmt.Errorf("%w: could not detect version of %s", ErrProbe, name)
	}
	if version == phpVersion {
		return version, nil
	}

	series, err := Series(phpVersion)
	if err != nil {
		return "", err
	}
	return version + "_" + series, nil
}

// FrankenPHPVersion returns the X.Y.Z version of the frankenphp binary.
// libDir is put on LD_LIBRARY_PATH so the embedded runtime resolves.
func (p *Prober) FrankenPHPVersion(ctx context.Context, binary, libDir string) (string, error) {
	res, err := p.runner.Output(ctx, []string{"LD_LIBRARY_PATH=" + libDir}, binary, "--version")
	if err != nil {
		return "", fmt.Errorf("%w: frankenphp version: %w", ErrProbe, err)
	}
	m := frankenPHPVersion.FindStringSubmatch(res.Stdout)
	if m == nil {
		return "", fmt.Errorf("%w: unrecognized frankenphp version output %q", ErrProbe, strings.TrimSpace(res.Stdout))
	}
	return m[1], nil
}

func (m Module) directive() string {
	if m.Loader {
		return "zend_extension=" + m.Name
	}
	return "extension=" + m.Name
}

// Series returns major and minor without a dot: "8.4.12" -> "84".
func Series(phpVersion string) (string, error) {
	m := seriesVersion.FindStringSubmatch(phpVersion)
	if m == nil {
		return "", fmt.Errorf("%w: cannot extract major.minor from %q", ErrProbe, phpVersion)
	}
	return m[1] + m[2], nil
}
