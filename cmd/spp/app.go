// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/static-php/spc-packages/internal/command"
	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/issue"
	"github.com/static-php/spc-packages/internal/logging"
	"github.com/static-php/spc-packages/internal/packager"
	"github.com/static-php/spc-packages/internal/registry"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: command handlers receive an App and delegate through it.
	App struct {
		Config config.Provider
		Runner *command.Runner
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Runner *command.Runner
		Stdout io.Writer
		Stderr io.Writer
	}

	// session is the per-invocation state built from the root flags.
	session struct {
		cfg        *config.Config
		configPath string
		logger     *slog.Logger
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = command.NewRunner()
	}
	return &App{
		Config: deps.Config,
		Runner: deps.Runner,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

// session loads the configuration and builds the logger. A load failure is
// rendered through fail with its issue entry.
func (a *App) session(ctx context.Context, flags *rootFlags) (*session, error) {
	opts := config.LoadOptions{ConfigFilePath: flags.configPath, BaseDir: flags.baseDir}
	cfg, err := a.Config.Load(ctx, opts)
	if err != nil {
		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			err = issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
		return nil, a.fail(err, flags.verbose)
	}
	return &session{
		cfg:        cfg,
		configPath: flags.configPath,
		logger: logging.New(a.stderr, logging.Options{
			Verbose: flags.verbose || cfg.UI.Verbose,
			Prefix:  config.AppName,
		}),
	}, nil
}

// registry loads the module registry named by the session configuration.
func (s *session) registry() (*registry.Registry, error) {
	return packager.LoadRegistry(s.cfg)
}
