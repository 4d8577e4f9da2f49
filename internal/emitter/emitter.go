// SPDX-License-Identifier: MPL-2.0

package emitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/static-php/spc-packages/internal/command"
	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/iteration"
	"github.com/static-php/spc-packages/internal/manifest"
)

// emptyDirName is the staging directory under temp mapped onto empty
// directories. It is single-writer scratch space, cleared before each use.
const emptyDirName = "spp_empty"

var (
	// ErrEmission is wrapped by EmissionError.
	ErrEmission = errors.New("package emission failed")
	// ErrPackagerUnavailable is returned when the packaging tool cannot be
	// started at all. It is fatal for the run.
	ErrPackagerUnavailable = errors.New("packaging tool unavailable")
)

type (
	// EmissionError reports a packaging tool run that exited non-zero for
	// one format. Other formats and components are unaffected.
	EmissionError struct {
		Package string
		Format  config.Format
		Cause   error
	}

	// Result describes one (manifest, format) emission.
	Result struct {
		Format   config.Format
		Artifact string
		// MissingAssets are file sources dropped because they do not exist.
		MissingAssets []string
		Args          []string
	}

	// Emitter runs the packaging tool for each manifest and format.
	Emitter struct {
		cfg      *config.Config
		runner   *command.Runner
		out      io.Writer
		logger   *slog.Logger
		backends map[config.Format]Backend
	}
)

func (e *EmissionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Package, e.Format, e.Cause)
}

// Unwrap exposes ErrEmission and the tool failure.
func (e *EmissionError) Unwrap() []error { return []error{ErrEmission, e.Cause} }

// New creates an Emitter writing tool output to out.
func New(cfg *config.Config, runner *command.Runner, out io.Writer, logger *slog.Logger) *Emitter {
	return &Emitter{
		cfg:    cfg,
		runner: runner,
		out:    out,
		logger: logger,
		backends: map[config.Format]Backend{
			config.FormatRPM: RPM{Package: cfg.Package},
			config.FormatDEB: DEB{Package: cfg.Package},
		},
	}
}

// Emit builds one artifact of m in format f at revision iter. A non-zero
// tool exit yields *EmissionError; failing to start the tool at all wraps
// ErrPackagerUnavailable.
func (e *Emitter) Emit(ctx context.Context, m *manifest.Manifest, f config.Format, iter int) (Result, error) {
	backend, ok := e.backends[f]
	if !ok {
		return Result{Format: f}, &config.InvalidFormatError{Value: f}
	}

	res := Result{Format: f}
	files := make([]manifest.Mapping, 0, len(m.Files))
	for _, fm := range m.FilesFor(f) {
		if _, err := os.Stat(fm.Source); err != nil {
			e.logger.Warn("source file not found, dropping mapping", "package", m.Name, "format", f, "source", fm.Source)
			res.MissingAssets = append(res.MissingAssets, fm.Source)
			continue
		}
		files = append(files, fm)
	}

	outDir := e.cfg.Paths.DistDir(f)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return res, fmt.Errorf("create output directory: %w", err)
	}

	plan := Plan{Manifest: m, Iteration: iter, Files: files, OutputDir: outDir}
	if len(m.EmptyDirectories) > 0 {
		dir, err := e.prepareEmptyDir()
		if err != nil {
			return res, err
		}
		plan.EmptyDir = dir
	}

	res.Args = backend.Args(plan)
	key := iteration.Key{Name: m.Name, Version: m.Version, Architecture: m.Architecture}
	res.Artifact = filepath.Join(outDir, iteration.ArtifactName(f, key, iter))

	e.logger.Info("creating package", "package", m.Name, "format", f, "version", m.Version, "iteration", iter)
	if err := e.runner.Stream(ctx, e.out, nil, e.cfg.Tools.FPM, res.Args...); err != nil {
		var exitErr *command.ExitError
		if errors.As(err, &exitErr) {
			return res, &EmissionError{Package: m.Name, Format: f, Cause: err}
		}
		return res, fmt.Errorf("%w: %w", ErrPackagerUnavailable, err)
	}

	if _, err := os.Stat(res.Artifact); err != nil {
		e.logger.Warn("artifact not found at expected path", "package", m.Name, "format", f, "artifact", res.Artifact)
	}
	return res, nil
}

// prepareEmptyDir returns the staging directory, emptied.
func (e *Emitter) prepareEmptyDir() (string, error) {
	dir := filepath.Join(e.cfg.Paths.Temp, emptyDirName)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clear empty staging directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create empty staging directory: %w", err)
	}
	return dir, nil
}
