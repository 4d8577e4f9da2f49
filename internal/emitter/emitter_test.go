// SPDX-License-Identifier: MPL-2.0

package emitter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/static-php/spc-packages/internal/command"
	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/iteration"
	"github.com/static-php/spc-packages/internal/logging"
	"github.com/static-php/spc-packages/internal/manifest"
	"github.com/static-php/spc-packages/internal/testutil"
)

func TestHelperProcess(t *testing.T) { testutil.HelperProcess() }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ResolvePaths(t.TempDir())
	return cfg
}

// touchArtifact scripts the mock packaging tool to write the artifact it
// was asked to build.
func touchArtifact(cfg *config.Config, m *manifest.Manifest, iter int, fail config.Format) func(string, []string) (testutil.Response, bool) {
	key := iteration.Key{Name: m.Name, Version: m.Version, Architecture: m.Architecture}
	return func(_ string, args []string) (testutil.Response, bool) {
		for _, f := range []config.Format{config.FormatRPM, config.FormatDEB} {
			if !testutil.HasArgPair(args, "-t", string(f)) {
				continue
			}
			if f == fail {
				return testutil.Response{Stderr: "fpm: rpmbuild failed", ExitCode: 1}, true
			}
			artifact := filepath.Join(cfg.Paths.DistDir(f), iteration.ArtifactName(f, key, iter))
			return testutil.Response{Stdout: "Created package", Touch: []string{artifact}}, true
		}
		return testutil.Response{}, false
	}
}

func TestEmitter_Emit(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	src := filepath.Join(cfg.Paths.ModulesDir(), "gd.so")
	testutil.MustMkdirAll(t, filepath.Dir(src))
	testutil.MustWriteFile(t, src, "ELF")

	m := manifest.NewBuilder("php-zts-gd", "8.4.12", "x86_64").
		Depend("php-zts-cli").
		File(src, "/usr/lib64/php-zts/modules/gd.so").
		Build()

	rec := testutil.NewMockCommandRecorder()
	rec.Respond = touchArtifact(cfg, m, 1, "")
	var out bytes.Buffer
	e := New(cfg, command.NewRunner(command.WithExecCommand(rec.ContextCommandFunc(t))), &out, logging.Discard())

	for _, f := range cfg.Formats {
		res, err := e.Emit(context.Background(), m, f, 1)
		if err != nil {
			t.Fatalf("Emit(%s) error = %v", f, err)
		}
		if _, err := os.Stat(res.Artifact); err != nil {
			t.Errorf("Emit(%s) artifact %s missing: %v", f, res.Artifact, err)
		}
		if len(res.MissingAssets) != 0 {
			t.Errorf("Emit(%s) MissingAssets = %v, want none", f, res.MissingAssets)
		}
	}

	calls := rec.CallsTo("fpm")
	if len(calls) != 2 {
		t.Fatalf("expected 2 fpm invocations, got %d", len(calls))
	}
	if !slices.Contains(calls[0].Args, src+"=/usr/lib64/php-zts/modules/gd.so") {
		t.Errorf("file mapping missing from args: %v", calls[0].Args)
	}
	if !bytes.Contains(out.Bytes(), []byte("Created package")) {
		t.Errorf("tool output not streamed, got %q", out.String())
	}
}

func TestEmitter_FormatIsolation(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	m := manifest.NewBuilder("php-zts-cli", "8.4.12", "x86_64").Build()

	rec := testutil.NewMockCommandRecorder()
	rec.Respond = touchArtifact(cfg, m, 1, config.FormatRPM)
	e := New(cfg, command.NewRunner(command.WithExecCommand(rec.ContextCommandFunc(t))), &bytes.Buffer{}, logging.Discard())

	_, err := e.Emit(context.Background(), m, config.FormatRPM, 1)
	var emitErr *EmissionError
	if !errors.As(err, &emitErr) || emitErr.Format != config.FormatRPM || emitErr.Package != "php-zts-cli" {
		t.Fatalf("Emit(rpm) error = %v, want *EmissionError", err)
	}
	if !errors.Is(err, ErrEmission) || errors.Is(err, ErrPackagerUnavailable) {
		t.Errorf("Emit(rpm) error classification wrong: %v", err)
	}

	res, err := e.Emit(context.Background(), m, config.FormatDEB, 1)
	if err != nil {
		t.Fatalf("Emit(deb) error = %v", err)
	}
	if _, err := os.Stat(res.Artifact); err != nil {
		t.Errorf("deb artifact missing after rpm failure: %v", err)
	}
}

func TestEmitter_MissingSourceDropped(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	missing := filepath.Join(cfg.Paths.LibDir(), "libphp.so")
	m := manifest.NewBuilder("php-zts-embed", "8.4.12", "x86_64").
		File(missing, "/usr/lib64/libphp-zts-84.so").
		Build()

	rec := testutil.NewMockCommandRecorder()
	e := New(cfg, command.NewRunner(command.WithExecCommand(rec.ContextCommandFunc(t))), &bytes.Buffer{}, logging.Discard())

	res, err := e.Emit(context.Background(), m, config.FormatRPM, 1)
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}
	if !slices.Equal(res.MissingAssets, []string{missing}) {
		t.Errorf("MissingAssets = %v, want [%s]", res.MissingAssets, missing)
	}
	for _, arg := range rec.LastArgs() {
		if arg == missing+"=/usr/lib64/libphp-zts-84.so" {
			t.Errorf("missing source was passed to the tool: %v", rec.LastArgs())
		}
	}
}

func TestEmitter_EmptyDirCleared(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	stale := filepath.Join(cfg.Paths.Temp, emptyDirName, "leftover")
	testutil.MustMkdirAll(t, filepath.Dir(stale))
	testutil.MustWriteFile(t, stale, "x")

	m := manifest.NewBuilder("php-zts-fpm", "8.4.12", "x86_64").
		EmptyDirectory("/var/lib/php-zts/session", "/var/log/php-zts").
		Build()

	rec := testutil.NewMockCommandRecorder()
	e := New(cfg, command.NewRunner(command.WithExecCommand(rec.ContextCommandFunc(t))), &bytes.Buffer{}, logging.Discard())

	if _, err := e.Emit(context.Background(), m, config.FormatDEB, 2); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	dir := filepath.Join(cfg.Paths.Temp, emptyDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s) error = %v", dir, err)
	}
	if len(entries) != 0 {
		t.Errorf("empty staging directory has %d entries", len(entries))
	}
	args := rec.LastArgs()
	for _, want := range []string{dir + "=/var/lib/php-zts/session", dir + "=/var/log/php-zts"} {
		if !slices.Contains(args, want) {
			t.Errorf("args missing %q: %v", want, args)
		}
	}
}

func TestEmitter_PackagerUnavailable(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Tools.FPM = "spp-no-such-fpm"
	m := manifest.NewBuilder("php-zts-cli", "8.4.12", "x86_64").Build()
	e := New(cfg, command.NewRunner(), &bytes.Buffer{}, logging.Discard())

	_, err := e.Emit(context.Background(), m, config.FormatRPM, 1)
	if !errors.Is(err, ErrPackagerUnavailable) {
		t.Fatalf("Emit() error = %v, want ErrPackagerUnavailable", err)
	}
	var emitErr *EmissionError
	if errors.As(err, &emitErr) {
		t.Errorf("start failure must not be an EmissionError: %v", err)
	}
}

func TestEmitter_UnknownFormat(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	e := New(cfg, command.NewRunner(), &bytes.Buffer{}, logging.Discard())
	_, err := e.Emit(context.Background(), manifest.NewBuilder("x", "1", "x86_64").Build(), "apk", 1)
	if !errors.Is(err, config.ErrInvalidFormat) {
		t.Errorf("Emit(apk) error = %v, want ErrInvalidFormat", err)
	}
}
