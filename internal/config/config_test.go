// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/static-php/spc-packages/internal/issue"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Prefix != "php-zts" {
		t.Errorf("Prefix = %q, want php-zts", cfg.Prefix)
	}
	if diff := cmp.Diff([]Format{FormatRPM, FormatDEB}, cfg.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if cfg.LoadOrder.Strategy != LoadOrderTiered {
		t.Errorf("LoadOrder.Strategy = %q, want tiered", cfg.LoadOrder.Strategy)
	}
	if cfg.Dependencies.SuggestionsInDepends || !cfg.Dependencies.SuggestionsInLoadOrder {
		t.Errorf("Dependencies = %+v, want depends=false load_order=true", cfg.Dependencies)
	}
	if ok, errs := cfg.IsValid(); !ok {
		t.Errorf("DefaultConfig().IsValid() = %v", errs)
	}
}

func TestLoad_DefaultsOnly(t *testing.T) {
	base := t.TempDir()
	userDir := t.TempDir()

	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{BaseDir: base, ConfigDirPath: userDir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want none", path)
	}
	if want := filepath.Join(base, "dist"); cfg.Paths.Dist != want {
		t.Errorf("Paths.Dist = %q, want %q", cfg.Paths.Dist, want)
	}
	if want := filepath.Join(base, "dist", "rpm"); cfg.Paths.RPMDir() != want {
		t.Errorf("RPMDir() = %q, want %q", cfg.Paths.RPMDir(), want)
	}
	if want := filepath.Join(base, "buildroot", "bin", "php"); cfg.PHPBinary() != want {
		t.Errorf("PHPBinary() = %q, want %q", cfg.PHPBinary(), want)
	}
}

func TestLoad_ProjectFile(t *testing.T) {
	base := t.TempDir()
	userDir := t.TempDir()

	content := `
prefix: "php85"
formats: ["deb"]
paths: dist: "/srv/dist"
load_order: {strategy: "padding", filler: "~"}
dependencies: suggestions_in_depends: true
`
	if err := os.WriteFile(filepath.Join(base, ProjectFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{BaseDir: base, ConfigDirPath: userDir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != filepath.Join(base, ProjectFileName) {
		t.Errorf("resolved path = %q", path)
	}
	if cfg.Prefix != "php85" {
		t.Errorf("Prefix = %q", cfg.Prefix)
	}
	if diff := cmp.Diff([]Format{FormatDEB}, cfg.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if cfg.Paths.Dist != "/srv/dist" || cfg.Paths.DEBDir() != "/srv/dist/deb" {
		t.Errorf("Paths.Dist = %q, DEBDir() = %q", cfg.Paths.Dist, cfg.Paths.DEBDir())
	}
	if cfg.LoadOrder.Strategy != LoadOrderPadding || cfg.LoadOrder.Filler != "~" {
		t.Errorf("LoadOrder = %+v", cfg.LoadOrder)
	}
	if !cfg.Dependencies.SuggestionsInDepends || !cfg.Dependencies.SuggestionsInLoadOrder {
		t.Errorf("Dependencies = %+v, untouched keys must keep defaults", cfg.Dependencies)
	}
	if cfg.Install.IniDir != "/etc/php-zts.d" {
		t.Errorf("Install.IniDir = %q, want default", cfg.Install.IniDir)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	base := t.TempDir()
	userDir := t.TempDir()

	path := filepath.Join(base, "bad.cue")
	if err := os.WriteFile(path, []byte(`formats: ["rpm", "apk"]`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path, BaseDir: base, ConfigDirPath: userDir})
	if err == nil {
		t.Fatal("expected schema error")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || !ae.HasSuggestions() {
		t.Errorf("error should be actionable with suggestions, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "formats[1]") {
		t.Errorf("error should point at formats[1]: %v", err)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	base := t.TempDir()
	userDir := t.TempDir()

	path := filepath.Join(base, ProjectFileName)
	if err := os.WriteFile(path, []byte(`container_engine: "podman"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProvider().Load(context.Background(), LoadOptions{BaseDir: base, ConfigDirPath: userDir}); err == nil {
		t.Fatal("expected closed-schema error for unknown key")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want not found", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	base := t.TempDir()
	userDir := t.TempDir()
	t.Setenv("SPP_PREFIX", "php-nts")
	t.Setenv("SPP_ITERATION", "7")
	t.Setenv("SPP_LOAD_ORDER_STRATEGY", "padding")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{BaseDir: base, ConfigDirPath: userDir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Prefix != "php-nts" || cfg.Iteration != 7 || cfg.LoadOrder.Strategy != LoadOrderPadding {
		t.Errorf("env overrides not applied: prefix=%q iteration=%d strategy=%q", cfg.Prefix, cfg.Iteration, cfg.LoadOrder.Strategy)
	}
}

func TestLoad_EnvOverrideInvalid(t *testing.T) {
	base := t.TempDir()
	userDir := t.TempDir()
	t.Setenv("SPP_LOAD_ORDER_STRATEGY", "alphabetical")

	_, err := NewProvider().Load(context.Background(), LoadOptions{BaseDir: base, ConfigDirPath: userDir})
	if !errors.Is(err, ErrInvalidLoadOrderStrategy) {
		t.Errorf("Load() error = %v, want ErrInvalidLoadOrderStrategy", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	base := t.TempDir()
	userDir := t.TempDir()

	path := filepath.Join(base, ProjectFileName)
	written, err := CreateDefaultConfig(path)
	if err != nil || !written {
		t.Fatalf("CreateDefaultConfig() = %v, %v", written, err)
	}
	if written, _ := CreateDefaultConfig(path); written {
		t.Error("CreateDefaultConfig() must not overwrite an existing file")
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{BaseDir: base, ConfigDirPath: userDir})
	if err != nil {
		t.Fatalf("generated file does not load: %v", err)
	}
	want := DefaultConfig()
	want.ResolvePaths(base)
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
