// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value Format
		want  bool
	}{
		{FormatRPM, true},
		{FormatDEB, true},
		{"apk", false},
		{"", false},
	}
	for _, tt := range tests {
		ok, errs := tt.value.IsValid()
		if ok != tt.want {
			t.Errorf("Format(%q).IsValid() = %v, want %v", tt.value, ok, tt.want)
		}
		if !ok && !errors.Is(errs[0], ErrInvalidFormat) {
			t.Errorf("error %v should wrap ErrInvalidFormat", errs[0])
		}
	}
}

func TestParseFormats(t *testing.T) {
	t.Parallel()

	got, err := ParseFormats(" RPM, deb ,")
	if err != nil {
		t.Fatalf("ParseFormats() error = %v", err)
	}
	if diff := cmp.Diff([]Format{FormatRPM, FormatDEB}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseFormats("rpm,zip"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseFormats(zip) error = %v, want ErrInvalidFormat", err)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{name: "defaults", mutate: func(*Config) {}, valid: true},
		{name: "empty prefix", mutate: func(c *Config) { c.Prefix = " " }},
		{name: "no formats", mutate: func(c *Config) { c.Formats = nil }},
		{name: "negative iteration", mutate: func(c *Config) { c.Iteration = -1 }},
		{name: "unknown strategy", mutate: func(c *Config) { c.LoadOrder.Strategy = "random" }},
		{name: "padding without filler", mutate: func(c *Config) {
			c.LoadOrder.Strategy = LoadOrderPadding
			c.LoadOrder.Filler = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			ok, errs := cfg.IsValid()
			if ok != tt.valid {
				t.Fatalf("IsValid() = %v (%v), want %v", ok, errs, tt.valid)
			}
			if !ok && !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", errs[0])
			}
		})
	}
}

func TestPathsConfig_Derived(t *testing.T) {
	t.Parallel()

	p := PathsConfig{BuildRoot: "/b", Dist: "/d", Ini: "/i", Modules: "/m"}
	checks := map[string][2]string{
		"BinDir":          {p.BinDir(), "/b/bin"},
		"LibDir":          {p.LibDir(), "/b/lib"},
		"ModulesDir":      {p.ModulesDir(), "/m"},
		"ExtensionIniDir": {p.ExtensionIniDir(), "/i/extension"},
		"RPMDir":          {p.RPMDir(), "/d/rpm"},
		"DistDir(deb)":    {p.DistDir(FormatDEB), "/d/deb"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}
}
