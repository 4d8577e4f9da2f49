// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FormatRPM selects the RPM backend.
	FormatRPM Format = "rpm"
	// FormatDEB selects the Debian backend.
	FormatDEB Format = "deb"

	// LoadOrderTiered assigns numeric prefixes by tier and dependency depth.
	LoadOrderTiered LoadOrderStrategy = "tiered"
	// LoadOrderPadding prepends filler characters until names sort after their dependencies.
	LoadOrderPadding LoadOrderStrategy = "padding"
)

var (
	// ErrInvalidFormat is returned when a Format value is not recognized.
	ErrInvalidFormat = errors.New("invalid package format")
	// ErrInvalidLoadOrderStrategy is returned when a LoadOrderStrategy value is not recognized.
	ErrInvalidLoadOrderStrategy = errors.New("invalid load order strategy")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Format names a target packaging backend.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	// It wraps ErrInvalidFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value Format
	}

	// LoadOrderStrategy selects how ini filename prefixes are computed.
	LoadOrderStrategy string

	// InvalidLoadOrderStrategyError is returned when a LoadOrderStrategy value is not recognized.
	InvalidLoadOrderStrategyError struct {
		Value LoadOrderStrategy
	}

	// InvalidConfigError aggregates field errors found by Config.IsValid.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the complete packager configuration.
	Config struct {
		// Prefix is prepended to every package name: "<prefix>-<component>".
		Prefix string `json:"prefix" mapstructure:"prefix"`
		// PHPVersion skips the runtime probe when set.
		PHPVersion string `json:"php_version" mapstructure:"php_version"`
		// Formats lists the backends to emit, in order.
		Formats []Format `json:"formats" mapstructure:"formats"`
		// Iteration forces a package revision instead of scanning dist dirs. Zero means scan.
		Iteration int `json:"iteration" mapstructure:"iteration"`

		Paths        PathsConfig        `json:"paths" mapstructure:"paths"`
		Install      InstallConfig      `json:"install" mapstructure:"install"`
		Tools        ToolsConfig        `json:"tools" mapstructure:"tools"`
		Package      PackageConfig      `json:"package" mapstructure:"package"`
		LoadOrder    LoadOrderConfig    `json:"load_order" mapstructure:"load_order"`
		Dependencies DependenciesConfig `json:"dependencies" mapstructure:"dependencies"`
		UI           UIConfig           `json:"ui" mapstructure:"ui"`
		Metrics      MetricsConfig      `json:"metrics" mapstructure:"metrics"`
		Report       ReportConfig       `json:"report" mapstructure:"report"`
	}

	// PathsConfig locates build inputs and outputs on the packaging host.
	// Empty derived entries (Bin, Lib, ...) fall back to a directory under BuildRoot or Dist.
	PathsConfig struct {
		BuildRoot  string `json:"build_root" mapstructure:"build_root"`
		Bin        string `json:"bin" mapstructure:"bin"`
		Lib        string `json:"lib" mapstructure:"lib"`
		Include    string `json:"include" mapstructure:"include"`
		Modules    string `json:"modules" mapstructure:"modules"`
		Share      string `json:"share" mapstructure:"share"`
		Ini        string `json:"ini" mapstructure:"ini"`
		Dist       string `json:"dist" mapstructure:"dist"`
		DistRPM    string `json:"dist_rpm" mapstructure:"dist_rpm"`
		DistDEB    string `json:"dist_deb" mapstructure:"dist_deb"`
		Temp       string `json:"temp" mapstructure:"temp"`
		Craft      string `json:"craft" mapstructure:"craft"`
		Catalog    string `json:"catalog" mapstructure:"catalog"`
		FrankenPHP string `json:"frankenphp" mapstructure:"frankenphp"`
	}

	// InstallConfig holds absolute destination paths inside the installed package.
	InstallConfig struct {
		BinDir     string `json:"bin_dir" mapstructure:"bin_dir"`
		LibDir     string `json:"lib_dir" mapstructure:"lib_dir"`
		IniDir     string `json:"ini_dir" mapstructure:"ini_dir"`
		PHPIni     string `json:"php_ini" mapstructure:"php_ini"`
		ModulesDir string `json:"modules_dir" mapstructure:"modules_dir"`
		IncludeDir string `json:"include_dir" mapstructure:"include_dir"`
		ShareDir   string `json:"share_dir" mapstructure:"share_dir"`
		FPMConfig  string `json:"fpm_config" mapstructure:"fpm_config"`
		FPMPoolDir string `json:"fpm_pool_dir" mapstructure:"fpm_pool_dir"`
		StateDir   string `json:"state_dir" mapstructure:"state_dir"`
	}

	// ToolsConfig names the external executables. Empty PHP means <bin>/php.
	ToolsConfig struct {
		FPM   string `json:"fpm" mapstructure:"fpm"`
		LDD   string `json:"ldd" mapstructure:"ldd"`
		Uname string `json:"uname" mapstructure:"uname"`
		Arch  string `json:"arch" mapstructure:"arch"`
		PHP   string `json:"php" mapstructure:"php"`
	}

	// PackageConfig is the metadata stamped into every package header.
	PackageConfig struct {
		License     string         `json:"license" mapstructure:"license"`
		Compression string         `json:"compression" mapstructure:"compression"`
		RPM         FormatMetadata `json:"rpm" mapstructure:"rpm"`
		DEB         FormatMetadata `json:"deb" mapstructure:"deb"`
	}

	// FormatMetadata is per-backend header metadata.
	FormatMetadata struct {
		Maintainer string `json:"maintainer" mapstructure:"maintainer"`
		Vendor     string `json:"vendor" mapstructure:"vendor"`
		URL        string `json:"url" mapstructure:"url"`
	}

	// LoadOrderConfig configures ini filename prefixes.
	LoadOrderConfig struct {
		Strategy LoadOrderStrategy `json:"strategy" mapstructure:"strategy"`
		// Early lists modules that must load before everything else.
		Early []string `json:"early" mapstructure:"early"`
		// Filler is the padding character for LoadOrderPadding.
		Filler string `json:"filler" mapstructure:"filler"`
	}

	// DependenciesConfig controls whether declared suggestions take part in resolution.
	DependenciesConfig struct {
		SuggestionsInDepends   bool `json:"suggestions_in_depends" mapstructure:"suggestions_in_depends"`
		SuggestionsInLoadOrder bool `json:"suggestions_in_load_order" mapstructure:"suggestions_in_load_order"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// MetricsConfig configures the node-exporter textfile written after a run.
	MetricsConfig struct {
		Textfile string `json:"textfile" mapstructure:"textfile"`
	}

	// ReportConfig configures the TOML run report. Empty Path means <dist>/spp-report.toml.
	ReportConfig struct {
		Path    string `json:"path" mapstructure:"path"`
		Disable bool   `json:"disable" mapstructure:"disable"`
	}
)

// IsValid returns whether f is a known format.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatRPM, FormatDEB:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid package format %q (valid: rpm, deb)", e.Value)
}

func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// IsValid returns whether s is a known strategy.
func (s LoadOrderStrategy) IsValid() (bool, []error) {
	switch s {
	case LoadOrderTiered, LoadOrderPadding:
		return true, nil
	default:
		return false, []error{&InvalidLoadOrderStrategyError{Value: s}}
	}
}

func (e *InvalidLoadOrderStrategyError) Error() string {
	return fmt.Sprintf("invalid load order strategy %q (valid: tiered, padding)", e.Value)
}

func (e *InvalidLoadOrderStrategyError) Unwrap() error { return ErrInvalidLoadOrderStrategy }

// ParseFormats splits a comma-separated list such as "rpm,deb".
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	var errs []error
	for part := range strings.SplitSeq(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if ok, fieldErrs := f.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
			continue
		}
		out = append(out, f)
	}
	return out, errors.Join(errs...)
}

// IsValid checks constraints the CUE schema cannot express once environment
// overrides have been applied.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Prefix) == "" {
		errs = append(errs, errors.New("prefix must not be empty"))
	}
	if len(c.Formats) == 0 {
		errs = append(errs, errors.New("at least one format is required"))
	}
	for _, f := range c.Formats {
		if ok, fieldErrs := f.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.Iteration < 0 {
		errs = append(errs, fmt.Errorf("iteration must be >= 0, got %d", c.Iteration))
	}
	if ok, fieldErrs := c.LoadOrder.Strategy.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if c.LoadOrder.Strategy == LoadOrderPadding && len([]rune(c.LoadOrder.Filler)) != 1 {
		errs = append(errs, fmt.Errorf("load_order.filler must be a single character, got %q", c.LoadOrder.Filler))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap exposes ErrInvalidConfig and every field error to errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// HasFormat reports whether f is among the configured formats.
func (c *Config) HasFormat(f Format) bool {
	for _, have := range c.Formats {
		if have == f {
			return true
		}
	}
	return false
}

// PackageName returns "<prefix>-<component>".
func (c *Config) PackageName(component string) string {
	return c.Prefix + "-" + component
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Prefix:  "php-zts",
		Formats: []Format{FormatRPM, FormatDEB},
		Paths: PathsConfig{
			BuildRoot:  "buildroot",
			Ini:        "config",
			Dist:       "dist",
			Temp:       "temp",
			Craft:      "config/craft.yml",
			Catalog:    "config/ext.json",
			FrankenPHP: "config/frankenphp",
		},
		Install: InstallConfig{
			BinDir:     "/usr/bin",
			LibDir:     "/usr/lib64",
			IniDir:     "/etc/php-zts.d",
			PHPIni:     "/etc/php-zts.ini",
			ModulesDir: "/usr/lib64/php-zts/modules",
			IncludeDir: "/usr/include/php-zts/php",
			ShareDir:   "/usr/share/php-zts",
			FPMConfig:  "/etc/php-zts-fpm.conf",
			FPMPoolDir: "/etc/php-zts-fpm.d",
			StateDir:   "/var/lib/php-zts",
		},
		Tools: ToolsConfig{
			FPM:   "fpm",
			LDD:   "ldd",
			Uname: "uname",
			Arch:  "arch",
		},
		Package: PackageConfig{
			License:     "MIT",
			Compression: "xz",
			RPM: FormatMetadata{
				Maintainer: "Static PHP <rpms@static-php.dev>",
				Vendor:     "Static PHP <rpms@static-php.dev>",
				URL:        "https://rpms.static-php.dev",
			},
			DEB: FormatMetadata{
				Maintainer: "Static PHP <debs@static-php.dev>",
				Vendor:     "Static PHP <debs@static-php.dev>",
				URL:        "https://debs.static-php.dev",
			},
		},
		LoadOrder: LoadOrderConfig{
			Strategy: LoadOrderTiered,
			Early:    []string{"xdebug", "ddtrace"},
			Filler:   "z",
		},
		Dependencies: DependenciesConfig{
			SuggestionsInDepends:   false,
			SuggestionsInLoadOrder: true,
		},
	}
}
