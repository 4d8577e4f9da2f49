// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"
)

// GenerateCUE renders cfg as a CUE document accepted by the schema.
// Empty optional strings are omitted.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// spp configuration file\n")
	sb.WriteString("// Relative paths are resolved against the directory spp runs in.\n\n")

	fmt.Fprintf(&sb, "prefix: %q\n", cfg.Prefix)
	if cfg.PHPVersion != "" {
		fmt.Fprintf(&sb, "php_version: %q\n", cfg.PHPVersion)
	}
	formats := make([]string, len(cfg.Formats))
	for i, f := range cfg.Formats {
		formats[i] = fmt.Sprintf("%q", f)
	}
	fmt.Fprintf(&sb, "formats: [%s]\n", strings.Join(formats, ", "))
	if cfg.Iteration > 0 {
		fmt.Fprintf(&sb, "iteration: %d\n", cfg.Iteration)
	}

	block(&sb, "paths", [][2]string{
		{"build_root", cfg.Paths.BuildRoot},
		{"bin", cfg.Paths.Bin},
		{"lib", cfg.Paths.Lib},
		{"include", cfg.Paths.Include},
		{"modules", cfg.Paths.Modules},
		{"share", cfg.Paths.Share},
		{"ini", cfg.Paths.Ini},
		{"dist", cfg.Paths.Dist},
		{"dist_rpm", cfg.Paths.DistRPM},
		{"dist_deb", cfg.Paths.DistDEB},
		{"temp", cfg.Paths.Temp},
		{"craft", cfg.Paths.Craft},
		{"catalog", cfg.Paths.Catalog},
		{"frankenphp", cfg.Paths.FrankenPHP},
	})
	block(&sb, "install", [][2]string{
		{"bin_dir", cfg.Install.BinDir},
		{"lib_dir", cfg.Install.LibDir},
		{"ini_dir", cfg.Install.IniDir},
		{"php_ini", cfg.Install.PHPIni},
		{"modules_dir", cfg.Install.ModulesDir},
		{"include_dir", cfg.Install.IncludeDir},
		{"share_dir", cfg.Install.ShareDir},
		{"fpm_config", cfg.Install.FPMConfig},
		{"fpm_pool_dir", cfg.Install.FPMPoolDir},
		{"state_dir", cfg.Install.StateDir},
	})
	block(&sb, "tools", [][2]string{
		{"fpm", cfg.Tools.FPM},
		{"ldd", cfg.Tools.LDD},
		{"uname", cfg.Tools.Uname},
		{"arch", cfg.Tools.Arch},
		{"php", cfg.Tools.PHP},
	})

	sb.WriteString("\npackage: {\n")
	fmt.Fprintf(&sb, "\tlicense: %q\n", cfg.Package.License)
	fmt.Fprintf(&sb, "\tcompression: %q\n", cfg.Package.Compression)
	for _, f := range []struct {
		key  string
		meta FormatMetadata
	}{{"rpm", cfg.Package.RPM}, {"deb", cfg.Package.DEB}} {
		fmt.Fprintf(&sb, "\t%s: {maintainer: %q, vendor: %q, url: %q}\n", f.key, f.meta.Maintainer, f.meta.Vendor, f.meta.URL)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nload_order: {\n")
	fmt.Fprintf(&sb, "\tstrategy: %q\n", cfg.LoadOrder.Strategy)
	early := make([]string, len(cfg.LoadOrder.Early))
	for i, e := range cfg.LoadOrder.Early {
		early[i] = fmt.Sprintf("%q", e)
	}
	fmt.Fprintf(&sb, "\tearly: [%s]\n", strings.Join(early, ", "))
	fmt.Fprintf(&sb, "\tfiller: %q\n", cfg.LoadOrder.Filler)
	sb.WriteString("}\n")

	sb.WriteString("\ndependencies: {\n")
	fmt.Fprintf(&sb, "\tsuggestions_in_depends: %v\n", cfg.Dependencies.SuggestionsInDepends)
	fmt.Fprintf(&sb, "\tsuggestions_in_load_order: %v\n", cfg.Dependencies.SuggestionsInLoadOrder)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nui: verbose: %v\n", cfg.UI.Verbose)
	if cfg.Metrics.Textfile != "" {
		fmt.Fprintf(&sb, "metrics: textfile: %q\n", cfg.Metrics.Textfile)
	}
	if cfg.Report.Path != "" || cfg.Report.Disable {
		fmt.Fprintf(&sb, "report: {path: %q, disable: %v}\n", cfg.Report.Path, cfg.Report.Disable)
	}

	return sb.String()
}

func block(sb *strings.Builder, name string, fields [][2]string) {
	fmt.Fprintf(sb, "\n%s: {\n", name)
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		fmt.Fprintf(sb, "\t%s: %q\n", f[0], f[1])
	}
	sb.WriteString("}\n")
}
