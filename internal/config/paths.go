// SPDX-License-Identifier: MPL-2.0

package config

import "path/filepath"

// BinDir is where the built runtime binaries live.
func (p PathsConfig) BinDir() string { return orJoin(p.Bin, p.BuildRoot, "bin") }

// LibDir is where the built shared libraries live.
func (p PathsConfig) LibDir() string { return orJoin(p.Lib, p.BuildRoot, "lib") }

// IncludeDir is the staged header tree.
func (p PathsConfig) IncludeDir() string { return orJoin(p.Include, p.BuildRoot, "include") }

// ModulesDir holds the built shared modules (<name>.so).
func (p PathsConfig) ModulesDir() string { return orJoin(p.Modules, p.BuildRoot, "modules") }

// ShareDir holds architecture-independent build outputs.
func (p PathsConfig) ShareDir() string { return orJoin(p.Share, p.BuildRoot, "share") }

// ExtensionIniDir holds one <name>.ini template per module.
func (p PathsConfig) ExtensionIniDir() string { return filepath.Join(p.Ini, "extension") }

// RPMDir is the RPM output directory.
func (p PathsConfig) RPMDir() string { return orJoin(p.DistRPM, p.Dist, "rpm") }

// DEBDir is the Debian output directory.
func (p PathsConfig) DEBDir() string { return orJoin(p.DistDEB, p.Dist, "deb") }

// DistDir returns the output directory for f.
func (p PathsConfig) DistDir(f Format) string {
	if f == FormatDEB {
		return p.DEBDir()
	}
	return p.RPMDir()
}

// PHPBinary is the runtime binary used for probes and library extraction.
func (c *Config) PHPBinary() string {
	if c.Tools.PHP != "" {
		return c.Tools.PHP
	}
	return filepath.Join(c.Paths.BinDir(), "php")
}

// ReportPath is where the run report is written.
func (c *Config) ReportPath() string {
	if c.Report.Path != "" {
		return c.Report.Path
	}
	return filepath.Join(c.Paths.Dist, "spp-report.toml")
}

// ResolvePaths makes every relative entry in Paths absolute against base.
func (c *Config) ResolvePaths(base string) {
	for _, p := range []*string{
		&c.Paths.BuildRoot, &c.Paths.Bin, &c.Paths.Lib, &c.Paths.Include,
		&c.Paths.Modules, &c.Paths.Share, &c.Paths.Ini, &c.Paths.Dist,
		&c.Paths.DistRPM, &c.Paths.DistDEB, &c.Paths.Temp, &c.Paths.Craft,
		&c.Paths.Catalog, &c.Paths.FrankenPHP, &c.Report.Path, &c.Metrics.Textfile,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func orJoin(explicit, root, leaf string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(root, leaf)
}
