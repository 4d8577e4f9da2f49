// SPDX-License-Identifier: MPL-2.0

package emitter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/iteration"
	"github.com/static-php/spc-packages/internal/manifest"
)

type (
	// Plan is everything a backend needs to build its argument list.
	Plan struct {
		Manifest  *manifest.Manifest
		Iteration int
		// Files are the mappings whose sources exist, in manifest order.
		Files []manifest.Mapping
		// EmptyDir is the staging directory mapped onto every empty directory.
		EmptyDir string
		// OutputDir is where the artifact is written.
		OutputDir string
	}

	// Backend maps a Plan to the packaging tool's arguments.
	Backend interface {
		Format() config.Format
		Args(p Plan) []string
	}

	// RPM is the RPM backend.
	RPM struct {
		Package config.PackageConfig
	}

	// DEB is the Debian backend.
	DEB struct {
		Package config.PackageConfig
	}

	argList []string
)

var sharedObject = regexp.MustCompile(`\.so(\.\d+)*$`)

// systemLibraries maps glibc and toolchain runtime sonames to the Debian
// packages that own them.
var systemLibraries = map[string]string{
	"ld-linux-x86-64.so.2":  "libc6",
	"ld-linux-aarch64.so.1": "libc6",
	"libm.so.6":             "libc6",
	"libc.so.6":             "libc6",
	"libpthread.so.0":       "libc6",
	"libutil.so.1":          "libc6",
	"libdl.so.2":            "libc6",
	"librt.so.1":            "libc6",
	"libresolv.so.2":        "libc6",
	"libgcc_s.so.1":         "libgcc-s1",
	"libstdc++.so.6":        "libstdc++6",
}

var debSoSuffix = regexp.MustCompile(`\.so(\.\d+)?$`)

func (a *argList) add(args ...string) { *a = append(*a, args...) }

func (a *argList) repeat(flag string, values []string) {
	for _, v := range values {
		a.add(flag, v)
	}
}

// header appends the fixed package header and the manifest's extra args.
func (a *argList) header(p Plan, f config.Format, meta config.FormatMetadata, license, compression, version string, archFirst bool) {
	m := p.Manifest
	o := m.Meta
	a.add("-s", "dir", "-t", string(f))
	if compression != "" {
		a.add("--"+string(f)+"-compression", compression)
	}
	a.add("-p", p.OutputDir, "--name", m.Name, "--version", version)
	iter := strconv.Itoa(p.Iteration)
	if archFirst {
		a.add("--architecture", m.Architecture, "--iteration", iter)
	} else {
		a.add("--iteration", iter, "--architecture", m.Architecture)
	}
	a.add(
		"--description", or(o.Description, "Static PHP Package for "+m.Name),
		"--license", or(o.License, license),
		"--maintainer", or(o.Maintainer, meta.Maintainer),
		"--vendor", or(o.Vendor, meta.Vendor),
		"--url", or(o.URL, meta.URL),
	)
	if o.Category != "" {
		a.add("--category", o.Category)
	}
	for _, extra := range m.ExtraArgsFor(f) {
		a.add(extra.Flag)
		if extra.Value != "" {
			a.add(extra.Value)
		}
	}
}

// tail appends maintainer scripts, file mappings and empty directories.
func (a *argList) tail(p Plan, f config.Format) {
	s := p.Manifest.Scripts[f]
	for _, script := range []struct{ flag, path string }{
		{"--before-install", s.BeforeInstall},
		{"--after-install", s.AfterInstall},
		{"--before-remove", s.BeforeRemove},
		{"--after-remove", s.AfterRemove},
	} {
		if script.path != "" {
			a.add(script.flag, script.path)
		}
	}
	for _, fm := range p.Files {
		a.add(fm.Source + "=" + fm.Dest)
	}
	for _, dir := range p.Manifest.EmptyDirectories {
		a.add(p.EmptyDir + "=" + dir)
	}
}

// Format returns config.FormatRPM.
func (RPM) Format() config.Format { return config.FormatRPM }

// Args builds the fpm arguments for an RPM.
func (r RPM) Args(p Plan) []string {
	m := p.Manifest
	full := m.Version + "-" + strconv.Itoa(p.Iteration)

	var a argList
	a.header(p, config.FormatRPM, r.Package.RPM, r.Package.License, r.Package.Compression, m.Version, false)
	for _, rel := range m.Provides {
		v := or(rel.Version, full)
		a.add("--provides", rel.Token+" = "+v)
		if strings.HasSuffix(rel.Token, ".so") {
			a.add("--provides", strings.TrimSuffix(rel.Token, ".so")+".so()(64bit) = "+v)
		}
	}
	for _, rel := range m.Replaces {
		a.add("--replaces", rel.Token+" < "+or(rel.Version, full))
	}
	for _, lib := range m.Libraries {
		a.add("--depends", lib.Library+"("+lib.Token+")(64bit)")
	}
	for _, dep := range m.Depends {
		if sharedObject.MatchString(dep) {
			dep += "()(64bit)"
		}
		a.add("--depends", dep)
	}
	a.repeat("--directories", m.Directories)
	a.repeat("--config-files", m.ConfigFiles)
	a.tail(p, config.FormatRPM)
	return a
}

// Format returns config.FormatDEB.
func (DEB) Format() config.Format { return config.FormatDEB }

// Args builds the fpm arguments for a Debian package.
func (d DEB) Args(p Plan) []string {
	m := p.Manifest
	version := iteration.DebVersion(m.Version)
	full := version + "-" + strconv.Itoa(p.Iteration)

	var a argList
	a.header(p, config.FormatDEB, d.Package.DEB, d.Package.License, d.Package.Compression, version, true)
	for _, rel := range m.Provides {
		a.add("--provides", rel.Token+" (= "+or(rel.Version, full)+")")
	}
	for _, rel := range m.Replaces {
		a.add("--replaces", rel.Token+" (<= "+or(rel.Version, full)+")")
	}
	seen := make(map[string]bool)
	for _, lib := range m.Libraries {
		dep := debPackage(lib.Library) + " (>= " + numeric(lib.MinVersion) + ")"
		if seen[dep] {
			continue
		}
		seen[dep] = true
		a.add("--depends", dep)
	}
	a.repeat("--depends", m.Depends)
	a.repeat("--directories", m.Directories)
	a.repeat("--config-files", m.ConfigFiles)
	a.add("--deb-no-default-config-files")
	a.tail(p, config.FormatDEB)
	return a
}

func debPackage(soname string) string {
	if pkg, ok := systemLibraries[soname]; ok {
		return pkg
	}
	return debSoSuffix.ReplaceAllString(soname, "")
}

func numeric(v string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, v)
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
