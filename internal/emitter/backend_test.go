// SPDX-License-Identifier: MPL-2.0

package emitter

import (
	"testing"

	"github.com/static-php/spc-packages/internal/config"
	"github.com/static-php/spc-packages/internal/ldd"
	"github.com/static-php/spc-packages/internal/manifest"
	"github.com/static-php/spc-packages/internal/testutil"

	"github.com/google/go-cmp/cmp"
)

var testPackage = config.PackageConfig{
	License:     "MIT",
	Compression: "xz",
	RPM:         config.FormatMetadata{Maintainer: "M <rpm@x>", Vendor: "V <rpm@x>", URL: "https://rpm.x"},
	DEB:         config.FormatMetadata{Maintainer: "M <deb@x>", Vendor: "V <deb@x>", URL: "https://deb.x"},
}

func embedManifest() *manifest.Manifest {
	return manifest.NewBuilder("php-zts-embed", "8.4.12", "x86_64").
		Provide("libphp-zts-84.so").
		Replace("php-embed").
		Depend("php-zts-cli", "libgomp.so.1").
		Libraries(
			ldd.Requirement{Library: "libc.so.6", Token: "GLIBC_2.34", MinVersion: "2.34"},
			ldd.Requirement{Library: "libm.so.6", Token: "GLIBC_2.34", MinVersion: "2.34"},
			ldd.Requirement{Library: "libzstd.so.1", Token: "ZSTD_1.5", MinVersion: "1.5"},
		).
		ConfigFile("/etc/php-zts.ini").
		Directory("/usr/lib64").
		EmptyDirectory("/var/lib/php-zts").
		File("/build/lib/libphp.so", "/usr/lib64/libphp-zts-84.so").
		Scripts(config.FormatRPM, manifest.Scripts{AfterInstall: "/tmp/post.sh"}).
		Extra(config.FormatRPM, "--rpm-user", "php").
		Build()
}

func plan(m *manifest.Manifest) Plan {
	return Plan{
		Manifest:  m,
		Iteration: 3,
		Files:     m.Files,
		EmptyDir:  "/tmp/spp_empty",
		OutputDir: "/dist/out",
	}
}

func TestRPM_Args(t *testing.T) {
	t.Parallel()

	got := RPM{Package: testPackage}.Args(plan(embedManifest()))
	want := []string{
		"-s", "dir", "-t", "rpm", "--rpm-compression", "xz", "-p", "/dist/out",
		"--name", "php-zts-embed", "--version", "8.4.12",
		"--iteration", "3", "--architecture", "x86_64",
		"--description", "Static PHP Package for php-zts-embed",
		"--license", "MIT", "--maintainer", "M <rpm@x>", "--vendor", "V <rpm@x>", "--url", "https://rpm.x",
		"--rpm-user", "php",
		"--provides", "libphp-zts-84.so = 8.4.12-3",
		"--provides", "libphp-zts-84.so()(64bit) = 8.4.12-3",
		"--replaces", "php-embed < 8.4.12-3",
		"--depends", "libc.so.6(GLIBC_2.34)(64bit)",
		"--depends", "libm.so.6(GLIBC_2.34)(64bit)",
		"--depends", "libzstd.so.1(ZSTD_1.5)(64bit)",
		"--depends", "php-zts-cli",
		"--depends", "libgomp.so.1()(64bit)",
		"--directories", "/usr/lib64",
		"--config-files", "/etc/php-zts.ini",
		"--after-install", "/tmp/post.sh",
		"/build/lib/libphp.so=/usr/lib64/libphp-zts-84.so",
		"/tmp/spp_empty=/var/lib/php-zts",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RPM args mismatch (-want +got):\n%s", diff)
	}
}

func TestDEB_Args(t *testing.T) {
	t.Parallel()

	got := DEB{Package: testPackage}.Args(plan(embedManifest()))
	want := []string{
		"-s", "dir", "-t", "deb", "--deb-compression", "xz", "-p", "/dist/out",
		"--name", "php-zts-embed", "--version", "8.4.12",
		"--architecture", "x86_64", "--iteration", "3",
		"--description", "Static PHP Package for php-zts-embed",
		"--license", "MIT", "--maintainer", "M <deb@x>", "--vendor", "V <deb@x>", "--url", "https://deb.x",
		"--provides", "libphp-zts-84.so (= 8.4.12-3)",
		"--replaces", "php-embed (<= 8.4.12-3)",
		"--depends", "libc6 (>= 2.34)",
		"--depends", "libzstd (>= 1.5)",
		"--depends", "php-zts-cli",
		"--depends", "libgomp.so.1",
		"--directories", "/usr/lib64",
		"--config-files", "/etc/php-zts.ini",
		"--deb-no-default-config-files",
		"/build/lib/libphp.so=/usr/lib64/libphp-zts-84.so",
		"/tmp/spp_empty=/var/lib/php-zts",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DEB args mismatch (-want +got):\n%s", diff)
	}
}

func TestDEB_VersionSuffixAndMeta(t *testing.T) {
	t.Parallel()

	m := manifest.NewBuilder("php-zts-xdebug", "3.4.5_84", "x86_64").
		SetMeta(manifest.Meta{Description: "Debugger", Category: "Development/Tools", License: "Xdebug-1.03"}).
		Build()

	got := DEB{Package: testPackage}.Args(Plan{Manifest: m, Iteration: 1, OutputDir: "/d"})
	for _, pair := range [][2]string{
		{"--version", "3.4.5"},
		{"--description", "Debugger"},
		{"--license", "Xdebug-1.03"},
		{"--category", "Development/Tools"},
	} {
		if !testutil.HasArgPair(got, pair[0], pair[1]) {
			t.Errorf("DEB args missing %s %s: %v", pair[0], pair[1], got)
		}
	}

	rpm := RPM{Package: testPackage}.Args(Plan{Manifest: m, Iteration: 1, OutputDir: "/d"})
	if !testutil.HasArgPair(rpm, "--version", "3.4.5_84") {
		t.Errorf("RPM keeps the series suffix: %v", rpm)
	}
}

func TestDebPackage(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"libc.so.6":       "libc6",
		"libstdc++.so.6":  "libstdc++6",
		"libgcc_s.so.1":   "libgcc-s1",
		"libzstd.so.1":    "libzstd",
		"libfoo.so":       "libfoo",
		"libbar.so.1.2.3": "libbar.so.1.2.3",
	}
	for in, want := range tests {
		if got := debPackage(in); got != want {
			t.Errorf("debPackage(%q) = %q, want %q", in, got, want)
		}
	}
}
