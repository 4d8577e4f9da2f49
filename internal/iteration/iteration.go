// SPDX-License-Identifier: MPL-2.0

// Package iteration allocates package revision numbers by scanning the
// output directories for artifacts already produced. Nothing is persisted:
// the dist directories are the only record.
package iteration

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/static-php/spc-packages/internal/config"
)

// debSuffix is the PHP series suffix ("3.1.2_84") that Debian versions drop.
var debSuffix = regexp.MustCompile(`_\d+$`)

type (
	// Key identifies one logical release.
	Key struct {
		Name         string
		Version      string
		Architecture string
	}

	// Allocator finds the next free revision across output directories.
	Allocator struct {
		dirs     map[config.Format]string
		override int
	}
)

// New creates an Allocator over the given per-format output directories. A
// positive override is returned verbatim and no directory is scanned.
func New(dirs map[config.Format]string, override int) *Allocator {
	return &Allocator{dirs: dirs, override: override}
}

// Next returns one more than the highest revision found for key in any
// output directory, or 1 when none exists.
func (a *Allocator) Next(key Key) (int, error) {
	if a.override > 0 {
		return a.override, nil
	}

	highest := 0
	for _, f := range []config.Format{config.FormatRPM, config.FormatDEB} {
		dir, ok := a.dirs[f]
		if !ok || dir == "" {
			continue
		}
		found, err := scan(os.DirFS(dir), f, key)
		if err != nil {
			return 0, fmt.Errorf("scan %s artifacts in %s: %w", f, dir, err)
		}
		highest = max(highest, found)
	}
	return highest + 1, nil
}

// DebVersion strips the PHP series suffix Debian versions omit.
func DebVersion(version string) string {
	return debSuffix.ReplaceAllString(version, "")
}

// DebArchitecture maps an RPM-style machine name to the Debian one.
func DebArchitecture(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	case "noarch":
		return "all"
	default:
		return arch
	}
}

// ArtifactName returns the file name the backend writes for key at revision.
func ArtifactName(f config.Format, key Key, revision int) string {
	if f == config.FormatDEB {
		return fmt.Sprintf("%s_%s-%d_%s.deb", key.Name, DebVersion(key.Version), revision, DebArchitecture(key.Architecture))
	}
	return fmt.Sprintf("%s-%s-%d.%s.rpm", key.Name, key.Version, revision, key.Architecture)
}

// scan returns the highest revision of key's artifacts in fsys.
func scan(fsys fs.FS, f config.Format, key Key) (int, error) {
	pattern, grammar := naming(f, key)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, m := range matches {
		sub := grammar.FindStringSubmatch(m)
		if sub == nil {
			continue
		}
		n, err := strconv.Atoi(sub[1])
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return highest, nil
}

// naming returns the glob and the exact filename grammar for key under f.
func naming(f config.Format, key Key) (string, *regexp.Regexp) {
	if f == config.FormatDEB {
		name, version, arch := key.Name, DebVersion(key.Version), DebArchitecture(key.Architecture)
		glob := escapeGlob(name+"_"+version+"-") + "*" + escapeGlob("_"+arch+".deb")
		grammar := regexp.MustCompile("^" + regexp.QuoteMeta(name+"_"+version+"-") + `(\d+)` + regexp.QuoteMeta("_"+arch+".deb") + "$")
		return glob, grammar
	}
	name, version, arch := key.Name, key.Version, key.Architecture
	glob := escapeGlob(name+"-"+version+"-") + "*" + escapeGlob("."+arch+".rpm")
	grammar := regexp.MustCompile("^" + regexp.QuoteMeta(name+"-"+version+"-") + `(\d+)` + regexp.QuoteMeta("."+arch+".rpm") + "$")
	return glob, grammar
}

var globMeta = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`)

func escapeGlob(s string) string {
	return globMeta.Replace(s)
}
