// SPDX-License-Identifier: MPL-2.0

package ldd

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Requirement is the minimum version of one library the binary needs.
type Requirement struct {
	// Library is the shared-object name, e.g. "libc.so.6".
	Library string
	// Token is the raw symbol-version token, e.g. "GLIBC_2.34".
	Token string
	// MinVersion is the dotted numeric part of Token, e.g. "2.34".
	MinVersion string
}

// versionLine is one "<library> (<token>) => <path>" entry.
type versionLine struct {
	Library string `parser:"@Name"`
	Token   string `parser:"'(' @Name ')'"`
	Path    string `parser:"'=>' @Path"`
}

var (
	lineLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Path", Pattern: `/\S*`},
		{Name: "Arrow", Pattern: `=>`},
		{Name: "Name", Pattern: `[\w.+\-]+`},
		{Name: "Punct", Pattern: `[()]`},
		{Name: "Whitespace", Pattern: `[ \t]+`},
	})

	lineParser = participle.MustBuild[versionLine](
		participle.Lexer(lineLexer),
		participle.Elide("Whitespace"),
	)

	dottedNumber = regexp.MustCompile(`\d+(\.\d+)+`)
	objectHeader = regexp.MustCompile(`^\s*/\S*:\s*$`)
)

// Parse extracts requirements from `ldd -v <binary>` output, in the order
// each library is first seen. Output without a header for binary yields no
// requirements.
func Parse(output, binary string) []Requirement {
	section, ok := binarySection(output, binary)
	if !ok {
		return nil
	}

	var reqs []Requirement
	index := make(map[string]int)
	for _, raw := range section {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		parsed, err := lineParser.ParseString("", line)
		if err != nil {
			continue
		}
		version := dottedNumber.FindString(parsed.Token)
		if version == "" {
			continue
		}

		req := Requirement{Library: parsed.Library, Token: parsed.Token, MinVersion: version}
		if i, seen := index[req.Library]; seen {
			if compareVersions(version, reqs[i].MinVersion) > 0 {
				reqs[i] = req
			}
			continue
		}
		index[req.Library] = len(reqs)
		reqs = append(reqs, req)
	}
	return reqs
}

// binarySection returns the lines after "<binary>:" up to the next object
// header.
func binarySection(output, binary string) ([]string, bool) {
	lines := strings.Split(output, "\n")
	header := binary + ":"
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == header {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if objectHeader.MatchString(lines[i]) {
			end = i
			break
		}
	}
	return lines[start:end], true
}

// compareVersions orders dotted numeric strings. Versions semver accepts are
// compared by it; anything longer falls back to a segment-wise comparison.
func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}

	sa, sb := strings.Split(a, "."), strings.Split(b, ".")
	for i := range max(len(sa), len(sb)) {
		na, nb := segment(sa, i), segment(sb, i)
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return 0
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, _ := strconv.Atoi(parts[i])
	return n
}
