// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrInvalidScript is returned for maintainer scripts that do not parse.
var ErrInvalidScript = errors.New("invalid maintainer script")

// ValidateScript parses a POSIX shell maintainer script.
func ValidateScript(name string, data []byte) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(bytes.NewReader(data), name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	return nil
}

// linkScript renders a post-install script pointing link at target.
func linkScript(target, link string) (string, error) {
	qt, err := syntax.Quote(target, syntax.LangPOSIX)
	if err != nil {
		return "", err
	}
	ql, err := syntax.Quote(link, syntax.LangPOSIX)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("set -e\n")
	fmt.Fprintf(&sb, "rm -f %s\n", ql)
	fmt.Fprintf(&sb, "ln -sf %s %s\n", qt, ql)
	script := sb.String()
	if err := ValidateScript("postinstall", []byte(script)); err != nil {
		return "", err
	}
	return script, nil
}

// collectScripts resolves the file names in want against dir. Missing
// scripts are dropped with a warning; present ones must parse.
func collectScripts(env *Env, dir string, want Scripts) (Scripts, error) {
	var out Scripts
	for _, slot := range []struct {
		name string
		dst  *string
	}{
		{want.BeforeInstall, &out.BeforeInstall},
		{want.AfterInstall, &out.AfterInstall},
		{want.BeforeRemove, &out.BeforeRemove},
		{want.AfterRemove, &out.AfterRemove},
	} {
		if slot.name == "" {
			continue
		}
		path := filepath.Join(dir, slot.name)
		data, err := os.ReadFile(path)
		if err != nil {
			env.Logger.Warn("maintainer script not found", "component", env.Component, "path", path)
			continue
		}
		if err := ValidateScript(path, data); err != nil {
			return Scripts{}, err
		}
		*slot.dst = path
	}
	return out, nil
}
