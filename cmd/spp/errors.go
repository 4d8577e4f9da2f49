// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/static-php/spc-packages/internal/dag"
	"github.com/static-php/spc-packages/internal/emitter"
	"github.com/static-php/spc-packages/internal/issue"
	"github.com/static-php/spc-packages/internal/ldd"
	"github.com/static-php/spc-packages/internal/manifest"
	"github.com/static-php/spc-packages/internal/probe"
	"github.com/static-php/spc-packages/internal/registry"
)

// issueClasses maps error classes to their catalog entries, in display order.
var issueClasses = []struct {
	is func(error) bool
	id issue.Id
}{
	{func(err error) bool { return errors.Is(err, manifest.ErrUnknownComponent) }, issue.ComponentNotDeclaredId},
	{func(err error) bool { return errors.Is(err, registry.ErrMissingRecord) }, issue.MissingModuleRecordId},
	{func(err error) bool { var c *dag.CycleError; return errors.As(err, &c) }, issue.DependencyCycleId},
	{func(err error) bool { return errors.Is(err, ldd.ErrExtraction) }, issue.BinaryInspectionFailedId},
	{func(err error) bool { return errors.Is(err, probe.ErrProbe) }, issue.ProbeFailedId},
	{func(err error) bool { return errors.Is(err, emitter.ErrPackagerUnavailable) }, issue.PackagerNotFoundId},
	{func(err error) bool { return errors.Is(err, emitter.ErrEmission) }, issue.EmissionFailedId},
}

// issueIDs returns the catalog entries describing err. Joined errors may
// match several; an issue attached to an ActionableError comes first.
func issueIDs(err error) []issue.Id {
	var ids []issue.Id
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		ids = append(ids, ae.Issue)
	}
	for _, c := range issueClasses {
		if c.is(err) && !slices.Contains(ids, c.id) {
			ids = append(ids, c.id)
		}
	}
	return ids
}

// renderIssue writes the catalog entry for id to w.
func renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// fail renders the guidance for err and wraps it for a non-zero exit.
func (a *App) fail(err error, verbose bool) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(a.stderr, ErrorStyle.Render("error: ")+ae.Format(verbose))
	}
	for _, id := range issueIDs(err) {
		renderIssue(a.stderr, id)
	}
	return &ExitError{Code: 1, Err: err}
}
