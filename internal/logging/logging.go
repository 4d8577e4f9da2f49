// SPDX-License-Identifier: MPL-2.0

// Package logging builds the slog.Logger shared by every packaging component.
// Records are rendered by charmbracelet/log so warnings about skipped files
// and components read the same as the rest of the CLI output.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// Prefix is printed before every record, e.g. "spp".
	Prefix string
	// Timestamps adds a time column.
	Timestamps bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          opts.Prefix,
		Level:           level,
		ReportTimestamp: opts.Timestamps,
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
