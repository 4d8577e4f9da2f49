// SPDX-License-Identifier: MPL-2.0

package ldd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/static-php/spc-packages/internal/command"
)

// ErrExtraction is the sentinel wrapped by ExtractionError.
var ErrExtraction = errors.New("binary dependency inspection failed")

type (
	// ExtractionError reports an inspection tool that could not run or
	// exited non-zero.
	ExtractionError struct {
		Binary string
		Tool   string
		Cause  error
	}

	// Extractor runs the inspection tool.
	Extractor struct {
		runner *command.Runner
		tool   string
		logger *slog.Logger
	}
)

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("inspect %s with %s: %v", e.Binary, e.Tool, e.Cause)
}

// Unwrap exposes ErrExtraction and the underlying cause.
func (e *ExtractionError) Unwrap() []error { return []error{ErrExtraction, e.Cause} }

// NewExtractor creates an Extractor invoking tool (usually "ldd").
func NewExtractor(runner *command.Runner, tool string, logger *slog.Logger) *Extractor {
	return &Extractor{runner: runner, tool: tool, logger: logger}
}

// Extract runs `<tool> -v <binary>` and parses its output.
func (x *Extractor) Extract(ctx context.Context, binary string) ([]Requirement, error) {
	res, err := x.runner.Output(ctx, nil, x.tool, "-v", binary)
	if err != nil {
		return nil, &ExtractionError{Binary: binary, Tool: x.tool, Cause: err}
	}
	reqs := Parse(res.Stdout, binary)
	x.logger.Debug("extracted library requirements", "binary", binary, "count", len(reqs))
	return reqs, nil
}
