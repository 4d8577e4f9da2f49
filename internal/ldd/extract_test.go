// SPDX-License-Identifier: MPL-2.0

package ldd

import (
	"context"
	"errors"
	"testing"

	"github.com/static-php/spc-packages/internal/command"
	"github.com/static-php/spc-packages/internal/logging"
	"github.com/static-php/spc-packages/internal/testutil"
)

func TestHelperProcess(t *testing.T) { testutil.HelperProcess() }

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	rec := testutil.NewMockCommandRecorder().On("ldd", testutil.Response{Stdout: sampleOutput})
	x := NewExtractor(command.NewRunner(command.WithExecCommand(rec.ContextCommandFunc(t))), "ldd", logging.Discard())

	reqs, err := x.Extract(context.Background(), "/build/bin/php")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(reqs) != 4 {
		t.Errorf("Extract() returned %d requirements, want 4", len(reqs))
	}
	calls := rec.CallsTo("ldd")
	if len(calls) != 1 || !testutil.HasArgPair(calls[0].Args, "-v", "/build/bin/php") {
		t.Errorf("unexpected ldd invocations: %+v", calls)
	}
}

func TestExtractor_Failure(t *testing.T) {
	t.Parallel()

	rec := testutil.NewMockCommandRecorder().On("ldd", testutil.Response{Stderr: "not a dynamic executable", ExitCode: 1})
	x := NewExtractor(command.NewRunner(command.WithExecCommand(rec.ContextCommandFunc(t))), "ldd", logging.Discard())

	_, err := x.Extract(context.Background(), "/build/bin/php")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("Extract() error = %v, want ErrExtraction", err)
	}
	var exitErr *command.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode != 1 {
		t.Errorf("Extract() should wrap the exit error, got %v", err)
	}
}

func TestExtractor_ToolMissing(t *testing.T) {
	t.Parallel()

	x := NewExtractor(command.NewRunner(), "spp-no-such-ldd", logging.Discard())
	_, err := x.Extract(context.Background(), "/build/bin/php")
	if !errors.Is(err, ErrExtraction) || !errors.Is(err, command.ErrNotFound) {
		t.Errorf("Extract() error = %v, want ErrExtraction wrapping ErrNotFound", err)
	}
}
