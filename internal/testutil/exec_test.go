// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestHelperProcess(t *testing.T) { HelperProcess() }

func TestMockCommandRecorder_Output(t *testing.T) {
	t.Parallel()

	rec := NewMockCommandRecorder().On("uname", Response{Stdout: "aarch64\n"})
	cmd := rec.ContextCommandFunc(t)(context.Background(), "/usr/bin/uname", "-m")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stdout.String() != "aarch64\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	rec.AssertInvocationCount(t, 1)
	rec.AssertArgsContain(t, "-m")
}

func TestMockCommandRecorder_ExitCodeAndTouch(t *testing.T) {
	t.Parallel()

	artifact := filepath.Join(t.TempDir(), "out", "pkg.rpm")
	rec := NewMockCommandRecorder()
	rec.Respond = func(_ string, args []string) (Response, bool) {
		if HasArgPair(args, "-t", "rpm") {
			return Response{ExitCode: 3, Touch: []string{artifact}}, true
		}
		return Response{}, false
	}

	err := rec.ContextCommandFunc(t)(context.Background(), "fpm", "-t", "rpm").Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("Run() error = %v, want exit code 3", err)
	}
	if got := MustReadFile(t, artifact); got != "" {
		t.Errorf("artifact content = %q", got)
	}

	if err := rec.ContextCommandFunc(t)(context.Background(), "fpm", "-t", "deb").Run(); err != nil {
		t.Errorf("deb Run() error = %v", err)
	}
	if n := len(rec.CallsTo("fpm")); n != 2 {
		t.Errorf("CallsTo(fpm) = %d, want 2", n)
	}
}
