// SPDX-License-Identifier: MPL-2.0

// Package command runs the external tools the packager depends on (ldd, php,
// uname, fpm). All calls are synchronous and unbounded in time; callers pass a
// context only so a process-level interrupt reaches the child.
package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrNotFound is returned (wrapped) when the executable cannot be started.
var ErrNotFound = exec.ErrNotFound

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures a Runner.
	Option func(*Runner)

	// Runner creates and runs external commands.
	Runner struct {
		execCommand ExecCommandFunc
	}

	// Result is the captured output of a finished command.
	Result struct {
		Stdout   string
		Stderr   string
		ExitCode int
	}

	// ExitError reports a command that started but exited non-zero.
	ExitError struct {
		Command  string
		ExitCode int
		Stderr   string
		Cause    error
	}
)

// WithExecCommand overrides the exec.Cmd factory.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(r *Runner) { r.execCommand = fn }
}

// NewRunner creates a Runner backed by exec.CommandContext unless overridden.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{execCommand: exec.CommandContext}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// Output runs name with args and captures stdout and stderr. A non-zero exit
// yields *ExitError alongside the captured Result.
func (r *Runner) Output(ctx context.Context, env []string, name string, args ...string) (Result, error) {
	cmd := r.create(ctx, env, name, args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		return r.classify(res, name, err)
	}
	return res, nil
}

// Stream runs name with args and copies its combined output to w line by line
// as it is produced.
func (r *Runner) Stream(ctx context.Context, w io.Writer, env []string, name string, args ...string) error {
	cmd := r.create(ctx, env, name, args)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	var tail tailBuffer
	cmd.Stderr = io.MultiWriter(pw, &tail)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(pr)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			fmt.Fprintln(w, sc.Text())
		}
		_, _ = io.Copy(io.Discard, pr)
	}()

	err := cmd.Run()
	_ = pw.Close()
	<-done

	if err != nil {
		_, cerr := r.classify(Result{Stderr: tail.String()}, name, err)
		return cerr
	}
	return nil
}

func (r *Runner) create(ctx context.Context, env []string, name string, args []string) *exec.Cmd {
	cmd := r.execCommand(ctx, name, args...)
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), env...)
	}
	return cmd
}

func (r *Runner) classify(res Result, name string, err error) (Result, error) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ExitError{Command: name, ExitCode: res.ExitCode, Stderr: res.Stderr, Cause: err}
	}
	res.ExitCode = -1
	return res, fmt.Errorf("start %s: %w", name, err)
}

// tailBuffer keeps the last few KiB written to it, enough for an error message.
type tailBuffer struct {
	buf []byte
}

const tailLimit = 4096

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > tailLimit {
		t.buf = t.buf[len(t.buf)-tailLimit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
