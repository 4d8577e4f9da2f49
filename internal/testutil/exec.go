// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const helperEnv = "GO_WANT_HELPER_PROCESS"

type (
	// Response is the scripted behavior of one mocked command.
	Response struct {
		Stdout   string
		Stderr   string
		ExitCode int
		// Touch lists files the helper process creates before exiting, e.g.
		// the artifact a packaging backend would write.
		Touch []string
	}

	// MockCommandRecorder captures arguments passed to exec.Command for
	// verification. It uses the TestHelperProcess pattern: every recorded
	// command re-executes the test binary, which prints the scripted
	// Response and exits with its code.
	MockCommandRecorder struct {
		mu sync.Mutex
		// Invocations records each call, in order.
		Invocations []MockInvocation
		// Default is used when neither Respond nor Responses match.
		Default Response
		// Responses maps a command base name (e.g. "ldd") to its response.
		Responses map[string]Response
		// Respond, when set, takes precedence and may inspect the arguments.
		Respond func(name string, args []string) (Response, bool)
	}

	// MockInvocation represents a single invocation of exec.Command.
	MockInvocation struct {
		Name string
		Args []string
	}
)

// NewMockCommandRecorder creates a recorder whose commands succeed silently.
func NewMockCommandRecorder() *MockCommandRecorder {
	return &MockCommandRecorder{Responses: make(map[string]Response)}
}

// On scripts the response for every command whose base name is name.
func (m *MockCommandRecorder) On(name string, r Response) *MockCommandRecorder {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[name] = r
	return m
}

// ContextCommandFunc returns a replacement for exec.CommandContext.
func (m *MockCommandRecorder) ContextCommandFunc(t testing.TB) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		resp := m.record(name, args)

		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			helperEnv + "=1",
			"GO_HELPER_EXIT_CODE=" + strconv.Itoa(resp.ExitCode),
			"GO_HELPER_STDOUT=" + resp.Stdout,
			"GO_HELPER_STDERR=" + resp.Stderr,
			"GO_HELPER_TOUCH=" + strings.Join(resp.Touch, string(os.PathListSeparator)),
		}
		return cmd
	}
}

func (m *MockCommandRecorder) record(name string, args []string) Response {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Invocations = append(m.Invocations, MockInvocation{Name: name, Args: slices.Clone(args)})

	if m.Respond != nil {
		if r, ok := m.Respond(name, args); ok {
			return r
		}
	}
	if r, ok := m.Responses[filepath.Base(name)]; ok {
		return r
	}
	return m.Default
}

// Calls returns a snapshot of all invocations.
func (m *MockCommandRecorder) Calls() []MockInvocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.Invocations)
}

// CallsTo returns the invocations whose base name is name.
func (m *MockCommandRecorder) CallsTo(name string) []MockInvocation {
	var out []MockInvocation
	for _, inv := range m.Calls() {
		if filepath.Base(inv.Name) == name {
			out = append(out, inv)
		}
	}
	return out
}

// LastArgs returns the arguments from the most recent invocation.
func (m *MockCommandRecorder) LastArgs() []string {
	calls := m.Calls()
	if len(calls) == 0 {
		return nil
	}
	return calls[len(calls)-1].Args
}

// AssertInvocationCount verifies the number of command invocations.
func (m *MockCommandRecorder) AssertInvocationCount(t testing.TB, expected int) {
	t.Helper()
	if got := len(m.Calls()); got != expected {
		t.Errorf("expected %d invocations, got %d", expected, got)
	}
}

// AssertArgsContain verifies that the last invocation args contain the expected string.
func (m *MockCommandRecorder) AssertArgsContain(t testing.TB, expected string) {
	t.Helper()
	args := m.LastArgs()
	if !strings.Contains(strings.Join(args, " "), expected) {
		t.Errorf("expected args to contain %q, got: %v", expected, args)
	}
}

// HasArgPair reports whether args contain flag immediately followed by value.
func HasArgPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// HelperProcess implements the child side of MockCommandRecorder. Each test
// package using the recorder declares
//
//	func TestHelperProcess(t *testing.T) { testutil.HelperProcess() }
//
// It returns immediately unless invoked by the recorder.
func HelperProcess() {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	for _, path := range filepath.SplitList(os.Getenv("GO_HELPER_TOUCH")) {
		if path == "" {
			continue
		}
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
		_ = os.WriteFile(path, nil, 0o644)
	}

	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv("GO_HELPER_STDERR"); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	exitCode, _ := strconv.Atoi(os.Getenv("GO_HELPER_EXIT_CODE"))
	os.Exit(exitCode)
}
