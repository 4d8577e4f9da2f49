// SPDX-License-Identifier: MPL-2.0

package ldd

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcexec "github.com/testcontainers/testcontainers-go/exec"
)

// checkTestcontainersAvailable safely checks if testcontainers can be used.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

// TestParse_RealLdd feeds the output of a real glibc ldd to the parser.
func TestParse_RealLdd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping integration test: testcontainers provider not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image: "debian:stable-slim",
			Cmd:   []string{"sleep", "300"},
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}

	const binary = "/usr/bin/bash"
	code, reader, err := ctr.Exec(ctx, []string{"ldd", "-v", binary}, tcexec.Multiplexed())
	if err != nil {
		t.Fatalf("exec ldd: %v", err)
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read ldd output: %v", err)
	}
	if code != 0 {
		t.Fatalf("ldd exited %d: %s", code, out)
	}

	reqs := Parse(string(out), binary)
	var libc *Requirement
	for i := range reqs {
		if reqs[i].Library == "libc.so.6" {
			libc = &reqs[i]
		}
		if reqs[i].MinVersion == "" {
			t.Errorf("requirement %+v has no version", reqs[i])
		}
	}
	if libc == nil {
		t.Fatalf("libc.so.6 missing from %+v", reqs)
	}
	if compareVersions(libc.MinVersion, "2.2.5") < 0 {
		t.Errorf("libc minimum version %q is implausibly low", libc.MinVersion)
	}
}
