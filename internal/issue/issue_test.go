// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
	seen := make(map[Id]bool)
	for _, i := range Values() {
		if seen[i.Id()] {
			t.Errorf("duplicate ID: %d", i.Id())
		}
		seen[i.Id()] = true
	}
	if len(seen) != int(ProbeFailedId) {
		t.Errorf("registered %d issues, want %d", len(seen), ProbeFailedId)
	}
}

func TestValues_SortedById(t *testing.T) {
	t.Parallel()

	vals := Values()
	for n := 1; n < len(vals); n++ {
		if vals[n-1].Id() >= vals[n].Id() {
			t.Fatalf("Values() not sorted at %d: %d >= %d", n, vals[n-1].Id(), vals[n].Id())
		}
	}
}

func TestIssue_DocLinksNeverEmpty(t *testing.T) {
	t.Parallel()

	for _, i := range Values() {
		if len(i.DocLinks()) == 0 {
			t.Errorf("issue %d has no doc links", i.Id())
		}
	}
}

func TestIssue_DocLinksIsClone(t *testing.T) {
	t.Parallel()

	i := Get(PackagerNotFoundId)
	links := i.DocLinks()
	links[0] = "changed"
	if i.DocLinks()[0] == "changed" {
		t.Error("DocLinks() should return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(BinaryInspectionFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "inspect the runtime binary") {
		t.Errorf("Render() missing title, got:\n%s", out)
	}
	if !strings.Contains(out, "See also") {
		t.Errorf("Render() missing links section, got:\n%s", out)
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if got := Get(Id(999)); got != nil {
		t.Errorf("Get(999) = %v, want nil", got)
	}
}
