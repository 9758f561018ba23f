package cmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errFake = errors.New("fake failure")

func TestParseTaskSpecs(t *testing.T) {
	specs, err := parseTaskSpecs([]string{"lint=go vet ./...", "echo hello"})
	if err != nil {
		t.Fatalf("parseTaskSpecs failed: %v", err)
	}
	want := []taskSpec{
		{Name: "lint", Command: "go vet ./..."},
		{Name: "cmd-2", Command: "echo hello"},
	}
	if diff := cmp.Diff(want, specs); diff != "" {
		t.Errorf("specs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTaskSpecsPreservesEqualsInCommand(t *testing.T) {
	specs, err := parseTaskSpecs([]string{"env=FOO=bar printenv FOO"})
	if err != nil {
		t.Fatalf("parseTaskSpecs failed: %v", err)
	}
	if specs[0].Name != "env" || specs[0].Command != "FOO=bar printenv FOO" {
		t.Errorf("spec = %+v", specs[0])
	}
}

func TestParseTaskSpecsRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"empty name", []string{"=echo hi"}},
		{"empty command", []string{"build="}},
		{"blank", []string{"   "}},
		{"duplicate names", []string{"a=echo 1", "a=echo 2"}},
	}
	for _, tc := range cases {
		if _, err := parseTaskSpecs(tc.args); err == nil {
			t.Errorf("%s: expected error for %v", tc.name, tc.args)
		}
	}
}

func TestFilterTasks(t *testing.T) {
	specs := []taskSpec{
		{Name: "test-unit", Command: "make unit"},
		{Name: "test-e2e", Command: "make e2e"},
		{Name: "build", Command: "make all"},
	}

	kept, err := filterTasks(specs, "test-*")
	if err != nil {
		t.Fatalf("filterTasks failed: %v", err)
	}
	if len(kept) != 2 || kept[0].Name != "test-unit" || kept[1].Name != "test-e2e" {
		t.Errorf("kept = %+v", kept)
	}

	all, err := filterTasks(specs, "")
	if err != nil {
		t.Fatalf("filterTasks with empty pattern failed: %v", err)
	}
	if diff := cmp.Diff(specs, all); diff != "" {
		t.Errorf("empty pattern should keep everything (-want +got):\n%s", diff)
	}

	if _, err := filterTasks(specs, "test-{"); err == nil {
		t.Error("malformed pattern should fail")
	}
}

func TestCollectorRecordsAndTallies(t *testing.T) {
	c := newCollector()
	c.record(runResult{Name: "a"})
	c.record(runResult{Name: "b", Err: errFake})

	if len(c.results) != 2 {
		t.Fatalf("results = %d, want 2", len(c.results))
	}
	if c.tally.passed != 1 || c.tally.failed != 1 || c.tally.timedOut != 0 {
		t.Errorf("tally = %+v", c.tally)
	}
}

func TestRunShell(t *testing.T) {
	if err := runShell("true"); err != nil {
		t.Errorf("runShell(true) = %v", err)
	}
	if err := runShell("echo broken >&2; exit 3"); err == nil {
		t.Error("runShell should surface the exit status")
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("\n  first\nsecond\n"); got != "first" {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("  \n\n"); got != "" {
		t.Errorf("firstLine of blanks = %q", got)
	}
}
