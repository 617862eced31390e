package main

import (
	"strings"
	"testing"
)

func TestTableStyleFollowsTerminal(t *testing.T) {
	if got := tableStyle(true).Name; got != "StyleRounded" {
		t.Fatalf("terminal style: got %s", got)
	}
	if got := tableStyle(false).Name; got != "StyleDefault" {
		t.Fatalf("piped style: got %s", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Reel", "Frames"},
		[][]string{{"0", "24"}, {"1"}},
		[]columnAlignment{alignRight, alignRight},
	)
	for _, want := range []string{"Reel", "Frames", "24"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output for a headerless table")
	}
}
