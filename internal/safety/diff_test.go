package safety

import (
	"fmt"
	"strings"
	"testing"
)

func TestDiffNoChanges(t *testing.T) {
	if got := Diff("same\ncontent\n", "same\ncontent\n"); got != "(no changes)" {
		t.Errorf("Diff = %q", got)
	}
}

func TestDiffMarksChangedLines(t *testing.T) {
	oldText := "a\nb\nc\n"
	newText := "a\nB\nc\n"

	got := Diff(oldText, newText)
	if !strings.Contains(got, "- b") {
		t.Errorf("missing removal marker in:\n%s", got)
	}
	if !strings.Contains(got, "+ B") {
		t.Errorf("missing insertion marker in:\n%s", got)
	}
	if !strings.Contains(got, "  a") || !strings.Contains(got, "  c") {
		t.Errorf("missing context lines in:\n%s", got)
	}
}

func TestDiffTrimsDistantContext(t *testing.T) {
	var before, after strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&before, "line %d\n", i)
		switch i {
		case 3:
			after.WriteString("FIRST\n")
		case 15:
			after.WriteString("SECOND\n")
		default:
			fmt.Fprintf(&after, "line %d\n", i)
		}
	}

	got := Diff(before.String(), after.String())
	if strings.Contains(got, "line 9") {
		t.Errorf("context beyond two lines kept:\n%s", got)
	}
	if !strings.Contains(got, "...") {
		t.Errorf("missing gap separator between changed regions:\n%s", got)
	}
	if !strings.Contains(got, "line 2") || !strings.Contains(got, "line 14") {
		t.Errorf("near context dropped:\n%s", got)
	}
}

func TestDiffTruncation(t *testing.T) {
	var before, after strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&before, "old %d\n", i)
		fmt.Fprintf(&after, "new %d\n", i)
	}

	got := Diff(before.String(), after.String())
	if !strings.Contains(got, "(diff truncated)") {
		t.Error("large diff was not truncated")
	}
	if n := len(strings.Split(got, "\n")); n > diffMaxLines+1 {
		t.Errorf("diff has %d lines, cap is %d plus marker", n, diffMaxLines)
	}
}
