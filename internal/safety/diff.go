package safety

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	diffContextLines = 2
	diffMaxLines     = 50
)

// diffLine is one line of a preview diff.
type diffLine struct {
	marker  string // "+", "-" or " "
	text    string
	changed bool
}

// Diff produces a line-oriented preview of a change: only changed lines
// plus up to two lines of surrounding context, capped at 50 output lines
// with a truncation marker. This is a human preview, not a patch format.
func (g *Gate) Diff(oldContent, newContent string) string {
	return Diff(oldContent, newContent)
}

// Diff compares two texts line by line.
func Diff(oldContent, newContent string) string {
	if oldContent == newContent {
		return "(no changes)"
	}

	dmp := diffmatchpatch.New()
	a, b, lineIndex := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineIndex)

	var lines []diffLine
	for _, d := range diffs {
		marker, changed := " ", false
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			marker, changed = "-", true
		case diffmatchpatch.DiffInsert:
			marker, changed = "+", true
		}
		for _, text := range splitLines(d.Text) {
			lines = append(lines, diffLine{marker: marker, text: text, changed: changed})
		}
	}

	keep := make([]bool, len(lines))
	for i, l := range lines {
		if !l.changed {
			continue
		}
		lo := max(0, i-diffContextLines)
		hi := min(len(lines)-1, i+diffContextLines)
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	var out []string
	lastKept := -1
	for i, l := range lines {
		if !keep[i] {
			continue
		}
		if lastKept >= 0 && i != lastKept+1 {
			out = append(out, "...")
		}
		out = append(out, l.marker+" "+l.text)
		lastKept = i

		if len(out) >= diffMaxLines {
			out = append(out, "... (diff truncated)")
			break
		}
	}

	return strings.Join(out, "\n")
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
