package safety

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	dir := t.TempDir()
	return NewGate(dir, filepath.Join(dir, ".scribe", "backups"))
}

func TestIsPathSafe(t *testing.T) {
	g := newTestGate(t)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"relative file", "main.go", true},
		{"nested file", "internal/app/server.go", true},
		{"dot", ".", true},
		{"hidden file", ".env", true},
		{"gitignore", ".gitignore", true},
		{"empty", "", false},
		{"null byte", "foo\x00bar", false},
		{"parent escape", "../outside.txt", false},
		{"deep escape", "a/b/../../../etc/passwd", false},
		{"absolute outside", "/etc/passwd", false},
		{"git dir", ".git", false},
		{"git internals", ".git/config", false},
		{"git-prefixed name", ".gitlab-ci.yml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := g.IsPathSafe(tt.path)
			if ok != tt.want {
				t.Errorf("IsPathSafe(%q) = %v (%s), want %v", tt.path, ok, reason, tt.want)
			}
			if !ok && reason == "" {
				t.Errorf("IsPathSafe(%q) rejected without a reason", tt.path)
			}
		})
	}
}

func TestIsPathSafeAbsoluteInsideWorkspace(t *testing.T) {
	g := newTestGate(t)

	inside := filepath.Join(g.WorkDir(), "src", "main.go")
	if ok, reason := g.IsPathSafe(inside); !ok {
		t.Errorf("absolute path inside workspace rejected: %s", reason)
	}
}

func TestResolve(t *testing.T) {
	g := newTestGate(t)

	got := g.Resolve("a/./b/../c.txt")
	want := filepath.Join(g.WorkDir(), "a", "c.txt")
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestCheckFileSize(t *testing.T) {
	g := newTestGate(t)

	if ok, size := g.CheckFileSize("missing.txt"); !ok || size != 0 {
		t.Errorf("missing file should pass, got ok=%v size=%d", ok, size)
	}

	small := filepath.Join(g.WorkDir(), "small.txt")
	if err := os.WriteFile(small, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if ok, size := g.CheckFileSize("small.txt"); !ok || size != 5 {
		t.Errorf("small file: ok=%v size=%d", ok, size)
	}

	big := filepath.Join(g.WorkDir(), "big.txt")
	if err := os.WriteFile(big, []byte(strings.Repeat("x", MaxFileSize+1)), 0644); err != nil {
		t.Fatal(err)
	}
	if ok, _ := g.CheckFileSize("big.txt"); ok {
		t.Error("oversized file passed the size check")
	}
}
