package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
)

func TestSearchFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pkg"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"main.go":       "package main\n\nfunc main() {}\n",
		"pkg/helper.go": "package pkg\n\n// Helper does the thing.\nfunc Helper() {}\n",
		"pkg/notes.md":  "helper notes\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(name)), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	r, _ := newTestRegistryIn(t, dir)
	cfg := config.Default()

	out, err := runTool(t, r, "search_files", map[string]any{"query": "Helper"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pkg/helper.go:3:") {
		t.Errorf("missing expected match:\n%s", out)
	}
	// Case-insensitive: the markdown file matches too.
	if !strings.Contains(out, "pkg/notes.md:1:") {
		t.Errorf("case-insensitive match missing:\n%s", out)
	}

	out, err = runTool(t, r, "search_files", map[string]any{
		"query": "helper", "glob": "**/*.go",
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "notes.md") {
		t.Errorf("glob did not filter:\n%s", out)
	}

	out, err = runTool(t, r, "search_files", map[string]any{"query": "nowhere-to-be-found"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if out != "No matches found." {
		t.Errorf("empty search = %q", out)
	}
}

func TestSearchFilesBadGlob(t *testing.T) {
	r, _ := newTestRegistry(t)

	if _, err := runTool(t, r, "search_files", map[string]any{
		"query": "x", "glob": "[",
	}, config.Default()); err == nil {
		t.Error("invalid glob accepted")
	}
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	r, _ := newTestRegistryIn(t, dir)

	out, err := runTool(t, r, "find_file", map[string]any{"query": "config"}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if out != "config.yaml" {
		t.Errorf("find_file = %q", out)
	}

	out, err = runTool(t, r, "find_file", map[string]any{"query": "zzz"}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if out != "No files found." {
		t.Errorf("find_file miss = %q", out)
	}
}
