package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
)

func TestProjectStructure(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "internal", "app"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "node_modules", "x"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "internal", "app", "server.go"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	r, _ := newTestRegistryIn(t, dir)
	cfg := config.Default()

	out, err := runTool(t, r, "get_project_structure", map[string]any{}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "internal/") || !strings.Contains(out, "server.go") {
		t.Errorf("tree = %q", out)
	}
	if strings.Contains(out, "node_modules") {
		t.Errorf("tree includes ignored directory:\n%s", out)
	}

	// Second call is served from the tree cache.
	again, err := runTool(t, r, "get_project_structure", map[string]any{}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if again != out {
		t.Error("cached tree differs from the first render")
	}
}

func TestFileOutlineGo(t *testing.T) {
	dir := t.TempDir()
	src := `package demo

import "fmt"

const answer = 42

type Greeter struct{}

func (g Greeter) Greet(name string) {
	fmt.Println("hi", name)
}

func helper() {}
`
	if err := os.WriteFile(filepath.Join(dir, "demo.go"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	r, _ := newTestRegistryIn(t, dir)

	out, err := runTool(t, r, "get_file_outline", map[string]any{"path": "demo.go"}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"const answer", "type Greeter", "func helper"} {
		if !strings.Contains(out, want) {
			t.Errorf("outline missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "import") {
		t.Errorf("outline includes non-declaration lines:\n%s", out)
	}
}

func TestFileOutlineUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0644); err != nil {
		t.Fatal(err)
	}
	r, _ := newTestRegistryIn(t, dir)

	if _, err := runTool(t, r, "get_file_outline", map[string]any{"path": "notes.txt"}, config.Default()); err == nil {
		t.Error("unsupported extension accepted")
	}
}

func TestCacheStats(t *testing.T) {
	r, _ := newTestRegistry(t)

	out, err := runTool(t, r, "get_cache_stats", map[string]any{}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "entries:") || !strings.Contains(out, "hits:") {
		t.Errorf("stats = %q", out)
	}
}
