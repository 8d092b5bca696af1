package tools

import (
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/cache"
	"scribe/internal/config"
	"scribe/internal/editor"
	"scribe/internal/git"
	"scribe/internal/safety"
	"scribe/internal/storage"
)

func newEditorRegistry(t *testing.T) (*Registry, *editor.State) {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, ".scribe")
	state := editor.NewState()
	r, _ := NewDefaultRegistry(Deps{
		Gate:   safety.NewGate(dir, filepath.Join(dataDir, "backups")),
		Cache:  cache.New(dir),
		Memory: storage.NewMemoryStore(dataDir),
		Editor: state,
		Git:    git.NewRunner(dir),
	})
	return r, state
}

func TestEditorStateTools(t *testing.T) {
	r, state := newEditorRegistry(t)
	cfg := config.Default()

	out, _ := runTool(t, r, "get_active_file", map[string]any{}, cfg)
	if out != "No active file." {
		t.Errorf("empty active file = %q", out)
	}

	state.SetActiveFile("src/main.go")
	state.SetSelection("x := 1")
	state.SetOpenFiles([]string{"src/main.go", "README.md"})
	state.SetDiagnostics([]editor.Diagnostic{
		{File: "src/main.go", Line: 7, Severity: "error", Message: "undefined: y"},
		{File: "other.go", Line: 2, Severity: "warning", Message: "unused"},
	})

	if out, _ = runTool(t, r, "get_active_file", map[string]any{}, cfg); out != "src/main.go" {
		t.Errorf("active file = %q", out)
	}
	if out, _ = runTool(t, r, "get_selection", map[string]any{}, cfg); out != "x := 1" {
		t.Errorf("selection = %q", out)
	}
	if out, _ = runTool(t, r, "get_open_files", map[string]any{}, cfg); out != "src/main.go\nREADME.md" {
		t.Errorf("open files = %q", out)
	}

	out, _ = runTool(t, r, "get_diagnostics", map[string]any{}, cfg)
	if !strings.Contains(out, "src/main.go:7 [error] undefined: y") {
		t.Errorf("diagnostics = %q", out)
	}

	out, _ = runTool(t, r, "get_diagnostics", map[string]any{"path": "other.go"}, cfg)
	if strings.Contains(out, "main.go") || !strings.Contains(out, "unused") {
		t.Errorf("filtered diagnostics = %q", out)
	}
}

func TestReplaceSelectionAndInsert(t *testing.T) {
	r, state := newEditorRegistry(t)
	cfg := config.Default()
	state.SetSelection("old text")

	out, err := runTool(t, r, "replace_selection", map[string]any{"text": "new text"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Selection replaced." || state.Selection() != "new text" {
		t.Errorf("out=%q selection=%q", out, state.Selection())
	}

	if _, err := runTool(t, r, "insert_text", map[string]any{"text": "inserted"}, cfg); err != nil {
		t.Fatal(err)
	}
	ins := state.Inserted()
	if len(ins) != 1 || ins[0] != "inserted" {
		t.Errorf("inserted = %v", ins)
	}

	if _, err := runTool(t, r, "insert_text", map[string]any{}, cfg); err == nil {
		t.Error("missing text accepted")
	}
}

func TestMemoryTools(t *testing.T) {
	r, _ := newTestRegistry(t)
	cfg := config.Default()

	out, _ := runTool(t, r, "recall", map[string]any{}, cfg)
	if out != "Memory is empty." {
		t.Errorf("empty recall = %q", out)
	}

	out, _ = runTool(t, r, "remember", map[string]any{"fact": "prefers table tests"}, cfg)
	if out != "Remembered: prefers table tests" {
		t.Errorf("remember = %q", out)
	}
	out, _ = runTool(t, r, "remember", map[string]any{"fact": "prefers table tests"}, cfg)
	if out != "Already known: prefers table tests" {
		t.Errorf("duplicate remember = %q", out)
	}

	out, _ = runTool(t, r, "recall", map[string]any{}, cfg)
	if out != "prefers table tests" {
		t.Errorf("recall = %q", out)
	}

	out, _ = runTool(t, r, "forget", map[string]any{"fact": "prefers table tests"}, cfg)
	if out != "Forgot: prefers table tests" {
		t.Errorf("forget = %q", out)
	}
	out, _ = runTool(t, r, "forget", map[string]any{"fact": "prefers table tests"}, cfg)
	if out != "No such fact: prefers table tests" {
		t.Errorf("second forget = %q", out)
	}
}
