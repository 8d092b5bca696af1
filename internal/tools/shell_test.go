package tools

import (
	"strings"
	"testing"

	"scribe/internal/config"
)

func TestRunCommand(t *testing.T) {
	r, _ := newTestRegistry(t)
	cfg := config.Default()

	out, err := runTool(t, r, "run_command", map[string]any{"command": "echo hello"}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello" {
		t.Errorf("output = %q", out)
	}
}

func TestRunCommandNoOutput(t *testing.T) {
	r, _ := newTestRegistry(t)

	out, err := runTool(t, r, "run_command", map[string]any{"command": "true"}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if out != "(no output)" {
		t.Errorf("output = %q", out)
	}
}

func TestRunCommandFailureWithOutput(t *testing.T) {
	r, _ := newTestRegistry(t)

	// A failing command that still prints gets its output back as text.
	out, err := runTool(t, r, "run_command", map[string]any{
		"command": "echo oops; exit 3",
	}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Command failed") || !strings.Contains(out, "oops") {
		t.Errorf("output = %q", out)
	}
}

func TestRunCommandBlocked(t *testing.T) {
	r, _ := newTestRegistry(t)

	if _, err := runTool(t, r, "run_command", map[string]any{
		"command": "rm -rf /",
	}, config.Default()); err == nil {
		t.Error("dangerous command executed")
	}
}

func TestRunCommandTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("slow")
	}
	r, _ := newTestRegistry(t)

	cfg := config.Default()
	cfg.CommandTimeoutSeconds = 1
	_, err := runTool(t, r, "run_command", map[string]any{"command": "sleep 5"}, cfg)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v, want timeout", err)
	}
}

func TestRunCommandRunsInWorkspace(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestRegistryIn(t, dir)

	out, err := runTool(t, r, "run_command", map[string]any{"command": "pwd"}, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, dir) && !strings.HasSuffix(out, dir[strings.LastIndex(dir, "/"):]) {
		t.Errorf("pwd = %q, workspace = %q", out, dir)
	}
}
