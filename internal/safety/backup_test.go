package safety

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackupFile(t *testing.T) {
	g := newTestGate(t)

	dir := filepath.Join(g.WorkDir(), "src")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.go"), []byte("package app"), 0644); err != nil {
		t.Fatal(err)
	}

	dest, err := g.BackupFile("src/app.go")
	if err != nil {
		t.Fatal(err)
	}
	if dest == "" {
		t.Fatal("no backup path returned")
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "package app" {
		t.Errorf("backup content = %q", data)
	}

	// Path separators are flattened into the backup name.
	name := filepath.Base(dest)
	if !strings.HasSuffix(name, "-src_app.go") {
		t.Errorf("backup name = %q, want suffix -src_app.go", name)
	}
}

func TestBackupMissingFileIsNoOp(t *testing.T) {
	g := newTestGate(t)

	dest, err := g.BackupFile("does-not-exist.txt")
	if err != nil {
		t.Fatal(err)
	}
	if dest != "" {
		t.Errorf("expected empty path for missing source, got %q", dest)
	}
}
