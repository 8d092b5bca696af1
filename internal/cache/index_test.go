package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIndexBuild(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"main.go",
		"internal/app/server.go",
		".gitignore",
		".hidden",
		".git/config",
		"node_modules/pkg/index.js",
	)

	idx := NewIndex(dir)

	if got := idx.FindFiles("main.go"); len(got) != 1 || got[0] != "main.go" {
		t.Errorf("FindFiles(main.go) = %v", got)
	}
	if got := idx.FindFiles("server"); len(got) != 1 || got[0] != "internal/app/server.go" {
		t.Errorf("FindFiles(server) = %v", got)
	}
	if got := idx.FindFiles(".gitignore"); len(got) != 1 {
		t.Errorf(".gitignore should be indexed despite being hidden: %v", got)
	}
	if got := idx.FindFiles(".hidden"); len(got) != 0 {
		t.Errorf("hidden file indexed: %v", got)
	}
	if got := idx.FindFiles("config"); len(got) != 0 {
		t.Errorf(".git contents indexed: %v", got)
	}
	if got := idx.FindFiles("index.js"); len(got) != 0 {
		t.Errorf("node_modules contents indexed: %v", got)
	}
}

func TestIndexCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "README.md")

	idx := NewIndex(dir)
	if got := idx.FindFiles("readme"); len(got) != 1 {
		t.Errorf("FindFiles(readme) = %v", got)
	}
	if got := idx.FindFiles("EADM"); len(got) != 1 {
		t.Errorf("substring match failed: %v", got)
	}
}

func TestIndexAddRemove(t *testing.T) {
	dir := t.TempDir()
	idx := NewIndex(dir)

	a := filepath.Join(dir, "dup.txt")
	b := filepath.Join(dir, "sub", "dup.txt")
	idx.Add(a)
	idx.Add(a) // duplicate add is a no-op
	idx.Add(b)

	if got := idx.FindFiles("dup"); len(got) != 2 {
		t.Errorf("FindFiles(dup) = %v, want 2 paths", got)
	}

	idx.Remove(a)
	if got := idx.FindFiles("dup"); len(got) != 1 {
		t.Errorf("after remove: %v", got)
	}

	idx.Remove(b)
	if idx.Len() != 0 {
		t.Errorf("Len = %d after removing everything", idx.Len())
	}
}

func TestFindFilesCap(t *testing.T) {
	dir := t.TempDir()
	idx := NewIndex(dir)
	for i := 0; i < MaxFindResults+20; i++ {
		idx.Add(filepath.Join(dir, "d", "file"+string(rune('a'+i%26))+string(rune('a'+i/26))+".txt"))
	}

	if got := idx.FindFiles("file"); len(got) > MaxFindResults {
		t.Errorf("FindFiles returned %d results, cap is %d", len(got), MaxFindResults)
	}
}
