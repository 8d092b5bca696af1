package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryRememberDedupe(t *testing.T) {
	store := NewMemoryStore(t.TempDir())

	if !store.Remember("uses tabs for indentation") {
		t.Error("first Remember returned false")
	}
	if store.Remember("uses tabs for indentation") {
		t.Error("duplicate Remember returned true")
	}
	if got := store.Facts(); len(got) != 1 {
		t.Errorf("Facts = %v", got)
	}
}

func TestMemoryForget(t *testing.T) {
	store := NewMemoryStore(t.TempDir())
	store.Remember("a")
	store.Remember("b")

	if !store.Forget("a") {
		t.Error("Forget(a) = false")
	}
	if store.Forget("a") {
		t.Error("second Forget(a) = true")
	}
	if got := store.Facts(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Facts = %v", got)
	}
}

func TestMemoryPersistsAcrossStores(t *testing.T) {
	dir := t.TempDir()

	first := NewMemoryStore(dir)
	first.Remember("project uses Go 1.25")

	second := NewMemoryStore(dir)
	got := second.Facts()
	if len(got) != 1 || got[0] != "project uses Go 1.25" {
		t.Errorf("Facts after reload = %v", got)
	}
}

func TestMemoryCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "memory.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewMemoryStore(dir)
	if got := store.Facts(); len(got) != 0 {
		t.Errorf("Facts from corrupt file = %v", got)
	}

	// The store still works after recovering.
	if !store.Remember("fresh start") {
		t.Error("Remember failed after recovery")
	}
}

func TestMemoryString(t *testing.T) {
	m := Memory{}
	if m.String() != "" {
		t.Errorf("empty memory renders %q", m.String())
	}

	m = Memory{Facts: []string{"alpha", "beta"}}
	want := "Remembered facts:\n1. alpha\n2. beta\n"
	if m.String() != want {
		t.Errorf("String = %q, want %q", m.String(), want)
	}
}
