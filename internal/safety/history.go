package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scribe/internal/fileutil"
)

// DefaultHistoryLimit bounds the undo history; the oldest entry is
// evicted first.
const DefaultHistoryLimit = 50

// FileChange records one destructive filesystem operation. OldContent is
// nil when the file did not previously exist, marking the change as a
// creation.
type FileChange struct {
	Path       string
	OldContent []byte
	NewContent []byte
	Timestamp  time.Time
}

// Created reports whether the change created the file.
func (c FileChange) Created() bool {
	return c.OldContent == nil
}

// History is a bounded stack of file changes supporting one-step undo.
// Undo is not re-doable.
type History struct {
	changes []FileChange
	limit   int
	mu      sync.Mutex
}

// NewHistory creates a History holding at most limit changes.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{limit: limit}
}

// Record pushes a change, evicting the oldest past the limit.
func (h *History) Record(change FileChange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if change.Timestamp.IsZero() {
		change.Timestamp = time.Now()
	}
	h.changes = append(h.changes, change)
	if len(h.changes) > h.limit {
		h.changes = h.changes[len(h.changes)-h.limit:]
	}
}

// Len returns the number of undoable changes.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.changes)
}

// pop removes and returns the most recent change.
func (h *History) pop() (FileChange, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.changes) == 0 {
		return FileChange{}, false
	}
	change := h.changes[len(h.changes)-1]
	h.changes = h.changes[:len(h.changes)-1]
	return change, true
}

// RecordChange records a write or delete for later undo.
func (g *Gate) RecordChange(path string, oldContent, newContent []byte) {
	g.history.Record(FileChange{
		Path:       g.Resolve(path),
		OldContent: oldContent,
		NewContent: newContent,
		Timestamp:  time.Now(),
	})
}

// UndoLastChange reverts the most recent recorded change. A creation is
// undone by deleting the file; anything else rewrites the prior content
// verbatim.
func (g *Gate) UndoLastChange() (*FileChange, error) {
	change, ok := g.history.pop()
	if !ok {
		return nil, fmt.Errorf("nothing to undo")
	}

	if change.Created() {
		if err := os.Remove(change.Path); err != nil && !os.IsNotExist(err) {
			g.history.Record(change)
			return nil, fmt.Errorf("failed to undo creation: %w", err)
		}
		return &change, nil
	}

	if err := os.MkdirAll(filepath.Dir(change.Path), 0755); err != nil {
		g.history.Record(change)
		return nil, err
	}
	if err := fileutil.AtomicWrite(change.Path, change.OldContent, 0644); err != nil {
		g.history.Record(change)
		return nil, fmt.Errorf("failed to undo: %w", err)
	}
	return &change, nil
}
