// Package watcher keeps the cache and file index in sync with external
// edits by watching the workspace tree recursively.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"scribe/internal/cache"
	"scribe/internal/logging"
)

// debounceDelay coalesces the event bursts editors produce for one save.
const debounceDelay = 500 * time.Millisecond

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
}

// Watcher translates filesystem events into cache invalidations. Events
// are debounced per path and handled by a single goroutine, so cache
// updates never race each other.
type Watcher struct {
	fsw     *fsnotify.Watcher
	cache   *cache.Cache
	workDir string

	mu      sync.Mutex
	pending map[string]*time.Timer

	events chan fsnotify.Event
	done   chan struct{}
}

// New creates a watcher over workDir. Call Start to begin watching.
func New(workDir string, c *cache.Cache) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:     fsw,
		cache:   c,
		workDir: workDir,
		pending: make(map[string]*time.Timer),
		events:  make(chan fsnotify.Event, 64),
		done:    make(chan struct{}),
	}, nil
}

// Start registers the workspace tree and launches the event loops.
func (w *Watcher) Start() error {
	if err := w.addRecursive(w.workDir); err != nil {
		return err
	}
	go w.readLoop()
	go w.handleLoop()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

// addRecursive watches root and every non-ignored directory below it.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) && path != root {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logging.Warn("watch failed", "path", path, "error", err)
		}
		return nil
	})
}

// ignored reports whether a path sits in a hidden or generated directory.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.workDir, path)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if skipDirs[part] || (strings.HasPrefix(part, ".") && part != ".") {
			return true
		}
	}
	return false
}

// readLoop debounces raw events into the serialized handler channel.
func (w *Watcher) readLoop() {
	for {
		select {
		case <-w.done:
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.Warn("watch error", "error", err)
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.ignored(ev.Name) {
				continue
			}
			w.debounce(ev)
		}
	}
}

// debounce schedules ev after the quiet period, replacing any pending
// timer for the same path. The last operation in a burst wins.
func (w *Watcher) debounce(ev fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[ev.Name]; ok {
		t.Stop()
	}
	w.pending[ev.Name] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, ev.Name)
		w.mu.Unlock()

		select {
		case w.events <- ev:
		case <-w.done:
		}
	})
}

// handleLoop applies debounced events to the cache, one at a time.
func (w *Watcher) handleLoop() {
	for {
		select {
		case <-w.done:
			return
		case ev := <-w.events:
			w.handle(ev)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	logging.Debug("fs event", "op", ev.Op.String(), "path", ev.Name)

	switch {
	case ev.Op.Has(fsnotify.Create):
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(ev.Name); err != nil {
				logging.Warn("watching new directory", "path", ev.Name, "error", err)
			}
			w.cache.InvalidateTree()
			return
		}
		w.cache.OnCreate(ev.Name)
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.cache.OnDelete(ev.Name)
	case ev.Op.Has(fsnotify.Write):
		w.cache.OnChange(ev.Name)
	}
}
