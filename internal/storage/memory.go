package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scribe/internal/fileutil"
	"scribe/internal/logging"
)

// Memory is an ordered set of free-text facts shared across all threads
// in a workspace. Facts are deduplicated by exact text match and never
// auto-expired.
type Memory struct {
	Facts     []string  `json:"facts"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MemoryStore persists the workspace memory to memory.json. It is created
// lazily on first access; load failures degrade to an empty in-memory
// store.
type MemoryStore struct {
	path   string
	memory *Memory
	mu     sync.Mutex
}

// NewMemoryStore creates a store backed by <dataDir>/memory.json.
func NewMemoryStore(dataDir string) *MemoryStore {
	return &MemoryStore{path: filepath.Join(dataDir, "memory.json")}
}

// Facts returns a copy of the current facts.
func (s *MemoryStore) Facts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	out := make([]string, len(s.memory.Facts))
	copy(out, s.memory.Facts)
	return out
}

// Remember appends a fact, ignoring exact duplicates. Returns true when
// the fact was new.
func (s *MemoryStore) Remember(fact string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	for _, f := range s.memory.Facts {
		if f == fact {
			return false
		}
	}
	s.memory.Facts = append(s.memory.Facts, fact)
	s.save()
	return true
}

// Forget removes a fact by exact text match. Returns true when found.
func (s *MemoryStore) Forget(fact string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLoaded()
	for i, f := range s.memory.Facts {
		if f == fact {
			s.memory.Facts = append(s.memory.Facts[:i], s.memory.Facts[i+1:]...)
			s.save()
			return true
		}
	}
	return false
}

// ensureLoaded lazily reads memory.json. Callers must hold the lock.
func (s *MemoryStore) ensureLoaded() {
	if s.memory != nil {
		return
	}
	s.memory = &Memory{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("failed to load memory, starting empty", "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, s.memory); err != nil {
		logging.Warn("corrupt memory file, starting empty", "error", err)
		s.memory = &Memory{}
	}
}

// save persists memory, logging instead of failing on error. Callers must
// hold the lock.
func (s *MemoryStore) save() {
	s.memory.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(s.memory, "", "  ")
	if err != nil {
		logging.Error("encoding memory", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		logging.Warn("creating data directory", "error", err)
		return
	}
	if err := fileutil.AtomicWrite(s.path, data, 0644); err != nil {
		logging.Warn("persisting memory", "error", err)
	}
}

// String renders the facts for embedding into the system prompt.
func (m Memory) String() string {
	if len(m.Facts) == 0 {
		return ""
	}
	out := "Remembered facts:\n"
	for i, f := range m.Facts {
		out += fmt.Sprintf("%d. %s\n", i+1, f)
	}
	return out
}
