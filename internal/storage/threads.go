// Package storage persists conversation threads and the fact memory to
// per-workspace durable files. Persistence failures degrade to in-memory
// behavior; they never fail a user-visible operation.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"scribe/internal/fileutil"
	"scribe/internal/llm"
)

const maxTitleLen = 60

// Thread is one persisted conversation. The system prompt is excluded
// from the persisted message list.
type Thread struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Messages  []llm.Message `json:"messages"`
}

// ThreadMeta is a listing entry without the message payload.
type ThreadMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewThreadID returns an opaque globally unique id: timestamp plus a
// random suffix.
func NewThreadID() string {
	return time.Now().UTC().Format("20060102T150405") + "-" + uuid.NewString()[:8]
}

// TitleFromText derives a thread title from the first user message.
func TitleFromText(text string) string {
	title := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
	if title == "" {
		title = "untitled"
	}
	if len(title) > maxTitleLen {
		cut := maxTitleLen - 3
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = title[:cut] + "..."
	}
	return title
}

// ThreadStore reads and writes threads under <dataDir>/threads/.
type ThreadStore struct {
	dir string
}

// NewThreadStore creates a store rooted at the workspace data directory.
func NewThreadStore(dataDir string) *ThreadStore {
	return &ThreadStore{dir: filepath.Join(dataDir, "threads")}
}

// Save writes a thread as <id>.json, creating the directory on demand.
func (s *ThreadStore) Save(t *Thread) error {
	if t.ID == "" {
		return fmt.Errorf("thread has no id")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating threads directory: %w", err)
	}

	t.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding thread: %w", err)
	}
	return fileutil.AtomicWrite(s.path(t.ID), data, 0644)
}

// Load reads one thread by id.
func (s *ThreadStore) Load(id string) (*Thread, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("loading thread %s: %w", id, err)
	}
	var t Thread
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding thread %s: %w", id, err)
	}
	return &t, nil
}

// Delete removes a thread file. Deleting is explicit and user-driven;
// threads never auto-expire.
func (s *ThreadStore) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns thread metadata sorted newest first.
func (s *ThreadStore) List() ([]ThreadMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var metas []ThreadMeta
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		t, err := s.Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		metas = append(metas, ThreadMeta{ID: t.ID, Title: t.Title, UpdatedAt: t.UpdatedAt})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

func (s *ThreadStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}
