package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies to Set calls without an explicit TTL.
const DefaultTTL = 60 * time.Second

// entry is a cached value with its creation time and TTL. Expiry is
// evaluated lazily on read; there is no background sweep.
type entry struct {
	value     any
	createdAt time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// Store is a string-keyed TTL cache. Keys combine a namespace prefix
// ("file:", "outline:") with a workspace-relative path, plus a dedicated
// slot for the project tree.
type Store struct {
	entries map[string]entry
	hits    int64
	misses  int64
	mu      sync.Mutex
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Get retrieves a value, lazily evicting it when expired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}
	if e.expired(time.Now()) {
		delete(s.entries, key)
		s.misses++
		return nil, false
	}
	s.hits++
	return e.value, true
}

// Set stores a value with the default TTL.
func (s *Store) Set(key string, value any) {
	s.SetWithTTL(key, value, DefaultTTL)
}

// SetWithTTL stores a value with an explicit TTL.
func (s *Store) SetWithTTL(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, createdAt: time.Now(), ttl: ttl}
}

// Delete removes a single key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Invalidate removes every key containing the given substring and returns
// the number removed. Coarse by design.
func (s *Store) Invalidate(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.Contains(key, substr) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns current counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Entries: len(s.entries), Hits: s.hits, Misses: s.misses}
}
