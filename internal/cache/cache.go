// Package cache keeps file and project-tree lookups fast and consistent
// under concurrent filesystem change notifications. It owns a TTL content
// cache and a basename index, both scoped to one workspace root.
package cache

import (
	"fmt"
	"path/filepath"
)

// Cache combines the TTL store and the file index for one workspace.
type Cache struct {
	workDir string
	store   *Store
	index   *Index
}

// New builds a Cache for the workspace root, walking it once to build the
// file index.
func New(workDir string) *Cache {
	return &Cache{
		workDir: filepath.Clean(workDir),
		store:   NewStore(),
		index:   NewIndex(filepath.Clean(workDir)),
	}
}

// Get reads a raw store entry.
func (c *Cache) Get(key string) (any, bool) { return c.store.Get(key) }

// Set writes a raw store entry with the default TTL.
func (c *Cache) Set(key string, value any) { c.store.Set(key, value) }

// Invalidate removes every key containing substr.
func (c *Cache) Invalidate(substr string) int { return c.store.Invalidate(substr) }

// Stats returns store counters.
func (c *Cache) Stats() Stats { return c.store.Stats() }

// FindFiles searches the basename index.
func (c *Cache) FindFiles(query string) []string { return c.index.FindFiles(query) }

// Rel converts an absolute path to workspace-relative slash form.
func (c *Cache) Rel(path string) string {
	rel, err := filepath.Rel(c.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// OnCreate handles a file-creation notification: the path joins the index
// and the stale project tree is dropped.
func (c *Cache) OnCreate(path string) {
	c.index.Add(path)
	c.InvalidateTree()
}

// OnDelete handles a deletion notification.
func (c *Cache) OnDelete(path string) {
	c.index.Remove(path)
	rel := c.Rel(path)
	c.store.Delete(filePrefix + rel)
	c.store.Delete(outlinePrefix + rel)
	c.InvalidateTree()
}

// OnChange handles a content-change notification: the file and outline
// entries are invalidated without touching the index.
func (c *Cache) OnChange(path string) {
	rel := c.Rel(path)
	c.store.Delete(filePrefix + rel)
	c.store.Delete(outlinePrefix + rel)
	c.InvalidateTree()
}

// StatsString renders cache statistics for the get_cache_stats tool.
func (c *Cache) StatsString() string {
	s := c.store.Stats()
	return fmt.Sprintf("entries: %d\nhits: %d\nmisses: %d\nindexed names: %d",
		s.Entries, s.Hits, s.Misses, c.index.Len())
}
