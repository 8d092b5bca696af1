package cache

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// FileTTL is the TTL for cached file contents.
	FileTTL = 5 * time.Minute
	// TreeTTL is the TTL for the cached project tree.
	TreeTTL = 30 * time.Second

	filePrefix    = "file:"
	outlinePrefix = "outline:"
	treeKey       = "tree"
)

// fileEntry holds cached file content together with the modification time
// observed when it was cached.
type fileEntry struct {
	content string
	modTime time.Time
}

// SetFile caches the content of a workspace-relative path, recording the
// file's current modification time.
func (c *Cache) SetFile(rel, content string) {
	var modTime time.Time
	if info, err := os.Stat(c.abs(rel)); err == nil {
		modTime = info.ModTime()
	}
	c.store.SetWithTTL(filePrefix+rel, fileEntry{content: content, modTime: modTime}, FileTTL)
}

// GetFile returns cached content for a workspace-relative path. A hit whose
// recorded modification time no longer matches the file on disk is treated
// as a miss; the stale entry is bypassed, not removed.
func (c *Cache) GetFile(rel string) (string, bool) {
	v, ok := c.store.Get(filePrefix + rel)
	if !ok {
		return "", false
	}
	fe, ok := v.(fileEntry)
	if !ok {
		return "", false
	}

	info, err := os.Stat(c.abs(rel))
	if err != nil || !info.ModTime().Equal(fe.modTime) {
		return "", false
	}
	return fe.content, true
}

// SetOutline caches a file outline.
func (c *Cache) SetOutline(rel, outline string) {
	c.store.SetWithTTL(outlinePrefix+rel, outline, FileTTL)
}

// GetOutline returns a cached file outline.
func (c *Cache) GetOutline(rel string) (string, bool) {
	v, ok := c.store.Get(outlinePrefix + rel)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SetTree caches the rendered project tree in its dedicated slot.
func (c *Cache) SetTree(tree string) {
	c.store.SetWithTTL(treeKey, tree, TreeTTL)
}

// GetTree returns the cached project tree.
func (c *Cache) GetTree() (string, bool) {
	v, ok := c.store.Get(treeKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// InvalidateTree drops the cached project tree.
func (c *Cache) InvalidateTree() {
	c.store.Delete(treeKey)
}

func (c *Cache) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.workDir, rel)
}
