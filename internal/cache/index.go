package cache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// MaxFindResults bounds FindFiles output.
const MaxFindResults = 50

// skipDirs are directory names excluded from the index walk.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
}

// hiddenAllowList names hidden files that are still indexed.
var hiddenAllowList = map[string]bool{
	".gitignore": true,
}

// Index maps lowercase file basenames to the absolute paths sharing that
// name. Built by a full walk at construction and maintained incrementally
// from filesystem change notifications.
type Index struct {
	workDir string
	byName  map[string][]string
	mu      sync.RWMutex
}

// NewIndex builds an index of workDir by a full recursive walk.
func NewIndex(workDir string) *Index {
	idx := &Index{
		workDir: workDir,
		byName:  make(map[string][]string),
	}
	idx.build()
	return idx
}

func (idx *Index) build() {
	filepath.WalkDir(idx.workDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != idx.workDir && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") && !hiddenAllowList[name] {
			return nil
		}
		idx.add(path)
		return nil
	})
}

func (idx *Index) add(path string) {
	key := strings.ToLower(filepath.Base(path))
	for _, existing := range idx.byName[key] {
		if existing == path {
			return
		}
	}
	idx.byName[key] = append(idx.byName[key], path)
}

// Add records a newly created file.
func (idx *Index) Add(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.add(path)
}

// Remove drops a deleted file, removing the key entirely when its path
// list becomes empty.
func (idx *Index) Remove(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := strings.ToLower(filepath.Base(path))
	paths := idx.byName[key]
	for i, p := range paths {
		if p == path {
			paths = append(paths[:i], paths[i+1:]...)
			break
		}
	}
	if len(paths) == 0 {
		delete(idx.byName, key)
		return
	}
	idx.byName[key] = paths
}

// FindFiles returns up to MaxFindResults workspace-relative paths whose
// basename contains the lowercase query as a substring. No ranking beyond
// substring containment; map order is whatever Go gives us.
func (idx *Index) FindFiles(query string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	query = strings.ToLower(query)
	var results []string
	for name, paths := range idx.byName {
		if !strings.Contains(name, query) {
			continue
		}
		for _, p := range paths {
			rel, err := filepath.Rel(idx.workDir, p)
			if err != nil {
				rel = p
			}
			results = append(results, filepath.ToSlash(rel))
			if len(results) >= MaxFindResults {
				return results
			}
		}
	}
	return results
}

// Len returns the number of distinct indexed basenames.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byName)
}
