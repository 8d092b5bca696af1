package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MaxBackups bounds the backup directory. The oldest backups past the
// limit are pruned after each new backup.
const MaxBackups = 100

// BackupFile copies the current content of path into the backup directory
// under a name combining a millisecond timestamp and the workspace-relative
// path with separators flattened. A missing source file is a no-op.
func (g *Gate) BackupFile(path string) (string, error) {
	abs := g.Resolve(path)

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s for backup: %w", path, err)
	}

	if err := os.MkdirAll(g.backupDir, 0755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	rel, err := filepath.Rel(g.workDir, abs)
	if err != nil {
		rel = filepath.Base(abs)
	}
	flattened := strings.ReplaceAll(filepath.ToSlash(rel), "/", "_")
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), flattened)
	dest := filepath.Join(g.backupDir, name)

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	g.pruneBackups()
	return dest, nil
}

// pruneBackups removes the oldest backups beyond MaxBackups. Backup names
// start with a millisecond timestamp, so lexicographic order is age order.
func (g *Gate) pruneBackups() {
	entries, err := os.ReadDir(g.backupDir)
	if err != nil || len(entries) <= MaxBackups {
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) <= MaxBackups {
		return
	}
	sort.Strings(names)

	for _, name := range names[:len(names)-MaxBackups] {
		os.Remove(filepath.Join(g.backupDir, name))
	}
}
