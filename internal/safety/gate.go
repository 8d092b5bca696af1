package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest file the assistant will read or write.
const MaxFileSize = 1 << 20 // 1 MiB

// Gate enforces path, command and size policy for one workspace root and
// owns the backup directory plus the undo history.
type Gate struct {
	workDir   string
	backupDir string
	history   *History
}

// NewGate creates a Gate scoped to the given workspace root.
func NewGate(workDir, backupDir string) *Gate {
	return &Gate{
		workDir:   filepath.Clean(workDir),
		backupDir: backupDir,
		history:   NewHistory(DefaultHistoryLimit),
	}
}

// WorkDir returns the workspace root the gate is scoped to.
func (g *Gate) WorkDir() string {
	return g.workDir
}

// History returns the undo history owned by the gate.
func (g *Gate) History() *History {
	return g.history
}

// Resolve converts a workspace-relative or absolute path into a cleaned
// absolute path without checking policy.
func (g *Gate) Resolve(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(g.workDir, path)
	}
	return filepath.Clean(path)
}

// IsPathSafe reports whether a path stays inside the workspace root and
// outside the version-control metadata directory. The second return value
// is a human-readable reason when the path is rejected.
func (g *Gate) IsPathSafe(path string) (bool, string) {
	if path == "" {
		return false, "empty path"
	}
	if strings.Contains(path, "\x00") {
		return false, "null byte in path"
	}

	abs := g.Resolve(path)

	rel, err := filepath.Rel(g.workDir, abs)
	if err != nil {
		return false, fmt.Sprintf("cannot resolve %q against workspace root", path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, fmt.Sprintf("path %q escapes the workspace root", path)
	}
	if filepath.IsAbs(rel) {
		return false, fmt.Sprintf("path %q is outside the workspace root", path)
	}
	if rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator)) {
		return false, "access to version-control metadata is not allowed"
	}

	return true, ""
}

// CheckFileSize reports whether a file is within the size ceiling,
// returning the measured size. A missing file passes: there is no size to
// violate.
func (g *Gate) CheckFileSize(path string) (bool, int64) {
	info, err := os.Stat(g.Resolve(path))
	if err != nil {
		return true, 0
	}
	return info.Size() <= MaxFileSize, info.Size()
}
