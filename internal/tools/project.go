package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"scribe/internal/cache"
	"scribe/internal/safety"
)

const maxTreeDepth = 5

// ProjectStructureTool renders the workspace directory tree through the
// single-slot tree cache.
type ProjectStructureTool struct {
	gate  *safety.Gate
	cache *cache.Cache
}

func NewProjectStructureTool(gate *safety.Gate, c *cache.Cache) *ProjectStructureTool {
	return &ProjectStructureTool{gate: gate, cache: c}
}

func (t *ProjectStructureTool) Name() string { return "get_project_structure" }

func (t *ProjectStructureTool) Description() string {
	return "Returns the project directory tree (up to 5 levels deep)."
}

func (t *ProjectStructureTool) Parameters() json.RawMessage {
	return schema(map[string]any{})
}

func (t *ProjectStructureTool) Validate(args map[string]any) error { return nil }

func (t *ProjectStructureTool) Execute(ctx context.Context, req Request) (string, error) {
	if tree, ok := t.cache.GetTree(); ok {
		return tree, nil
	}

	var b strings.Builder
	b.WriteString(filepath.Base(t.gate.WorkDir()) + "/\n")
	t.renderDir(&b, t.gate.WorkDir(), "", 1)

	tree := strings.TrimRight(b.String(), "\n")
	t.cache.SetTree(tree)
	return tree, nil
}

func (t *ProjectStructureTool) renderDir(b *strings.Builder, dir, indent string, depth int) {
	if depth > maxTreeDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor" {
			continue
		}
		if e.IsDir() {
			b.WriteString(indent + "  " + name + "/\n")
			t.renderDir(b, filepath.Join(dir, name), indent+"  ", depth+1)
		} else {
			b.WriteString(indent + "  " + name + "\n")
		}
	}
}

// outlinePatterns extract declaration-like lines per extension family.
var outlinePatterns = map[string]*regexp.Regexp{
	".go":   regexp.MustCompile(`^\s*(func|type|const|var)\s+\w+`),
	".py":   regexp.MustCompile(`^\s*(def|class)\s+\w+`),
	".js":   regexp.MustCompile(`^\s*(function\s+\w+|class\s+\w+|const\s+\w+\s*=\s*(async\s*)?\()`),
	".ts":   regexp.MustCompile(`^\s*(export\s+)?(function\s+\w+|class\s+\w+|interface\s+\w+|type\s+\w+)`),
	".rs":   regexp.MustCompile(`^\s*(pub\s+)?(fn|struct|enum|trait|impl)\s+\w+`),
	".java": regexp.MustCompile(`^\s*(public|private|protected).*\(`),
}

// FileOutlineTool extracts a declaration outline from a source file.
type FileOutlineTool struct {
	gate  *safety.Gate
	cache *cache.Cache
}

func NewFileOutlineTool(gate *safety.Gate, c *cache.Cache) *FileOutlineTool {
	return &FileOutlineTool{gate: gate, cache: c}
}

func (t *FileOutlineTool) Name() string { return "get_file_outline" }

func (t *FileOutlineTool) Description() string {
	return "Returns an outline of top-level declarations (functions, types, classes) in a source file."
}

func (t *FileOutlineTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"path": prop("string", "Workspace-relative file path"),
	}, "path")
}

func (t *FileOutlineTool) Validate(args map[string]any) error {
	return requireString(args, "path")
}

func (t *FileOutlineTool) Execute(ctx context.Context, req Request) (string, error) {
	path, _ := GetString(req.Args, "path")
	if ok, reason := t.gate.IsPathSafe(path); !ok {
		return "", fmt.Errorf("%s", reason)
	}
	if ok, size := t.gate.CheckFileSize(path); !ok {
		return "", fmt.Errorf("file too large (%d bytes, limit %d)", size, safety.MaxFileSize)
	}

	abs := t.gate.Resolve(path)
	rel := t.cache.Rel(abs)
	if outline, ok := t.cache.GetOutline(rel); ok {
		return outline, nil
	}

	pattern, ok := outlinePatterns[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("no outline support for %s files", filepath.Ext(path))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	var lines []string
	for i, line := range strings.Split(string(data), "\n") {
		if pattern.MatchString(line) {
			lines = append(lines, fmt.Sprintf("%4d: %s", i+1, strings.TrimSpace(line)))
		}
	}

	outline := "(no declarations found)"
	if len(lines) > 0 {
		outline = strings.Join(lines, "\n")
	}
	t.cache.SetOutline(rel, outline)
	return outline, nil
}

// CacheStatsTool reports cache effectiveness counters.
type CacheStatsTool struct {
	cache *cache.Cache
}

func NewCacheStatsTool(c *cache.Cache) *CacheStatsTool {
	return &CacheStatsTool{cache: c}
}

func (t *CacheStatsTool) Name() string { return "get_cache_stats" }

func (t *CacheStatsTool) Description() string {
	return "Returns statistics about the file cache and index."
}

func (t *CacheStatsTool) Parameters() json.RawMessage {
	return schema(map[string]any{})
}

func (t *CacheStatsTool) Validate(args map[string]any) error { return nil }

func (t *CacheStatsTool) Execute(ctx context.Context, req Request) (string, error) {
	return t.cache.StatsString(), nil
}
