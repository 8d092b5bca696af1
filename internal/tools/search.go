package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"scribe/internal/cache"
	"scribe/internal/safety"
)

const (
	maxSearchMatches  = 100
	maxSearchLineLen  = 250
	searchSkipDirList = ".git,node_modules,vendor,dist,build,target,__pycache__"
)

// SearchFilesTool greps workspace files for a substring.
type SearchFilesTool struct {
	gate *safety.Gate
}

func NewSearchFilesTool(gate *safety.Gate) *SearchFilesTool {
	return &SearchFilesTool{gate: gate}
}

func (t *SearchFilesTool) Name() string { return "search_files" }

func (t *SearchFilesTool) Description() string {
	return "Searches file contents for a text query. Returns matching lines as path:line: text."
}

func (t *SearchFilesTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"query": prop("string", "Text to search for (case-insensitive substring)"),
		"path":  prop("string", "Workspace-relative directory to search; defaults to the root"),
		"glob":  prop("string", "Optional doublestar glob limiting the files searched, e.g. **/*.go"),
	}, "query")
}

func (t *SearchFilesTool) Validate(args map[string]any) error {
	return requireString(args, "query")
}

func (t *SearchFilesTool) Execute(ctx context.Context, req Request) (string, error) {
	query, _ := GetString(req.Args, "query")
	root := GetStringDefault(req.Args, "path", ".")
	glob := GetStringDefault(req.Args, "glob", "")

	if ok, reason := t.gate.IsPathSafe(root); !ok {
		return "", fmt.Errorf("%s", reason)
	}
	if glob != "" && !doublestar.ValidatePattern(glob) {
		return "", fmt.Errorf("invalid glob pattern %q", glob)
	}

	skip := make(map[string]bool)
	for _, d := range strings.Split(searchSkipDirList, ",") {
		skip[d] = true
	}

	lowered := strings.ToLower(query)
	absRoot := t.gate.Resolve(root)
	var matches []string

	err := filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := d.Name()
		if d.IsDir() {
			if path != absRoot && (skip[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, relErr := filepath.Rel(t.gate.WorkDir(), path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if glob != "" {
			if ok, _ := doublestar.Match(glob, rel); !ok {
				return nil
			}
		}

		if info, err := d.Info(); err != nil || info.Size() > safety.MaxFileSize {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if !strings.Contains(strings.ToLower(line), lowered) {
				continue
			}
			if len(line) > maxSearchLineLen {
				line = line[:maxSearchLineLen] + "..."
			}
			matches = append(matches, fmt.Sprintf("%s:%d: %s", rel, lineNum, strings.TrimSpace(line)))
			if len(matches) >= maxSearchMatches {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return "", err
	}

	if len(matches) == 0 {
		return "No matches found.", nil
	}
	out := strings.Join(matches, "\n")
	if len(matches) >= maxSearchMatches {
		out += fmt.Sprintf("\n... (stopped at %d matches)", maxSearchMatches)
	}
	return out, nil
}

// FindFileTool locates files by name through the index.
type FindFileTool struct {
	cache *cache.Cache
}

func NewFindFileTool(c *cache.Cache) *FindFileTool {
	return &FindFileTool{cache: c}
}

func (t *FindFileTool) Name() string { return "find_file" }

func (t *FindFileTool) Description() string {
	return "Finds files whose name contains the query, using the workspace file index."
}

func (t *FindFileTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"query": prop("string", "Substring of the file name to look for"),
	}, "query")
}

func (t *FindFileTool) Validate(args map[string]any) error {
	return requireString(args, "query")
}

func (t *FindFileTool) Execute(ctx context.Context, req Request) (string, error) {
	query, _ := GetString(req.Args, "query")
	results := t.cache.FindFiles(query)
	if len(results) == 0 {
		return "No files found.", nil
	}
	return strings.Join(results, "\n"), nil
}
