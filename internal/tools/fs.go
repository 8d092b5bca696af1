package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"scribe/internal/cache"
	"scribe/internal/fileutil"
	"scribe/internal/safety"
)

// WriteConfirmer presents a pending write for explicit approval. It is an
// external collaborator; the CLI front end supplies one, and it is only
// consulted when the confirm_before_write policy is enabled.
type WriteConfirmer interface {
	ConfirmWrite(ctx context.Context, path string, oldLines, newLines int, diff string) (bool, error)
}

// ListFilesTool lists a directory inside the workspace.
type ListFilesTool struct {
	gate *safety.Gate
}

func NewListFilesTool(gate *safety.Gate) *ListFilesTool {
	return &ListFilesTool{gate: gate}
}

func (t *ListFilesTool) Name() string { return "list_files" }

func (t *ListFilesTool) Description() string {
	return "Lists files and directories at a workspace-relative path. Directories are suffixed with '/'."
}

func (t *ListFilesTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"path": prop("string", "Workspace-relative directory path; defaults to the workspace root"),
	})
}

func (t *ListFilesTool) Validate(args map[string]any) error { return nil }

func (t *ListFilesTool) Execute(ctx context.Context, req Request) (string, error) {
	path := GetStringDefault(req.Args, "path", ".")
	if ok, reason := t.gate.IsPathSafe(path); !ok {
		return "", fmt.Errorf("%s", reason)
	}

	entries, err := os.ReadDir(t.gate.Resolve(path))
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return "(empty directory)", nil
	}
	return strings.Join(names, "\n"), nil
}

// ReadFileTool reads a file through the content cache.
type ReadFileTool struct {
	gate  *safety.Gate
	cache *cache.Cache
}

func NewReadFileTool(gate *safety.Gate, c *cache.Cache) *ReadFileTool {
	return &ReadFileTool{gate: gate, cache: c}
}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Reads the content of a file at a workspace-relative path."
}

func (t *ReadFileTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"path": prop("string", "Workspace-relative file path"),
	}, "path")
}

func (t *ReadFileTool) Validate(args map[string]any) error {
	return requireString(args, "path")
}

func (t *ReadFileTool) Execute(ctx context.Context, req Request) (string, error) {
	path, _ := GetString(req.Args, "path")
	if ok, reason := t.gate.IsPathSafe(path); !ok {
		return "", fmt.Errorf("%s", reason)
	}
	if ok, size := t.gate.CheckFileSize(path); !ok {
		return "", fmt.Errorf("file too large (%d bytes, limit %d)", size, safety.MaxFileSize)
	}

	abs := t.gate.Resolve(path)
	rel := t.cache.Rel(abs)

	if content, ok := t.cache.GetFile(rel); ok {
		return content, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)
	t.cache.SetFile(rel, content)
	return content, nil
}

// WriteFileTool writes a file with backup, undo bookkeeping and optional
// confirmation.
type WriteFileTool struct {
	gate      *safety.Gate
	cache     *cache.Cache
	confirmer WriteConfirmer
}

func NewWriteFileTool(gate *safety.Gate, c *cache.Cache) *WriteFileTool {
	return &WriteFileTool{gate: gate, cache: c}
}

// SetConfirmer wires the confirmation collaborator.
func (t *WriteFileTool) SetConfirmer(c WriteConfirmer) { t.confirmer = c }

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return "Writes content to a file, creating it if needed. The previous content is backed up and the change can be undone."
}

func (t *WriteFileTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"path":    prop("string", "Workspace-relative file path"),
		"content": prop("string", "The full new content of the file"),
	}, "path", "content")
}

func (t *WriteFileTool) Validate(args map[string]any) error {
	if err := requireString(args, "path"); err != nil {
		return err
	}
	if _, ok := GetString(args, "content"); !ok {
		return ValidationError{Field: "content", Message: "is required"}
	}
	return nil
}

func (t *WriteFileTool) Execute(ctx context.Context, req Request) (string, error) {
	path, _ := GetString(req.Args, "path")
	content, _ := GetString(req.Args, "content")

	if ok, reason := t.gate.IsPathSafe(path); !ok {
		return "", fmt.Errorf("%s", reason)
	}
	if len(content) > safety.MaxFileSize {
		return "", fmt.Errorf("content too large (%d bytes, limit %d)", len(content), safety.MaxFileSize)
	}

	abs := t.gate.Resolve(path)

	var oldContent []byte
	_, statErr := os.Stat(abs)
	isNew := os.IsNotExist(statErr)
	if !isNew {
		var err error
		oldContent, err = os.ReadFile(abs)
		if err != nil {
			return "", fmt.Errorf("reading existing file: %w", err)
		}
	}

	if req.Config != nil && req.Config.ConfirmBeforeWrite && t.confirmer != nil {
		diff := safety.Diff(string(oldContent), content)
		approved, err := t.confirmer.ConfirmWrite(ctx, path,
			countLines(string(oldContent)), countLines(content), diff)
		if err != nil {
			return "", fmt.Errorf("confirmation failed: %w", err)
		}
		if !approved {
			return "Write cancelled by user.", nil
		}
	}

	if (req.Config == nil || req.Config.BackupBeforeWrite) && !isNew {
		if _, err := t.gate.BackupFile(path); err != nil {
			return "", fmt.Errorf("backup failed: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("creating directories: %w", err)
	}
	if err := fileutil.AtomicWrite(abs, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	if isNew {
		t.gate.RecordChange(path, nil, []byte(content))
		t.cache.OnCreate(abs)
	} else {
		t.gate.RecordChange(path, oldContent, []byte(content))
		t.cache.OnChange(abs)
	}

	if isNew {
		return fmt.Sprintf("Created %s (%d bytes)", path, len(content)), nil
	}
	return fmt.Sprintf("Updated %s (%d bytes)", path, len(content)), nil
}

// DeleteFileTool removes a file with backup and undo bookkeeping.
type DeleteFileTool struct {
	gate  *safety.Gate
	cache *cache.Cache
}

func NewDeleteFileTool(gate *safety.Gate, c *cache.Cache) *DeleteFileTool {
	return &DeleteFileTool{gate: gate, cache: c}
}

func (t *DeleteFileTool) Name() string { return "delete_file" }

func (t *DeleteFileTool) Description() string {
	return "Deletes a file. The previous content is backed up and the deletion can be undone."
}

func (t *DeleteFileTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"path": prop("string", "Workspace-relative file path"),
	}, "path")
}

func (t *DeleteFileTool) Validate(args map[string]any) error {
	return requireString(args, "path")
}

func (t *DeleteFileTool) Execute(ctx context.Context, req Request) (string, error) {
	path, _ := GetString(req.Args, "path")
	if ok, reason := t.gate.IsPathSafe(path); !ok {
		return "", fmt.Errorf("%s", reason)
	}

	abs := t.gate.Resolve(path)
	oldContent, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if req.Config == nil || req.Config.BackupBeforeWrite {
		if _, err := t.gate.BackupFile(path); err != nil {
			return "", fmt.Errorf("backup failed: %w", err)
		}
	}

	if err := os.Remove(abs); err != nil {
		return "", fmt.Errorf("deleting %s: %w", path, err)
	}

	t.gate.RecordChange(path, oldContent, nil)
	t.cache.OnDelete(abs)

	return fmt.Sprintf("Deleted %s", path), nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
