package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"scribe/internal/editor"
)

// ActiveFileTool reports the focused editor file.
type ActiveFileTool struct {
	ed editor.Editor
}

func NewActiveFileTool(ed editor.Editor) *ActiveFileTool { return &ActiveFileTool{ed: ed} }

func (t *ActiveFileTool) Name() string        { return "get_active_file" }
func (t *ActiveFileTool) Description() string { return "Returns the path of the currently active editor file." }
func (t *ActiveFileTool) Parameters() json.RawMessage {
	return schema(map[string]any{})
}
func (t *ActiveFileTool) Validate(args map[string]any) error { return nil }

func (t *ActiveFileTool) Execute(ctx context.Context, req Request) (string, error) {
	path := t.ed.ActiveFile()
	if path == "" {
		return "No active file.", nil
	}
	return path, nil
}

// SelectionTool returns the current editor selection.
type SelectionTool struct {
	ed editor.Editor
}

func NewSelectionTool(ed editor.Editor) *SelectionTool { return &SelectionTool{ed: ed} }

func (t *SelectionTool) Name() string        { return "get_selection" }
func (t *SelectionTool) Description() string { return "Returns the currently selected text in the editor." }
func (t *SelectionTool) Parameters() json.RawMessage {
	return schema(map[string]any{})
}
func (t *SelectionTool) Validate(args map[string]any) error { return nil }

func (t *SelectionTool) Execute(ctx context.Context, req Request) (string, error) {
	sel := t.ed.Selection()
	if sel == "" {
		return "No text selected.", nil
	}
	return sel, nil
}

// ReplaceSelectionTool swaps the selection for new text.
type ReplaceSelectionTool struct {
	ed editor.Editor
}

func NewReplaceSelectionTool(ed editor.Editor) *ReplaceSelectionTool {
	return &ReplaceSelectionTool{ed: ed}
}

func (t *ReplaceSelectionTool) Name() string        { return "replace_selection" }
func (t *ReplaceSelectionTool) Description() string { return "Replaces the current editor selection with new text." }
func (t *ReplaceSelectionTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"text": prop("string", "The replacement text"),
	}, "text")
}
func (t *ReplaceSelectionTool) Validate(args map[string]any) error {
	if _, ok := GetString(args, "text"); !ok {
		return ValidationError{Field: "text", Message: "is required"}
	}
	return nil
}

func (t *ReplaceSelectionTool) Execute(ctx context.Context, req Request) (string, error) {
	text, _ := GetString(req.Args, "text")
	if err := t.ed.ReplaceSelection(text); err != nil {
		return "", fmt.Errorf("replacing selection: %w", err)
	}
	return "Selection replaced.", nil
}

// InsertTextTool inserts text at the cursor.
type InsertTextTool struct {
	ed editor.Editor
}

func NewInsertTextTool(ed editor.Editor) *InsertTextTool { return &InsertTextTool{ed: ed} }

func (t *InsertTextTool) Name() string        { return "insert_text" }
func (t *InsertTextTool) Description() string { return "Inserts text at the current cursor position." }
func (t *InsertTextTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"text": prop("string", "The text to insert"),
	}, "text")
}
func (t *InsertTextTool) Validate(args map[string]any) error {
	if _, ok := GetString(args, "text"); !ok {
		return ValidationError{Field: "text", Message: "is required"}
	}
	return nil
}

func (t *InsertTextTool) Execute(ctx context.Context, req Request) (string, error) {
	text, _ := GetString(req.Args, "text")
	if err := t.ed.InsertText(text); err != nil {
		return "", fmt.Errorf("inserting text: %w", err)
	}
	return "Text inserted.", nil
}

// OpenFilesTool lists all open editor files.
type OpenFilesTool struct {
	ed editor.Editor
}

func NewOpenFilesTool(ed editor.Editor) *OpenFilesTool { return &OpenFilesTool{ed: ed} }

func (t *OpenFilesTool) Name() string        { return "get_open_files" }
func (t *OpenFilesTool) Description() string { return "Returns the paths of all files open in the editor." }
func (t *OpenFilesTool) Parameters() json.RawMessage {
	return schema(map[string]any{})
}
func (t *OpenFilesTool) Validate(args map[string]any) error { return nil }

func (t *OpenFilesTool) Execute(ctx context.Context, req Request) (string, error) {
	files := t.ed.OpenFiles()
	if len(files) == 0 {
		return "No open files.", nil
	}
	return strings.Join(files, "\n"), nil
}

// DiagnosticsTool reports editor problems.
type DiagnosticsTool struct {
	ed editor.Editor
}

func NewDiagnosticsTool(ed editor.Editor) *DiagnosticsTool { return &DiagnosticsTool{ed: ed} }

func (t *DiagnosticsTool) Name() string { return "get_diagnostics" }
func (t *DiagnosticsTool) Description() string {
	return "Returns current editor diagnostics (errors and warnings), optionally for one file."
}
func (t *DiagnosticsTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"path": prop("string", "Optional file path to filter diagnostics"),
	})
}
func (t *DiagnosticsTool) Validate(args map[string]any) error { return nil }

func (t *DiagnosticsTool) Execute(ctx context.Context, req Request) (string, error) {
	path := GetStringDefault(req.Args, "path", "")
	diags := t.ed.Diagnostics(path)
	if len(diags) == 0 {
		return "No diagnostics.", nil
	}

	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, fmt.Sprintf("%s:%d [%s] %s", d.File, d.Line, d.Severity, d.Message))
	}
	return strings.Join(lines, "\n"), nil
}
