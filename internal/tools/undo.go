package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"scribe/internal/cache"
	"scribe/internal/safety"
)

// UndoTool reverts the most recent file write or delete. Strictly
// single-step; there is no redo.
type UndoTool struct {
	gate  *safety.Gate
	cache *cache.Cache
}

func NewUndoTool(gate *safety.Gate, c *cache.Cache) *UndoTool {
	return &UndoTool{gate: gate, cache: c}
}

func (t *UndoTool) Name() string { return "undo" }

func (t *UndoTool) Description() string {
	return "Undoes the most recent file change made by this assistant."
}

func (t *UndoTool) Parameters() json.RawMessage {
	return schema(map[string]any{})
}

func (t *UndoTool) Validate(args map[string]any) error { return nil }

func (t *UndoTool) Execute(ctx context.Context, req Request) (string, error) {
	change, err := t.gate.UndoLastChange()
	if err != nil {
		return "", err
	}

	if change.Created() {
		t.cache.OnDelete(change.Path)
		return fmt.Sprintf("Undid creation of %s (file removed)", change.Path), nil
	}
	t.cache.OnChange(change.Path)
	return fmt.Sprintf("Restored previous content of %s", change.Path), nil
}
