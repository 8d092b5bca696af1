package tools

import (
	"context"
	"encoding/json"
	"strings"

	"scribe/internal/storage"
)

// RememberTool stores a fact in the workspace memory.
type RememberTool struct {
	store *storage.MemoryStore
}

func NewRememberTool(store *storage.MemoryStore) *RememberTool {
	return &RememberTool{store: store}
}

func (t *RememberTool) Name() string { return "remember" }

func (t *RememberTool) Description() string {
	return "Stores a fact in persistent memory, shared across all conversations in this workspace."
}

func (t *RememberTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"fact": prop("string", "The fact to remember"),
	}, "fact")
}

func (t *RememberTool) Validate(args map[string]any) error {
	return requireString(args, "fact")
}

func (t *RememberTool) Execute(ctx context.Context, req Request) (string, error) {
	fact, _ := GetString(req.Args, "fact")
	if t.store.Remember(fact) {
		return "Remembered: " + fact, nil
	}
	return "Already known: " + fact, nil
}

// RecallTool lists remembered facts.
type RecallTool struct {
	store *storage.MemoryStore
}

func NewRecallTool(store *storage.MemoryStore) *RecallTool {
	return &RecallTool{store: store}
}

func (t *RecallTool) Name() string { return "recall" }

func (t *RecallTool) Description() string {
	return "Lists all facts stored in persistent memory."
}

func (t *RecallTool) Parameters() json.RawMessage {
	return schema(map[string]any{})
}

func (t *RecallTool) Validate(args map[string]any) error { return nil }

func (t *RecallTool) Execute(ctx context.Context, req Request) (string, error) {
	facts := t.store.Facts()
	if len(facts) == 0 {
		return "Memory is empty.", nil
	}
	return strings.Join(facts, "\n"), nil
}

// ForgetTool removes a fact from memory.
type ForgetTool struct {
	store *storage.MemoryStore
}

func NewForgetTool(store *storage.MemoryStore) *ForgetTool {
	return &ForgetTool{store: store}
}

func (t *ForgetTool) Name() string { return "forget" }

func (t *ForgetTool) Description() string {
	return "Removes a fact from persistent memory by exact text match."
}

func (t *ForgetTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"fact": prop("string", "The exact fact text to forget"),
	}, "fact")
}

func (t *ForgetTool) Validate(args map[string]any) error {
	return requireString(args, "fact")
}

func (t *ForgetTool) Execute(ctx context.Context, req Request) (string, error) {
	fact, _ := GetString(req.Args, "fact")
	if t.store.Forget(fact) {
		return "Forgot: " + fact, nil
	}
	return "No such fact: " + fact, nil
}
