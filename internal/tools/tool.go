// Package tools implements the capabilities the model can invoke. Every
// tool takes a named-argument mapping and returns a single text result;
// failures come back as text prefixed "Error:" so the model can react
// instead of the round aborting.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"scribe/internal/config"
	"scribe/internal/llm"
)

// Tool is one model-invocable capability.
type Tool interface {
	// Name returns the unique tool name exposed on the wire.
	Name() string

	// Description returns the description sent to the model.
	Description() string

	// Parameters returns the JSON-schema object for the tool's arguments.
	Parameters() json.RawMessage

	// Validate checks the argument mapping before execution.
	Validate(args map[string]any) error

	// Execute runs the tool and returns its text result.
	Execute(ctx context.Context, req Request) (string, error)
}

// Request carries the decoded arguments plus the per-round configuration
// snapshot into a tool execution.
type Request struct {
	Args   map[string]any
	Config *config.Config
}

// ValidationError reports a bad or missing tool argument.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// GetString extracts a string argument.
func GetString(args map[string]any, key string) (string, bool) {
	val, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// GetStringDefault extracts a string argument with a default.
func GetStringDefault(args map[string]any, key, def string) string {
	if s, ok := GetString(args, key); ok {
		return s
	}
	return def
}

// GetInt extracts an integer argument. JSON numbers arrive as float64.
func GetInt(args map[string]any, key string) (int, bool) {
	val, ok := args[key]
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// GetIntDefault extracts an integer argument with a default.
func GetIntDefault(args map[string]any, key string, def int) int {
	if n, ok := GetInt(args, key); ok {
		return n
	}
	return def
}

// GetBool extracts a boolean argument.
func GetBool(args map[string]any, key string) (bool, bool) {
	val, ok := args[key]
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// requireString validates that a non-empty string argument is present.
func requireString(args map[string]any, key string) error {
	s, ok := GetString(args, key)
	if !ok || s == "" {
		return ValidationError{Field: key, Message: "is required"}
	}
	return nil
}

// schema builds a JSON-schema parameters object. The helper panics on
// marshal failure, which can only happen from a programming error in a
// tool declaration.
func schema(props map[string]any, required ...string) json.RawMessage {
	if required == nil {
		required = []string{}
	}
	obj := map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
	data, err := json.Marshal(obj)
	if err != nil {
		panic(fmt.Sprintf("tools: invalid schema: %v", err))
	}
	return data
}

// prop is a shorthand for one schema property.
func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

// Spec converts a tool into its wire representation.
func Spec(t Tool) llm.ToolSpec {
	return llm.ToolSpec{
		Type: "function",
		Function: llm.FunctionSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		},
	}
}
