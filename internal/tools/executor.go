package tools

import (
	"context"
	"fmt"
	"time"

	"scribe/internal/config"
	"scribe/internal/llm"
	"scribe/internal/logging"
)

// Executor dispatches model tool calls through a registry. Every failure
// mode, unknown tool, bad arguments, execution error, is folded into a
// text result so the conversation keeps going.
type Executor struct {
	registry *Registry
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Registry returns the backing registry.
func (e *Executor) Registry() *Registry { return e.registry }

// Execute runs a single tool call and returns the tool-role message that
// answers it. The returned message always carries the call's ID.
func (e *Executor) Execute(ctx context.Context, call llm.ToolCall, cfg *config.Config) llm.Message {
	result := e.run(ctx, call, cfg)
	return llm.Message{
		Role:       llm.RoleTool,
		Content:    result,
		ToolCallID: call.ID,
	}
}

func (e *Executor) run(ctx context.Context, call llm.ToolCall, cfg *config.Config) string {
	name := call.Function.Name

	tool, ok := e.registry.Get(name)
	if !ok {
		logging.Warn("unknown tool requested", "tool", name)
		return fmt.Sprintf("Error: unknown tool %q", name)
	}

	args := call.Function.Args()
	if err := tool.Validate(args); err != nil {
		logging.Warn("tool validation failed", "tool", name, "error", err)
		return fmt.Sprintf("Error: %v", err)
	}

	start := time.Now()
	result, err := tool.Execute(ctx, Request{Args: args, Config: cfg})
	logging.Debug("tool executed",
		"tool", name,
		"duration", time.Since(start),
		"error", err != nil)

	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return result
}
