package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"scribe/internal/logging"
	"scribe/internal/safety"
)

const maxCommandOutput = 10000

// RunCommandTool executes a shell command in the workspace root. Commands
// are screened by the safety gate's blocklist and bounded by the
// configured command timeout.
type RunCommandTool struct {
	gate *safety.Gate
}

func NewRunCommandTool(gate *safety.Gate) *RunCommandTool {
	return &RunCommandTool{gate: gate}
}

func (t *RunCommandTool) Name() string { return "run_command" }

func (t *RunCommandTool) Description() string {
	return "Runs a shell command in the workspace root and returns its combined output."
}

func (t *RunCommandTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"command": prop("string", "The shell command to run"),
	}, "command")
}

func (t *RunCommandTool) Validate(args map[string]any) error {
	return requireString(args, "command")
}

func (t *RunCommandTool) Execute(ctx context.Context, req Request) (string, error) {
	command, _ := GetString(req.Args, "command")

	if ok, reason := t.gate.IsCommandSafe(command); !ok {
		return "", fmt.Errorf("%s", reason)
	}

	timeout := 30 * time.Second
	if req.Config != nil {
		timeout = req.Config.CommandTimeout()
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = t.gate.WorkDir()
	out, err := cmd.CombinedOutput()

	logging.Info("run_command",
		"command", command,
		"duration", time.Since(start),
		"error", err != nil)

	output := strings.TrimRight(string(out), "\n")
	if len(output) > maxCommandOutput {
		output = output[:maxCommandOutput] + "\n... (output truncated)"
	}

	if execCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("command timed out after %s", timeout)
	}
	if err != nil {
		if output == "" {
			return "", fmt.Errorf("command failed: %w", err)
		}
		return fmt.Sprintf("Command failed (%v):\n%s", err, output), nil
	}

	if output == "" {
		return "(no output)", nil
	}
	return output, nil
}
