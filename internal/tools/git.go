package tools

import (
	"context"
	"encoding/json"

	"scribe/internal/git"
)

// GitStatusTool reports working-tree status.
type GitStatusTool struct {
	runner *git.Runner
}

func NewGitStatusTool(runner *git.Runner) *GitStatusTool {
	return &GitStatusTool{runner: runner}
}

func (t *GitStatusTool) Name() string        { return "git_status" }
func (t *GitStatusTool) Description() string { return "Shows the git working-tree status of the workspace." }
func (t *GitStatusTool) Parameters() json.RawMessage {
	return schema(map[string]any{})
}
func (t *GitStatusTool) Validate(args map[string]any) error { return nil }

func (t *GitStatusTool) Execute(ctx context.Context, req Request) (string, error) {
	return t.runner.Status(ctx)
}

// GitDiffTool shows unstaged changes.
type GitDiffTool struct {
	runner *git.Runner
}

func NewGitDiffTool(runner *git.Runner) *GitDiffTool {
	return &GitDiffTool{runner: runner}
}

func (t *GitDiffTool) Name() string        { return "git_diff" }
func (t *GitDiffTool) Description() string { return "Shows unstaged git changes, optionally for one file." }
func (t *GitDiffTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"path": prop("string", "Optional path to limit the diff"),
	})
}
func (t *GitDiffTool) Validate(args map[string]any) error { return nil }

func (t *GitDiffTool) Execute(ctx context.Context, req Request) (string, error) {
	path := GetStringDefault(req.Args, "path", "")
	return t.runner.Diff(ctx, path)
}

// GitLogTool shows recent commits.
type GitLogTool struct {
	runner *git.Runner
}

func NewGitLogTool(runner *git.Runner) *GitLogTool {
	return &GitLogTool{runner: runner}
}

func (t *GitLogTool) Name() string        { return "git_log" }
func (t *GitLogTool) Description() string { return "Shows recent git commits, one line each." }
func (t *GitLogTool) Parameters() json.RawMessage {
	return schema(map[string]any{
		"limit": prop("integer", "Number of commits to show (default 10)"),
	})
}
func (t *GitLogTool) Validate(args map[string]any) error { return nil }

func (t *GitLogTool) Execute(ctx context.Context, req Request) (string, error) {
	limit := GetIntDefault(req.Args, "limit", 10)
	return t.runner.Log(ctx, limit)
}
