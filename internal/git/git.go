// Package git shells out to the git binary for read-only repository
// inspection. All commands run with a context deadline.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git commands inside one repository.
type Runner struct {
	workDir string
}

// NewRunner creates a Runner for the given working directory.
func NewRunner(workDir string) *Runner {
	return &Runner{workDir: workDir}
}

func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.workDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return string(out), nil
}

// Status returns porcelain status output, one file per line.
func (r *Runner) Status(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "status", "--porcelain", "-uall")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "working tree clean", nil
	}
	return strings.TrimRight(out, "\n"), nil
}

// Diff returns the unstaged diff, optionally limited to one path.
func (r *Runner) Diff(ctx context.Context, path string) (string, error) {
	args := []string{"diff"}
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := r.run(ctx, args...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "no changes", nil
	}
	return out, nil
}

// Log returns the most recent commits, one line each.
func (r *Runner) Log(ctx context.Context, limit int) (string, error) {
	if limit <= 0 {
		limit = 10
	}
	out, err := r.run(ctx, "log", fmt.Sprintf("-%d", limit), "--oneline", "--decorate")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
