package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"scribe/internal/agent"
	"scribe/internal/cache"
	"scribe/internal/config"
	"scribe/internal/editor"
	"scribe/internal/git"
	"scribe/internal/logging"
	"scribe/internal/safety"
	"scribe/internal/storage"
	"scribe/internal/tools"
	"scribe/internal/watcher"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	toolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// app wires the assistant together for one REPL session.
type app struct {
	workDir  string
	agent    *agent.Agent
	registry *tools.Registry
	watcher  *watcher.Watcher
	reader   *bufio.Reader
}

// consoleNotifier prints agent events to the terminal.
type consoleNotifier struct {
	renderer *glamour.TermRenderer
}

func (n *consoleNotifier) Notify(text string) {
	if n.renderer != nil {
		if out, err := n.renderer.Render(text); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Println(text)
}

func (n *consoleNotifier) ToolCall(name string, args map[string]any) {
	parts := make([]string, 0, len(args))
	for k, v := range args {
		s := fmt.Sprintf("%v", v)
		if len(s) > 60 {
			s = s[:60] + "..."
		}
		parts = append(parts, fmt.Sprintf("%s=%s", k, s))
	}
	fmt.Println(toolStyle.Render(fmt.Sprintf("  ⚙ %s(%s)", name, strings.Join(parts, ", "))))
}

func (n *consoleNotifier) ThreadChanged(id string) {
	if id == "" {
		fmt.Println(infoStyle.Render("Started a new thread."))
		return
	}
	fmt.Println(infoStyle.Render("Switched to thread " + id + "."))
}

// stdinConfirmer asks for write approval on the shared terminal reader.
type stdinConfirmer struct {
	reader *bufio.Reader
}

func (c *stdinConfirmer) ConfirmWrite(ctx context.Context, path string, oldLines, newLines int, diff string) (bool, error) {
	fmt.Printf("\n%s (%d -> %d lines):\n%s\n", path, oldLines, newLines, diff)
	fmt.Print(promptStyle.Render("Apply this write? [y/N] "))

	line, err := c.reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func runREPL(cmd *cobra.Command) error {
	workDir, err := resolveWorkDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(workDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	setupLogging(workDir, cfg)
	defer logging.Close()

	a, err := buildApp(workDir)
	if err != nil {
		return err
	}
	defer a.watcher.Close()

	fmt.Println(infoStyle.Render("scribe " + version + " - workspace " + workDir))
	fmt.Println(toolStyle.Render("Type /help for commands."))

	// Ctrl+C stops the in-flight model request instead of killing the REPL.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		for range sigCh {
			a.agent.Stop()
		}
	}()

	for {
		fmt.Print(promptStyle.Render("> "))
		line, err := a.reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := a.handleCommand(cmd.Context(), input); quit {
				return nil
			}
			continue
		}

		if _, err := a.agent.Chat(cmd.Context(), input); err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
		}
	}
}

// buildApp assembles the stores, safety gate, caches, tools and agent for
// a workspace.
func buildApp(workDir string) (*app, error) {
	dataDir := config.DataDir(workDir)
	gate := safety.NewGate(workDir, filepath.Join(dataDir, "backups"))
	fileCache := cache.New(workDir)

	reader := bufio.NewReader(os.Stdin)
	memory := storage.NewMemoryStore(dataDir)
	registry, writeTool := tools.NewDefaultRegistry(tools.Deps{
		Gate:   gate,
		Cache:  fileCache,
		Memory: memory,
		Editor: editor.NewState(),
		Git:    git.NewRunner(workDir),
	})
	writeTool.SetConfirmer(&stdinConfirmer{reader: reader})

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		logging.Warn("markdown renderer unavailable, using plain output", "error", err)
	}

	w, err := watcher.New(workDir, fileCache)
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("starting watcher: %w", err)
	}

	ag := agent.New(workDir,
		tools.NewExecutor(registry),
		storage.NewThreadStore(dataDir),
		memory,
		&consoleNotifier{renderer: renderer})

	return &app{
		workDir:  workDir,
		agent:    ag,
		registry: registry,
		watcher:  w,
		reader:   reader,
	}, nil
}

// handleCommand executes a slash command. Returns true to quit the REPL.
func (a *app) handleCommand(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	command, args := fields[0], fields[1:]

	switch command {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Println(`Commands:
  /new           start a fresh thread
  /threads       list saved threads
  /load <id>     switch to a saved thread
  /delete <id>   delete a saved thread
  /undo          undo the last file change
  /stop          stop the in-flight model request
  /quit          exit`)

	case "/new":
		a.agent.NewThread()

	case "/threads":
		metas, err := a.agent.ListThreads()
		if err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			break
		}
		if len(metas) == 0 {
			fmt.Println("No saved threads.")
			break
		}
		for _, m := range metas {
			fmt.Printf("%s  %s  %s\n", m.ID, m.UpdatedAt.Format("2006-01-02 15:04"), m.Title)
		}

	case "/load":
		if len(args) != 1 {
			fmt.Println("Usage: /load <id>")
			break
		}
		if err := a.agent.LoadThread(args[0]); err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
		}

	case "/delete":
		if len(args) != 1 {
			fmt.Println("Usage: /delete <id>")
			break
		}
		if err := a.agent.DeleteThread(args[0]); err != nil {
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			break
		}
		fmt.Println(infoStyle.Render("Deleted thread " + args[0] + "."))

	case "/undo":
		a.runTool(ctx, "undo")

	case "/stop":
		a.agent.Stop()

	default:
		fmt.Println("Unknown command. Type /help for commands.")
	}
	return false
}

// runTool invokes a registered tool directly, outside a model turn.
func (a *app) runTool(ctx context.Context, name string) {
	tool, ok := a.registry.Get(name)
	if !ok {
		fmt.Println(errorStyle.Render("Error: no such tool " + name))
		return
	}
	cfg, err := config.Load(a.workDir)
	if err != nil {
		cfg = config.Default()
	}
	result, err := tool.Execute(ctx, tools.Request{Args: map[string]any{}, Config: cfg})
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return
	}
	fmt.Println(result)
}
