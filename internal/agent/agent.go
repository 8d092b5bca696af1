// Package agent runs the tool-calling conversation loop: it sends the
// transcript to the model, executes any tool calls it issues, and repeats
// until the model produces a final text answer or the round cap is hit.
package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"scribe/internal/config"
	"scribe/internal/llm"
	"scribe/internal/logging"
	"scribe/internal/storage"
	"scribe/internal/tools"
)

// maxRounds caps the number of model calls per user turn. A model stuck in
// a tool loop gets cut off with a warning instead of spinning forever.
const maxRounds = 15

const stoppedMessage = "Stopped."

const maxRoundsMessage = "I hit the maximum number of tool rounds for this request without reaching a final answer. The work done so far is applied; ask me to continue if you want me to keep going."

// Notifier receives agent events for presentation. All methods are called
// from the goroutine running Chat.
type Notifier interface {
	// Notify delivers a final assistant message.
	Notify(text string)
	// ToolCall announces a tool invocation. Only fired when the
	// show_tool_calls setting is on.
	ToolCall(name string, args map[string]any)
	// ThreadChanged reports that the active thread switched. An empty id
	// means a fresh, unsaved thread.
	ThreadChanged(id string)
}

// CompleterFactory builds the model client for one round from the current
// configuration. The default wires the HTTP client; tests substitute fakes.
type CompleterFactory func(cfg *config.Config) llm.Completer

// Agent owns one conversation at a time plus the workspace-wide stores.
type Agent struct {
	workDir      string
	executor     *tools.Executor
	threads      *storage.ThreadStore
	memory       *storage.MemoryStore
	notifier     Notifier
	newCompleter CompleterFactory

	mu        sync.Mutex
	messages  []llm.Message
	threadID  string
	title     string
	createdAt time.Time

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

// New creates an agent with a fresh, unsaved thread.
func New(workDir string, executor *tools.Executor, threads *storage.ThreadStore, memory *storage.MemoryStore, notifier Notifier) *Agent {
	a := &Agent{
		workDir:  workDir,
		executor: executor,
		threads:  threads,
		memory:   memory,
		notifier: notifier,
		newCompleter: func(cfg *config.Config) llm.Completer {
			return llm.NewClient(cfg.APIURL, cfg.Timeout())
		},
	}
	a.reset()
	return a
}

// SetCompleterFactory overrides how the per-round model client is built.
func (a *Agent) SetCompleterFactory(f CompleterFactory) {
	a.newCompleter = f
}

// ThreadID returns the active thread id, empty for an unsaved thread.
func (a *Agent) ThreadID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.threadID
}

// Chat runs one user turn to completion and returns the final assistant
// text. Tool calls issued along the way are executed in order; their
// results go back to the model until it answers in plain text.
func (a *Agent) Chat(ctx context.Context, text string) (string, error) {
	a.mu.Lock()
	if a.title == "" {
		a.title = storage.TitleFromText(text)
	}
	a.messages = append(a.messages, llm.Message{Role: llm.RoleUser, Content: text})
	a.mu.Unlock()

	for round := 0; round < maxRounds; round++ {
		cfg, err := config.Load(a.workDir)
		if err != nil {
			logging.Warn("config reload failed, using defaults", "error", err)
			cfg = config.Default()
		}

		a.refreshSystemPrompt(cfg)

		msg, err := a.complete(ctx, cfg)
		if errors.Is(err, llm.ErrCancelled) {
			logging.Info("turn stopped", "round", round)
			a.finish(llm.Message{Role: llm.RoleAssistant, Content: stoppedMessage}, cfg)
			return stoppedMessage, nil
		}
		if err != nil {
			return "", err
		}

		if len(msg.ToolCalls) > 0 {
			// Some models omit call ids; both sides of the pairing need one.
			for i := range msg.ToolCalls {
				if msg.ToolCalls[i].ID == "" {
					msg.ToolCalls[i].ID = "call_" + uuid.NewString()[:8]
				}
			}

			a.mu.Lock()
			a.messages = append(a.messages, *msg)
			a.mu.Unlock()

			for _, call := range msg.ToolCalls {
				if cfg.ShowToolCalls && a.notifier != nil {
					a.notifier.ToolCall(call.Function.Name, call.Function.Args())
				}
				result := a.executor.Execute(ctx, call, cfg)
				a.mu.Lock()
				a.messages = append(a.messages, result)
				a.mu.Unlock()
			}
			continue
		}

		if strings.TrimSpace(msg.Content) != "" {
			a.finish(*msg, cfg)
			return msg.Content, nil
		}

		// Neither tool calls nor content. Ask again.
		logging.Debug("empty completion, retrying", "round", round)
	}

	cfg, err := config.Load(a.workDir)
	if err != nil {
		cfg = config.Default()
	}
	logging.Warn("round cap reached without a final answer")
	a.finish(llm.Message{Role: llm.RoleAssistant, Content: maxRoundsMessage}, cfg)
	return maxRoundsMessage, nil
}

// Stop cancels the in-flight model request, if any. Tool executions that
// are already running are left to finish.
func (a *Agent) Stop() {
	a.cancelMu.Lock()
	defer a.cancelMu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// NewThread abandons the current conversation and starts a fresh, unsaved
// one. The previous thread remains on disk if it was ever saved.
func (a *Agent) NewThread() {
	a.mu.Lock()
	a.reset()
	a.mu.Unlock()

	if a.notifier != nil {
		a.notifier.ThreadChanged("")
	}
}

// LoadThread replaces the current conversation with a persisted one. The
// system prompt is re-seeded from the live configuration, not from disk.
func (a *Agent) LoadThread(id string) error {
	t, err := a.threads.Load(id)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.threadID = t.ID
	a.title = t.Title
	a.createdAt = t.CreatedAt
	a.messages = append([]llm.Message{{Role: llm.RoleSystem}}, t.Messages...)
	a.mu.Unlock()

	if a.notifier != nil {
		a.notifier.ThreadChanged(id)
	}
	return nil
}

// DeleteThread removes a persisted thread. Deleting the active thread
// keeps the in-memory conversation but detaches it, so a later save
// creates a new thread instead of resurrecting the deleted one.
func (a *Agent) DeleteThread(id string) error {
	if err := a.threads.Delete(id); err != nil {
		return err
	}

	a.mu.Lock()
	if a.threadID == id {
		a.threadID = ""
	}
	a.mu.Unlock()
	return nil
}

// ListThreads returns persisted thread metadata, newest first.
func (a *Agent) ListThreads() ([]storage.ThreadMeta, error) {
	return a.threads.List()
}

// Save persists the current conversation, assigning an id on first save.
func (a *Agent) Save() error {
	a.mu.Lock()
	if a.threadID == "" {
		a.threadID = storage.NewThreadID()
	}
	t := &storage.Thread{
		ID:        a.threadID,
		Title:     a.title,
		CreatedAt: a.createdAt,
		Messages:  append([]llm.Message(nil), a.messages[1:]...),
	}
	a.mu.Unlock()

	return a.threads.Save(t)
}

// complete performs one model call with a cancel hook installed for Stop.
func (a *Agent) complete(ctx context.Context, cfg *config.Config) (*llm.Message, error) {
	callCtx, cancel := context.WithCancel(ctx)
	a.cancelMu.Lock()
	a.cancel = cancel
	a.cancelMu.Unlock()
	defer func() {
		a.cancelMu.Lock()
		a.cancel = nil
		a.cancelMu.Unlock()
		cancel()
	}()

	a.mu.Lock()
	msgs := append([]llm.Message(nil), a.messages...)
	a.mu.Unlock()

	req := llm.ChatRequest{
		Model:       cfg.Model,
		Messages:    msgs,
		Tools:       a.executor.Registry().Specs(),
		ToolChoice:  "auto",
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
	return a.newCompleter(cfg).Complete(callCtx, req)
}

// finish appends the final assistant message, notifies, and auto-saves.
func (a *Agent) finish(msg llm.Message, cfg *config.Config) {
	a.mu.Lock()
	a.messages = append(a.messages, msg)
	a.mu.Unlock()

	if a.notifier != nil {
		a.notifier.Notify(msg.Content)
	}
	if cfg.AutoSave {
		if err := a.Save(); err != nil {
			logging.Warn("auto-save failed", "error", err)
		}
	}
}

// reset clears to a fresh unsaved thread. Callers must hold mu or have
// exclusive access.
func (a *Agent) reset() {
	a.threadID = ""
	a.title = ""
	a.createdAt = time.Now()
	a.messages = []llm.Message{{Role: llm.RoleSystem}}
}

// refreshSystemPrompt rebuilds messages[0] from the current configuration
// and memory, so facts remembered mid-turn take effect immediately.
func (a *Agent) refreshSystemPrompt(cfg *config.Config) {
	prompt := systemPrompt
	if facts := a.memory.Facts(); len(facts) > 0 {
		prompt += "\n\n" + storage.Memory{Facts: facts}.String()
	}
	if cfg.SystemPromptAddition != "" {
		prompt += "\n\n" + cfg.SystemPromptAddition
	}

	a.mu.Lock()
	a.messages[0] = llm.Message{Role: llm.RoleSystem, Content: prompt}
	a.mu.Unlock()
}

const systemPrompt = `You are a coding assistant embedded in a text editor, working inside a single project workspace.

You have tools for reading and writing files, searching the project, running shell commands, inspecting the editor state, using git, and storing facts in persistent memory. Use them instead of guessing: read a file before editing it, search before claiming something does not exist.

Rules:
- All paths are relative to the workspace root. You cannot touch anything outside it.
- File writes are backed up and undoable; still, prefer minimal, targeted edits.
- When a tool returns a message starting with "Error:", adjust your approach and try again or explain the problem.
- Answer in plain text when you are done. Keep answers short and concrete.`
