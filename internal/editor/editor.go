// Package editor is the seam to the embedding editor. The assistant core
// consumes editor state through this narrow interface; the editor's own
// implementation lives outside this module.
package editor

import "sync"

// Diagnostic is one editor-reported problem for a file.
type Diagnostic struct {
	File     string
	Line     int
	Severity string
	Message  string
}

// Editor exposes the editor state the tools need.
type Editor interface {
	// ActiveFile returns the path of the focused file, or "" when none.
	ActiveFile() string
	// Selection returns the currently selected text.
	Selection() string
	// ReplaceSelection swaps the selection for the given text.
	ReplaceSelection(text string) error
	// InsertText inserts text at the cursor.
	InsertText(text string) error
	// OpenFiles returns the paths of all open files.
	OpenFiles() []string
	// Diagnostics returns current problems, optionally filtered by file.
	Diagnostics(file string) []Diagnostic
}

// State is an in-process Editor used by the CLI front end and by tests.
type State struct {
	activeFile  string
	selection   string
	inserted    []string
	openFiles   []string
	diagnostics []Diagnostic
	mu          sync.Mutex
}

// NewState creates an empty editor state.
func NewState() *State {
	return &State{}
}

func (s *State) ActiveFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeFile
}

func (s *State) SetActiveFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeFile = path
}

func (s *State) Selection() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *State) SetSelection(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = text
}

func (s *State) ReplaceSelection(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = text
	return nil
}

func (s *State) InsertText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, text)
	return nil
}

// Inserted returns all text inserted so far.
func (s *State) Inserted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.inserted))
	copy(out, s.inserted)
	return out
}

func (s *State) OpenFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.openFiles))
	copy(out, s.openFiles)
	return out
}

func (s *State) SetOpenFiles(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openFiles = paths
}

func (s *State) Diagnostics(file string) []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file == "" {
		out := make([]Diagnostic, len(s.diagnostics))
		copy(out, s.diagnostics)
		return out
	}
	var out []Diagnostic
	for _, d := range s.diagnostics {
		if d.File == file {
			out = append(out, d)
		}
	}
	return out
}

func (s *State) SetDiagnostics(diags []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = diags
}
