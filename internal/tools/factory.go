package tools

import (
	"scribe/internal/cache"
	"scribe/internal/editor"
	"scribe/internal/git"
	"scribe/internal/safety"
	"scribe/internal/storage"
)

// Deps collects the collaborators shared by the default tool set.
type Deps struct {
	Gate   *safety.Gate
	Cache  *cache.Cache
	Memory *storage.MemoryStore
	Editor editor.Editor
	Git    *git.Runner
}

// NewDefaultRegistry builds the full tool set. Registration order matches
// the order the tools are advertised to the model. The returned write tool
// is exposed so the front end can attach a confirmer.
func NewDefaultRegistry(d Deps) (*Registry, *WriteFileTool) {
	r := NewRegistry()
	write := NewWriteFileTool(d.Gate, d.Cache)

	r.Register(NewListFilesTool(d.Gate))
	r.Register(NewReadFileTool(d.Gate, d.Cache))
	r.Register(write)
	r.Register(NewDeleteFileTool(d.Gate, d.Cache))
	r.Register(NewSearchFilesTool(d.Gate))
	r.Register(NewFindFileTool(d.Cache))
	r.Register(NewProjectStructureTool(d.Gate, d.Cache))
	r.Register(NewFileOutlineTool(d.Gate, d.Cache))
	r.Register(NewCacheStatsTool(d.Cache))
	r.Register(NewRunCommandTool(d.Gate))
	r.Register(NewActiveFileTool(d.Editor))
	r.Register(NewSelectionTool(d.Editor))
	r.Register(NewReplaceSelectionTool(d.Editor))
	r.Register(NewInsertTextTool(d.Editor))
	r.Register(NewOpenFilesTool(d.Editor))
	r.Register(NewDiagnosticsTool(d.Editor))
	r.Register(NewRememberTool(d.Memory))
	r.Register(NewRecallTool(d.Memory))
	r.Register(NewForgetTool(d.Memory))
	r.Register(NewUndoTool(d.Gate, d.Cache))
	r.Register(NewGitStatusTool(d.Git))
	r.Register(NewGitDiffTool(d.Git))
	r.Register(NewGitLogTool(d.Git))

	return r, write
}
