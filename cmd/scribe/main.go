// Command scribe is a terminal front end for the workspace coding
// assistant. It talks to a locally hosted LLM server and exposes the
// assistant's tools over an interactive REPL.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/logging"
)

var version = "dev"

var workDirFlag string

func main() {
	root := &cobra.Command{
		Use:          "scribe",
		Short:        "Workspace coding assistant backed by a local LLM",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&workDirFlag, "workdir", "C", "", "workspace root (default: current directory)")

	root.AddCommand(newDoctorCmd())
	root.AddCommand(newThreadsCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("scribe", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveWorkDir returns the absolute workspace root.
func resolveWorkDir() (string, error) {
	dir := workDirFlag
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace %s is not a directory", abs)
	}
	return abs, nil
}

// setupLogging applies the config's logging section. File logging writes
// into the workspace data directory so the REPL output stays clean.
func setupLogging(workDir string, cfg *config.Config) {
	if !cfg.Logging.ToFile {
		return
	}
	dataDir := config.DataDir(workDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fmt.Fprintln(os.Stderr, "warning: cannot create data directory:", err)
		return
	}
	if err := logging.EnableFileLogging(dataDir, logging.Level(cfg.Logging.Level)); err != nil {
		fmt.Fprintln(os.Stderr, "warning: cannot open log file:", err)
	}
}
