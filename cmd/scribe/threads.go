package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/storage"
)

// newThreadsCmd lists saved threads without starting the REPL.
func newThreadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "threads",
		Short: "List saved conversation threads",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := resolveWorkDir()
			if err != nil {
				return err
			}

			store := storage.NewThreadStore(config.DataDir(workDir))
			metas, err := store.List()
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				fmt.Println("No saved threads.")
				return nil
			}
			for _, m := range metas {
				fmt.Printf("%s  %s  %s\n", m.ID, m.UpdatedAt.Format("2006-01-02 15:04"), m.Title)
			}
			return nil
		},
	}
}
