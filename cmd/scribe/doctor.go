package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/llm"
)

// newDoctorCmd diagnoses the local model server: reachability, configured
// model availability, and optionally pulls a missing model.
func newDoctorCmd() *cobra.Command {
	var pull bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the local LLM server and the configured model",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir, err := resolveWorkDir()
			if err != nil {
				return err
			}
			cfg, err := config.Load(workDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			admin, err := llm.NewOllamaAdmin(serverBase(cfg.APIURL))
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if err := admin.Healthcheck(ctx); err != nil {
				return err
			}
			fmt.Println("server: ok")

			has, err := admin.HasModel(ctx, cfg.Model)
			if err != nil {
				return err
			}
			if has {
				fmt.Printf("model %s: installed\n", cfg.Model)
				return nil
			}

			if !pull {
				models, err := admin.ListModels(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("model %s: NOT installed\n", cfg.Model)
				if len(models) > 0 {
					fmt.Println("available models:", strings.Join(models, ", "))
				}
				fmt.Println("run `scribe doctor --pull` to download it")
				return fmt.Errorf("configured model is missing")
			}

			fmt.Printf("pulling %s...\n", cfg.Model)
			var lastStatus string
			err = admin.PullModel(ctx, cfg.Model, func(status string, percent float64) {
				if status != lastStatus {
					fmt.Println(status)
					lastStatus = status
				} else if percent > 0 {
					fmt.Printf("\r%s: %.0f%%", status, percent)
				}
			})
			fmt.Println()
			if err != nil {
				return err
			}
			fmt.Printf("model %s: installed\n", cfg.Model)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pull, "pull", false, "download the configured model if missing")
	return cmd
}

// serverBase derives the management base URL from the chat-completions
// endpoint by dropping its path.
func serverBase(apiURL string) string {
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
