package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// OllamaAdmin wraps the Ollama management API for server diagnostics.
// Chat traffic goes through Client against the OpenAI-compatible endpoint;
// this type only checks server health and model availability.
type OllamaAdmin struct {
	client *api.Client
}

// NewOllamaAdmin creates an admin client for the Ollama server at baseURL
// (default http://localhost:11434).
func NewOllamaAdmin(baseURL string) (*OllamaAdmin, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	httpClient := &http.Client{Timeout: 30 * time.Second}
	return &OllamaAdmin{client: api.NewClient(parsed, httpClient)}, nil
}

// Healthcheck verifies the server is reachable. The SDK has no explicit
// ping, so List doubles as the probe.
func (a *OllamaAdmin) Healthcheck(ctx context.Context) error {
	if _, err := a.client.List(ctx); err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return fmt.Errorf("ollama server is not running (start it with `ollama serve`): %w", err)
		}
		return err
	}
	return nil
}

// ListModels returns the names of locally installed models.
func (a *OllamaAdmin) ListModels(ctx context.Context) ([]string, error) {
	resp, err := a.client.List(ctx)
	if err != nil {
		return nil, err
	}
	models := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// HasModel reports whether a model is installed locally, tolerating a
// missing ":latest" tag.
func (a *OllamaAdmin) HasModel(ctx context.Context, name string) (bool, error) {
	models, err := a.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if m == name || m == name+":latest" || strings.HasPrefix(m, name+":") {
			return true, nil
		}
	}
	return false, nil
}

// PullModel downloads a model, reporting progress as a percentage.
func (a *OllamaAdmin) PullModel(ctx context.Context, name string, progress func(status string, percent float64)) error {
	req := &api.PullRequest{Model: name}
	return a.client.Pull(ctx, req, func(resp api.ProgressResponse) error {
		if progress != nil {
			var percent float64
			if resp.Total > 0 {
				percent = float64(resp.Completed) / float64(resp.Total) * 100
			}
			progress(resp.Status, percent)
		}
		return nil
	})
}
