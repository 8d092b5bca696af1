package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"scribe/internal/logging"
)

// ErrCancelled marks a request aborted by cancellation or timeout. The
// agent loop treats it as a graceful stop, not an error.
var ErrCancelled = errors.New("llm: request cancelled")

// Completer is the narrow surface the agent loop depends on. The HTTP
// client implements it; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, req ChatRequest) (*Message, error)
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint URL. timeout bounds
// each request; the same cancellation path fires on explicit stop.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete sends one chat request and returns choices[0].message.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*Message, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("calling %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed ChatResponse
		if json.Unmarshal(data, &parsed) == nil && parsed.Error != nil {
			return nil, fmt.Errorf("endpoint error (HTTP %d): %w", resp.StatusCode, parsed.Error)
		}
		return nil, fmt.Errorf("endpoint returned HTTP %d", resp.StatusCode)
	}

	var parsed ChatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("malformed response body: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("endpoint error: %w", parsed.Error)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("response has no choices")
	}

	logging.Debug("chat completion",
		"model", req.Model,
		"messages", len(req.Messages),
		"tool_calls", len(parsed.Choices[0].Message.ToolCalls),
		"duration", time.Since(start))

	return &parsed.Choices[0].Message, nil
}
