package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func respondWith(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteTextAnswer(t *testing.T) {
	srv := respondWith(t, `{"choices":[{"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`)
	c := NewClient(srv.URL, 5*time.Second)

	msg, err := c.Complete(context.Background(), ChatRequest{Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Content != "hello" || msg.Role != RoleAssistant {
		t.Errorf("message = %+v", msg)
	}
}

func TestCompleteToolCalls(t *testing.T) {
	srv := respondWith(t, `{"choices":[{"message":{"role":"assistant","tool_calls":[
		{"id":"call_1","type":"function","function":{"name":"read_file","arguments":"{\"path\":\"main.go\"}"}}
	]}}]}`)
	c := NewClient(srv.URL, 5*time.Second)

	msg, err := c.Complete(context.Background(), ChatRequest{Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.ToolCalls) != 1 {
		t.Fatalf("ToolCalls = %+v", msg.ToolCalls)
	}
	call := msg.ToolCalls[0]
	if call.ID != "call_1" || call.Function.Name != "read_file" {
		t.Errorf("call = %+v", call)
	}
	if got := call.Function.Args()["path"]; got != "main.go" {
		t.Errorf("args = %v", call.Function.Args())
	}
}

func TestCompleteSendsRequestBody(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	req := ChatRequest{
		Model:       "qwen2.5-coder",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: 0.7,
		MaxTokens:   100,
	}
	if _, err := c.Complete(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if got.Model != "qwen2.5-coder" || len(got.Messages) != 1 || got.MaxTokens != 100 {
		t.Errorf("server saw %+v", got)
	}
}

func TestCompleteErrorObject(t *testing.T) {
	srv := respondWith(t, `{"error":{"message":"model not found","type":"invalid_request_error"}}`)
	c := NewClient(srv.URL, 5*time.Second)

	_, err := c.Complete(context.Background(), ChatRequest{Model: "m"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "model not found" {
		t.Errorf("err = %v", err)
	}
}

func TestCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Complete(context.Background(), ChatRequest{}); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := respondWith(t, `{"choices":[]}`)
	c := NewClient(srv.URL, 5*time.Second)

	if _, err := c.Complete(context.Background(), ChatRequest{}); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestCompleteCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		// Drain the body so the server starts its background read and can
		// observe the client disconnect; otherwise r.Context() never fires
		// and srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Complete(ctx, ChatRequest{})
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
}

func TestFunctionCallArgs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"valid", `{"a":1,"b":"x"}`, 2},
		{"empty string", "", 0},
		{"invalid json", `{"a":`, 0},
		{"non-object", `"hello"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FunctionCall{Name: "t", Arguments: tt.raw}
			args := f.Args()
			if args == nil {
				t.Fatal("Args returned nil")
			}
			if len(args) != tt.want {
				t.Errorf("len(Args) = %d, want %d", len(args), tt.want)
			}
		})
	}
}
