package replicate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRunReturnsOutputsWhenPredictionCompletesInline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predictions" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer r8_test" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		if got := r.Header.Get("Prefer"); got != "wait" {
			t.Fatalf("Prefer header = %q, want wait", got)
		}
		var payload struct {
			Version string         `json:"version"`
			Input   map[string]any `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Version != "v1" {
			t.Fatalf("version = %q, want v1", payload.Version)
		}
		if payload.Input["prompt"] != "hello" {
			t.Fatalf("prompt = %v, want hello", payload.Input["prompt"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "p1",
			"status": StatusSucceeded,
			"output": []string{"https://replicate.delivery/a.png", "https://replicate.delivery/b.png"},
		})
	}))
	defer ts.Close()

	client, err := NewClient(Options{APIToken: "r8_test", BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	outputs, err := client.Run(context.Background(), "v1", map[string]any{"prompt": "hello"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(outputs) != 2 || outputs[0] != "https://replicate.delivery/a.png" {
		t.Fatalf("unexpected outputs: %v", outputs)
	}
}

func TestRunPollsUntilTerminal(t *testing.T) {
	var mu sync.Mutex
	polls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case r.Method == http.MethodPost:
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "p2", "status": StatusStarting})
		case r.Method == http.MethodGet && r.URL.Path == "/predictions/p2":
			polls++
			if polls < 2 {
				_ = json.NewEncoder(w).Encode(map[string]any{"id": "p2", "status": StatusProcessing})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "p2", "status": StatusSucceeded, "output": "https://replicate.delivery/one.png"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client, _ := NewClient(Options{APIToken: "r8_test", BaseURL: ts.URL, PollInterval: time.Millisecond})
	outputs, err := client.Run(context.Background(), "v1", map[string]any{"prompt": "hello"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(outputs) != 1 || outputs[0] != "https://replicate.delivery/one.png" {
		t.Fatalf("unexpected outputs: %v", outputs)
	}
	if polls != 2 {
		t.Fatalf("polls = %d, want 2", polls)
	}
}

func TestRunSurfacesPredictionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "p3",
			"status": StatusFailed,
			"error":  "NSFW content detected. Try running it again, or try a different prompt.",
		})
	}))
	defer ts.Close()

	client, _ := NewClient(Options{APIToken: "r8_test", BaseURL: ts.URL})
	_, err := client.Run(context.Background(), "v1", map[string]any{"prompt": "hello"})
	var predErr *PredictionError
	if !errors.As(err, &predErr) {
		t.Fatalf("expected PredictionError, got %v", err)
	}
	if !strings.Contains(predErr.Error(), "NSFW") {
		t.Fatalf("error %q lost the model message", predErr.Error())
	}
	if predErr.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", predErr.Status)
	}
}

func TestRunHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"title": "Unauthenticated", "detail": "You did not pass a valid authentication token"})
	}))
	defer ts.Close()

	client, _ := NewClient(Options{APIToken: "bad", BaseURL: ts.URL})
	_, err := client.Run(context.Background(), "v1", nil)
	if err == nil || !strings.Contains(err.Error(), "valid authentication token") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunMissingToken(t *testing.T) {
	client, _ := NewClient(Options{})
	if _, err := client.Run(context.Background(), "v1", nil); !errors.Is(err, ErrMissingAPIToken) {
		t.Fatalf("expected ErrMissingAPIToken, got %v", err)
	}
}

func TestNewClientDefaultTimeoutOutlastsPreferWait(t *testing.T) {
	c, err := NewClient(Options{APIToken: "r8_test"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.httpClient.Timeout != DefaultRequestTimeout {
		t.Fatalf("timeout = %s, want %s", c.httpClient.Timeout, DefaultRequestTimeout)
	}
	if c.httpClient.Timeout <= 60*time.Second {
		t.Fatalf("timeout %s would cut off a held create call", c.httpClient.Timeout)
	}

	c, _ = NewClient(Options{APIToken: "r8_test", RequestTimeout: 5 * time.Minute})
	if c.httpClient.Timeout != 5*time.Minute {
		t.Fatalf("explicit timeout ignored: %s", c.httpClient.Timeout)
	}
}
