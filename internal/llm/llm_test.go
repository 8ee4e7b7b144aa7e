package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dolcruz/stt-desktop/internal/config"
)

func testClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.ChatEndpoint = endpoint
	return New(cfg, &http.Client{Timeout: 2 * time.Second}, func() string { return "test-key" })
}

func TestCompleteParsesChoice(t *testing.T) {
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Hello world.  "}}]}`))
	}))
	defer server.Close()

	out, err := testClient(t, server.URL).Complete(context.Background(), "sys", "usr")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "Hello world." {
		t.Fatalf("content = %q", out)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
	if gotBody.Temperature != 0 {
		t.Fatalf("temperature = %v, want 0", gotBody.Temperature)
	}
}

func TestCompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	if _, err := testClient(t, server.URL).Complete(context.Background(), "sys", "usr"); err == nil {
		t.Fatalf("expected error for 429")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	if _, err := testClient(t, server.URL).Complete(context.Background(), "sys", "usr"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestTranslatePrompt(t *testing.T) {
	var system string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		system = req.Messages[0].Content
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Hallo"}}]}`))
	}))
	defer server.Close()

	out, err := testClient(t, server.URL).Translate(context.Background(), "Hello", "Deutsch")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "Hallo" {
		t.Fatalf("translation = %q", out)
	}
	if !strings.Contains(system, "Deutsch") {
		t.Fatalf("system prompt does not name target language: %q", system)
	}
}

func TestMissingKey(t *testing.T) {
	cfg := config.Default()
	c := New(cfg, http.DefaultClient, func() string { return "" })
	if _, err := c.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatalf("expected error for missing API key")
	}
}
