package asr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dolcruz/stt-desktop/internal/config"
)

func testWav(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording-test.wav")
	if err := os.WriteFile(path, []byte("RIFFfake"), 0o644); err != nil {
		t.Fatalf("write temp wav: %v", err)
	}
	return path
}

func testClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.ASREndpoint = endpoint
	cfg.MaxRetry = 2
	cfg.RetryBaseDelay = 0
	return New(cfg, &http.Client{Timeout: 2 * time.Second}, func() string { return "test-key" })
}

func TestTranscribeExtractsText(t *testing.T) {
	var gotAuth, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hallo welt","language":"de"}`))
	}))
	defer server.Close()

	res, err := testClient(t, server.URL).Transcribe(context.Background(), testWav(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if res.Text != "hallo welt" {
		t.Fatalf("text = %q", res.Text)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotModel != "whisper-large-v3" {
		t.Fatalf("model field = %q", gotModel)
	}
}

func TestTranscribeRetryExhausted(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Transcribe(context.Background(), testWav(t))
	if err == nil {
		t.Fatalf("expected error")
	}
	var re *RetryExhaustedError
	if !errors.As(err, &re) {
		t.Fatalf("expected RetryExhaustedError, got %T: %v", err, err)
	}
	if re.Attempts != 2 || calls != 2 {
		t.Fatalf("attempts=%d calls=%d, want 2/2", re.Attempts, calls)
	}
}

func TestTranscribeRecoversAfterFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"text":"second try"}`))
	}))
	defer server.Close()

	res, err := testClient(t, server.URL).Transcribe(context.Background(), testWav(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if res.Text != "second try" || calls != 2 {
		t.Fatalf("text=%q calls=%d", res.Text, calls)
	}
}

func TestTranscribeMissingKey(t *testing.T) {
	cfg := config.Default()
	c := New(cfg, http.DefaultClient, func() string { return "" })
	if _, err := c.Transcribe(context.Background(), "nonexistent.wav"); err == nil {
		t.Fatalf("expected error for missing API key")
	}
}
