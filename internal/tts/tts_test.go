package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Dolcruz/stt-desktop/internal/config"
)

func testClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.TTSEndpoint = endpoint
	return New(cfg, &http.Client{Timeout: 2 * time.Second}, func() string { return "el-key" })
}

func TestSynthesize(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		_, _ = w.Write([]byte("mp3data"))
	}))
	defer server.Close()

	audio, err := testClient(t, server.URL).Synthesize(context.Background(), "Hallo", VoiceFor("Deutsch"))
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(audio) != "mp3data" {
		t.Fatalf("audio = %q", audio)
	}
	if !strings.HasPrefix(gotPath, "/v1/text-to-speech/") {
		t.Fatalf("path = %q", gotPath)
	}
	if !strings.Contains(gotPath, voices["Deutsch"]) {
		t.Fatalf("voice missing from path: %q", gotPath)
	}
	if gotKey != "el-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
}

func TestSynthesizeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid key"}`))
	}))
	defer server.Close()

	if _, err := testClient(t, server.URL).Synthesize(context.Background(), "x", ""); err == nil {
		t.Fatalf("expected error for 401")
	}
}

func TestVoiceForFallback(t *testing.T) {
	if VoiceFor("Klingonisch") != defaultVoiceID {
		t.Fatalf("unknown language should fall back to default voice")
	}
	if VoiceFor("Deutsch") == defaultVoiceID {
		t.Fatalf("Deutsch should map to its own voice")
	}
}

func TestNotConfigured(t *testing.T) {
	cfg := config.Default()
	c := New(cfg, http.DefaultClient, func() string { return "" })
	if c.IsConfigured() {
		t.Fatalf("IsConfigured true without key")
	}
	if _, err := c.Synthesize(context.Background(), "x", ""); err == nil {
		t.Fatalf("expected error without key")
	}
}

func TestSaveTemp(t *testing.T) {
	dir := t.TempDir() + "/nested"
	path, err := SaveTemp(dir, []byte("audio"))
	if err != nil {
		t.Fatalf("SaveTemp failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "audio" {
		t.Fatalf("read back failed: %v %q", err, data)
	}
	if !strings.HasSuffix(path, ".mp3") {
		t.Fatalf("unexpected extension: %s", path)
	}
}
