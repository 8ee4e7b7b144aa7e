// Package tts wraps the ElevenLabs text-to-speech API used by dialog mode.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dolcruz/stt-desktop/internal/config"
)

const (
	defaultVoiceID = "JBFqnCBsd6RMkjVDRZzb" // George, multilingual
	defaultModelID = "eleven_multilingual_v2"
	outputFormat   = "mp3_44100_128"
)

// voices maps dialog languages to multilingual voice IDs.
var voices = map[string]string{
	"Deutsch":     "pNInz6obpgDQGcFmaJgB",
	"Englisch":    "JBFqnCBsd6RMkjVDRZzb",
	"Spanisch":    "EXAVITQu4vr4xnSDxMaL",
	"Französisch": "ThT5KcBeYPX3keUQqHPh",
	"Italienisch": "ErXwobaYiN019PkySvjV",
	"Arabisch":    "MF3mGyEYCl7XYWbV9V6O",
}

// VoiceFor returns the voice ID configured for language, falling back to the
// default multilingual voice.
func VoiceFor(language string) string {
	if id, ok := voices[language]; ok {
		return id
	}
	return defaultVoiceID
}

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Client converts text to speech. Safe for concurrent use.
type Client struct {
	cfg        config.Settings
	apiKey     func() string
	httpClient *http.Client
}

// New creates a TTS client.
func New(cfg config.Settings, httpClient *http.Client, apiKey func() string) *Client {
	if apiKey == nil {
		apiKey = func() string { return config.APIKey(config.ElevenLabsKeyName) }
	}
	return &Client{cfg: cfg, apiKey: apiKey, httpClient: httpClient}
}

// IsConfigured reports whether an API key is available.
func (c *Client) IsConfigured() bool {
	return c.apiKey() != ""
}

// Synthesize converts text to MP3 audio using the given voice.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY not configured; set it in settings or the environment")
	}
	if voiceID == "" {
		voiceID = defaultVoiceID
	}

	payload, err := json.Marshal(synthesizeRequest{Text: text, ModelID: defaultModelID})
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		strings.TrimSuffix(c.cfg.TTSEndpoint, "/"), voiceID, outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	slog.Debug("tts request", "status", resp.StatusCode, "bytes", len(body),
		"duration", time.Since(start).Round(time.Millisecond))
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

// SaveTemp writes synthesized audio to a uniquely named MP3 in dir, creating
// dir if absent. The caller deletes the file after playback.
func SaveTemp(dir string, audio []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	path := filepath.Join(dir, fmt.Sprintf("speech-%s-%s.mp3", time.Now().Format("20060102-150405"), id))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	return path, nil
}
