// Package asr uploads recorded WAV files to the Groq Whisper transcription
// endpoint and extracts the transcribed text.
package asr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Dolcruz/stt-desktop/internal/config"
	"github.com/Dolcruz/stt-desktop/internal/jsonpath"
)

// RetryExhaustedError is returned when all upload attempts failed.
type RetryExhaustedError struct {
	Attempts int
	MaxRetry int
	Last     string // last response body or transport error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("transcription failed after %d/%d attempts: %s", e.Attempts, e.MaxRetry, e.Last)
}

// Result carries the extracted text plus the raw response for history/cache.
type Result struct {
	Text string
	Raw  []byte
}

// Client performs transcription uploads. Safe for concurrent use.
type Client struct {
	cfg        config.Settings
	apiKey     func() string
	httpClient *http.Client
}

// New creates a transcription client. apiKey is resolved lazily per request
// so keyring updates take effect without restarting.
func New(cfg config.Settings, httpClient *http.Client, apiKey func() string) *Client {
	if apiKey == nil {
		apiKey = func() string { return config.APIKey(config.GroqKeyName) }
	}
	return &Client{cfg: cfg, apiKey: apiKey, httpClient: httpClient}
}

// Transcribe uploads the audio file with exponential backoff and returns the
// transcribed text.
func (c *Client) Transcribe(ctx context.Context, wavPath string) (Result, error) {
	if c.apiKey() == "" {
		return Result{}, fmt.Errorf("GROQ_API_KEY not configured; set it in settings or the environment")
	}

	delay := c.cfg.RetryBaseDelay
	var last string
	for attempt := 1; attempt <= c.cfg.MaxRetry; attempt++ {
		body, err := c.upload(ctx, wavPath)
		if err == nil {
			text := jsonpath.Extract(body, "text")
			return Result{Text: text, Raw: body}, nil
		}
		last = err.Error()
		slog.Warn("transcription attempt failed", "attempt", attempt, "err", err)

		if attempt == c.cfg.MaxRetry {
			break
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(time.Duration(delay * float64(time.Second))):
		}
		delay *= 2
	}
	return Result{}, &RetryExhaustedError{Attempts: c.cfg.MaxRetry, MaxRetry: c.cfg.MaxRetry, Last: last}
}

func (c *Client) upload(ctx context.Context, wavPath string) ([]byte, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy audio: %w", err)
	}
	_ = w.WriteField("model", c.cfg.Model)
	if c.cfg.ResponseFormat != "" {
		_ = w.WriteField("response_format", c.cfg.ResponseFormat)
	}
	if c.cfg.Language != "" {
		_ = w.WriteField("language", c.cfg.Language)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ASREndpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	slog.Debug("transcription request", "status", resp.StatusCode, "duration", time.Since(start).Round(time.Millisecond))

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(respBody, 500))
	}
	return respBody, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s... (truncated, total %d bytes)", b[:n], len(b))
}
