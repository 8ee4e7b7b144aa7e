// Package llm wraps the Groq chat-completion endpoint for grammar
// correction and translation of transcribed text.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Dolcruz/stt-desktop/internal/config"
)

const defaultModel = "llama-3.3-70b-versatile"

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Client performs chat completions. Safe for concurrent use.
type Client struct {
	cfg        config.Settings
	model      string
	apiKey     func() string
	httpClient *http.Client
}

// New creates a chat-completion client sharing the app's HTTP client.
func New(cfg config.Settings, httpClient *http.Client, apiKey func() string) *Client {
	if apiKey == nil {
		apiKey = func() string { return config.APIKey(config.GroqKeyName) }
	}
	return &Client{cfg: cfg, model: defaultModel, apiKey: apiKey, httpClient: httpClient}
}

// Complete sends one system+user exchange and returns the assistant reply.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c.apiKey() == "" {
		return "", fmt.Errorf("GROQ_API_KEY not configured; set it in settings or the environment")
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ChatEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	slog.Debug("chat completion", "status", resp.StatusCode, "duration", time.Since(start).Round(time.Millisecond))

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// CorrectGrammar fixes grammar and punctuation without changing meaning or
// language.
func (c *Client) CorrectGrammar(ctx context.Context, text string) (string, error) {
	const system = "You are a copy editor. Fix grammar, punctuation and casing of the " +
		"user's text. Keep the original language and meaning. Output only the corrected text."
	return c.Complete(ctx, system, text)
}

// Translate renders text into targetLanguage.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	system := fmt.Sprintf("You are a translator. Translate the user's text into %s. "+
		"Output only the translation, nothing else.", targetLanguage)
	return c.Complete(ctx, system, text)
}
