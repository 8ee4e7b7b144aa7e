package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const appName = "STTDesktop"

// Settings holds runtime and persisted settings for the app.
// Keep JSON names stable for backward compatibility with existing config files.
type Settings struct {
	// Hotkeys
	ToggleHotkey string `json:"toggle_hotkey"`
	CancelKey    string `json:"cancel_key"`

	// Audio
	SampleRateHz     int `json:"sample_rate_hz"`
	Channels         int `json:"channels"`
	BitDepth         int `json:"bit_depth"`          // informational; output is always 16-bit PCM WAV
	InputDeviceIndex int `json:"input_device_index"` // -1 selects the default device

	// Recording behavior
	MaxDurationSeconds  int     `json:"max_duration_seconds"` // 0 = unlimited
	SilenceThresholdRMS float64 `json:"silence_threshold_rms"`
	SilenceMinSeconds   float64 `json:"silence_min_seconds"`
	// When false, recording will NOT auto-stop on silence.
	StopOnSilence bool `json:"stop_on_silence"`

	// UX behavior
	AutoCopy              bool `json:"auto_copy"`
	AutoPaste             bool `json:"auto_paste"`
	AutoClosePopupSeconds int  `json:"auto_close_popup_seconds"`
	HistoryLimit          int  `json:"history_limit"`
	Notification          bool `json:"notification"`

	// Transcription
	Model          string `json:"model"`
	ResponseFormat string `json:"response_format"`
	Language       string `json:"language"` // empty lets the model detect

	// Post-processing via chat completion
	CorrectGrammar bool   `json:"correct_grammar"`
	TranslateTo    string `json:"translate_to"` // empty disables translation

	// Dialog mode (two-speaker voice translation)
	DialogLanguageA string `json:"dialog_language_a"`
	DialogLanguageB string `json:"dialog_language_b"`

	// API endpoints and transport
	ASREndpoint           string  `json:"asr_endpoint"`
	ChatEndpoint          string  `json:"chat_endpoint"`
	TTSEndpoint           string  `json:"tts_endpoint"`
	RequestTimeoutSeconds int     `json:"request_timeout_seconds"`
	MaxRetry              int     `json:"max_retry"`
	RetryBaseDelay        float64 `json:"retry_base_delay"`
	EnableHTTP2           bool    `json:"enable_http2"`

	Debug bool `json:"debug"`
}

// Default returns Settings with default values.
func Default() Settings {
	return Settings{
		ToggleHotkey:          "alt+t",
		CancelKey:             "esc",
		SampleRateHz:          16000,
		Channels:              1,
		BitDepth:              16,
		InputDeviceIndex:      -1,
		MaxDurationSeconds:    0,
		SilenceThresholdRMS:   0.02,
		SilenceMinSeconds:     1.5,
		StopOnSilence:         false,
		AutoCopy:              true,
		AutoPaste:             false,
		AutoClosePopupSeconds: 10,
		HistoryLimit:          20,
		Notification:          true,
		Model:                 "whisper-large-v3",
		ResponseFormat:        "verbose_json",
		Language:              "",
		CorrectGrammar:        false,
		TranslateTo:           "",
		DialogLanguageA:       "Deutsch",
		DialogLanguageB:       "Englisch",
		ASREndpoint:           "https://api.groq.com/openai/v1/audio/transcriptions",
		ChatEndpoint:          "https://api.groq.com/openai/v1/chat/completions",
		TTSEndpoint:           "https://api.elevenlabs.io",
		RequestTimeoutSeconds: 120,
		MaxRetry:              3,
		RetryBaseDelay:        1.0,
		EnableHTTP2:           true,
		Debug:                 false,
	}
}

// AppDir returns the OS-appropriate application data directory, creating it
// if absent. On Windows this is %LOCALAPPDATA%\STTDesktop.
func AppDir() (string, error) {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create app dir: %w", err)
	}
	return dir, nil
}

// TempDir returns the directory recordings are written to.
func TempDir() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "temp"), nil
}

// ConfigPath returns the path of the persisted config file.
func ConfigPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads settings from path, falling back to defaults when the file is
// missing or corrupted. A default config is persisted on first run.
func Load(path string) Settings {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		_ = Save(path, s)
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Default()
	}
	migrate(&s, path)
	return s
}

// Save persists settings as indented JSON.
func Save(path string, s Settings) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// migrate rewrites legacy values. The previous default max duration was 60
// seconds and now means unlimited; only rewritten when the user left it at
// the old default.
func migrate(s *Settings, path string) {
	if s.MaxDurationSeconds == 60 {
		s.MaxDurationSeconds = 0
		_ = Save(path, *s)
	}
}

// Validate verifies settings fields and returns an error on the first
// invalid value.
func Validate(s *Settings) error {
	if s.Channels < 1 || s.Channels > 8 {
		return fmt.Errorf("invalid channels: %d (allowed 1..8)", s.Channels)
	}
	if s.SampleRateHz <= 0 {
		return fmt.Errorf("invalid sample_rate_hz: %d (must be > 0)", s.SampleRateHz)
	}
	if s.SilenceThresholdRMS < 0 || s.SilenceThresholdRMS > 1 {
		return fmt.Errorf("invalid silence_threshold_rms: %v (allowed 0..1)", s.SilenceThresholdRMS)
	}
	if s.SilenceMinSeconds < 0 {
		return fmt.Errorf("invalid silence_min_seconds: %v (must be >= 0)", s.SilenceMinSeconds)
	}
	if s.MaxDurationSeconds < 0 {
		return fmt.Errorf("invalid max_duration_seconds: %d (must be >= 0)", s.MaxDurationSeconds)
	}
	if s.MaxRetry < 1 {
		return fmt.Errorf("invalid max_retry: %d (must be >= 1)", s.MaxRetry)
	}
	if s.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds: %d (must be > 0)", s.RequestTimeoutSeconds)
	}
	return nil
}
