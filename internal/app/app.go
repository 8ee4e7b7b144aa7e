// Package app wires configuration, recording, transcription and output
// handling into the application's run modes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/http2"

	"github.com/Dolcruz/stt-desktop/internal/asr"
	"github.com/Dolcruz/stt-desktop/internal/clipboard"
	"github.com/Dolcruz/stt-desktop/internal/config"
	"github.com/Dolcruz/stt-desktop/internal/history"
	"github.com/Dolcruz/stt-desktop/internal/hotkey"
	"github.com/Dolcruz/stt-desktop/internal/llm"
	"github.com/Dolcruz/stt-desktop/internal/notify"
	"github.com/Dolcruz/stt-desktop/internal/record"
	"github.com/Dolcruz/stt-desktop/internal/tts"
)

// App holds the long-lived collaborators shared by all run modes.
type App struct {
	cfg        config.Settings
	tempDir    string
	httpClient *http.Client
	asr        *asr.Client
	llm        *llm.Client
	tts        *tts.Client
	history    *history.Store
}

// New builds the application from validated settings.
func New(cfg config.Settings) (*App, error) {
	appDir, err := config.AppDir()
	if err != nil {
		return nil, err
	}
	tempDir, err := config.TempDir()
	if err != nil {
		return nil, err
	}
	cleanupTempFiles(tempDir)

	httpClient := newHTTPClient(cfg)
	return &App{
		cfg:        cfg,
		tempDir:    tempDir,
		httpClient: httpClient,
		asr:        asr.New(cfg, httpClient, nil),
		llm:        llm.New(cfg, httpClient, nil),
		tts:        tts.New(cfg, httpClient, nil),
		history:    history.NewStore(filepath.Join(appDir, "history.json"), cfg.HistoryLimit),
	}, nil
}

// Close releases pooled connections.
func (a *App) Close() {
	a.httpClient.CloseIdleConnections()
}

// newHTTPClient builds the shared HTTP client with connection reuse across
// transcription, chat and TTS requests.
func newHTTPClient(cfg config.Settings) *http.Client {
	tr := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if cfg.EnableHTTP2 {
		_ = http2.ConfigureTransport(tr)
	}
	return &http.Client{
		Transport: tr,
		Timeout:   time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}
}

// cleanupTempFiles removes recordings and synthesized audio left over from a
// previous run.
func cleanupTempFiles(tempDir string) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "recording-") || strings.HasPrefix(name, "speech-") {
			_ = os.Remove(filepath.Join(tempDir, name))
		}
	}
}

// RunRecordMode registers the global hotkeys and serves toggle/cancel events
// until ctx is done.
func (a *App) RunRecordMode(ctx context.Context) error {
	stopped := make(chan string, 1)

	rec := record.New(a.cfg, a.tempDir, record.Callbacks{
		OnLevel: func(v float64) {
			slog.Debug("input level", "rms", fmt.Sprintf("%.3f", v))
		},
		OnTime: func(seconds float64) {
			slog.Debug("recording", "elapsed", fmt.Sprintf("%.1fs", seconds))
		},
		OnStopped: func(path string) {
			stopped <- path
		},
		OnCancelled: func() {
			slog.Info("recording cancelled")
			if a.cfg.Notification {
				notify.Notify("STT Desktop", "Recording cancelled")
			}
		},
		OnError: func(msg string) {
			slog.Error("recording failed", "err", msg)
			if a.cfg.Notification {
				notify.Notify("STT Desktop", "Recording failed: "+msg)
			}
		},
	})

	onToggle := func() {
		if rec.IsRecording() {
			rec.Stop()
			return
		}
		if rec.Start() {
			slog.Info("recording started")
			if a.cfg.Notification {
				notify.Notify("STT Desktop", "Recording...")
			}
		}
	}
	onCancel := func() {
		rec.Cancel()
	}
	if err := hotkey.Register(a.cfg.ToggleHotkey, a.cfg.CancelKey, onToggle, onCancel); err != nil {
		return err
	}
	slog.Info("ready", "toggle", a.cfg.ToggleHotkey, "cancel", a.cfg.CancelKey)

	for {
		select {
		case <-ctx.Done():
			rec.Cancel()
			return ctx.Err()
		case path := <-stopped:
			// Handle off the recorder goroutine so a new recording can start
			// while the previous one uploads.
			go a.handleRecording(ctx, path)
		}
	}
}

// handleRecording runs the transcript pipeline for one finished recording and
// deletes the WAV file afterwards.
func (a *App) handleRecording(ctx context.Context, wavPath string) {
	defer os.Remove(wavPath)

	text, err := a.transcribeAndPolish(ctx, wavPath)
	if err != nil {
		slog.Error("transcription failed", "err", err)
		if a.cfg.Notification {
			notify.Notify("STT Desktop", "Transcription failed")
		}
		return
	}
	if text == "" {
		slog.Info("empty transcript")
		return
	}

	if err := a.history.Append(text); err != nil {
		slog.Warn("history append failed", "err", err)
	}
	if a.cfg.AutoCopy {
		if err := clipboard.CopyText(text); err != nil {
			slog.Warn("clipboard copy failed", "err", err)
		}
	}
	if a.cfg.AutoPaste {
		if err := clipboard.PasteText(text); err != nil {
			slog.Warn("clipboard paste failed", "err", err)
		}
	}
	if a.cfg.Notification {
		notify.Notify("STT Desktop", text)
	}
	fmt.Println(text)
}

// transcribeAndPolish uploads the audio and applies the configured
// post-processing steps.
func (a *App) transcribeAndPolish(ctx context.Context, audioPath string) (string, error) {
	res, err := a.asr.Transcribe(ctx, audioPath)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", nil
	}
	if a.cfg.CorrectGrammar {
		if fixed, err := a.llm.CorrectGrammar(ctx, text); err != nil {
			slog.Warn("grammar correction failed", "err", err)
		} else {
			text = fixed
		}
	}
	if a.cfg.TranslateTo != "" {
		if translated, err := a.llm.Translate(ctx, text, a.cfg.TranslateTo); err != nil {
			slog.Warn("translation failed", "err", err)
		} else {
			text = translated
		}
	}
	return text, nil
}

// RunFileMode transcribes an existing audio file and writes the transcript to
// outPath, or next to the input with a .txt extension when outPath is empty.
func (a *App) RunFileMode(ctx context.Context, inPath, outPath string) error {
	if _, err := os.Stat(inPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	text, err := a.transcribeAndPolish(ctx, inPath)
	if err != nil {
		return err
	}
	if outPath == "" {
		outPath = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".txt"
	}
	if err := os.WriteFile(outPath, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	slog.Info("transcript written", "path", outPath)
	fmt.Println(text)
	return nil
}
