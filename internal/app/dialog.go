package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Dolcruz/stt-desktop/internal/hotkey"
	"github.com/Dolcruz/stt-desktop/internal/notify"
	"github.com/Dolcruz/stt-desktop/internal/playback"
	"github.com/Dolcruz/stt-desktop/internal/record"
	"github.com/Dolcruz/stt-desktop/internal/tts"
)

// RunDialogMode runs the two-speaker translation loop: each recording is
// transcribed, translated into the other speaker's language, synthesized and
// played back. Speakers alternate after every utterance.
func (a *App) RunDialogMode(ctx context.Context) error {
	if !a.tts.IsConfigured() {
		return fmt.Errorf("dialog mode needs an ElevenLabs API key")
	}
	if !playback.Available() {
		return fmt.Errorf("dialog mode needs ffplay on PATH")
	}

	stopped := make(chan string, 1)
	rec := record.New(a.cfg, a.tempDir, record.Callbacks{
		OnStopped:   func(path string) { stopped <- path },
		OnCancelled: func() { slog.Info("recording cancelled") },
		OnError: func(msg string) {
			slog.Error("recording failed", "err", msg)
		},
	})

	onToggle := func() {
		if rec.IsRecording() {
			rec.Stop()
		} else if rec.Start() {
			slog.Info("recording started")
		}
	}
	if err := hotkey.Register(a.cfg.ToggleHotkey, a.cfg.CancelKey, onToggle, rec.Cancel); err != nil {
		return err
	}

	// Speaker A talks first; their utterances are rendered in language B.
	target := a.cfg.DialogLanguageB
	other := a.cfg.DialogLanguageA
	slog.Info("dialog mode ready", "languageA", a.cfg.DialogLanguageA, "languageB", a.cfg.DialogLanguageB)
	if a.cfg.Notification {
		notify.Notify("STT Desktop", "Dialog mode: press "+a.cfg.ToggleHotkey+" to speak")
	}

	for {
		select {
		case <-ctx.Done():
			rec.Cancel()
			return ctx.Err()
		case wavPath := <-stopped:
			if err := a.speakTranslated(ctx, wavPath, target); err != nil {
				slog.Error("dialog turn failed", "err", err)
				continue
			}
			target, other = other, target
		}
	}
}

// speakTranslated transcribes one utterance, translates it into target and
// plays the synthesized speech.
func (a *App) speakTranslated(ctx context.Context, wavPath, target string) error {
	defer os.Remove(wavPath)

	res, err := a.asr.Transcribe(ctx, wavPath)
	if err != nil {
		return err
	}
	if res.Text == "" {
		return nil
	}

	translated, err := a.llm.Translate(ctx, res.Text, target)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s: %s\n", res.Text, target, translated)

	audio, err := a.tts.Synthesize(ctx, translated, tts.VoiceFor(target))
	if err != nil {
		return err
	}
	mp3Path, err := tts.SaveTemp(a.tempDir, audio)
	if err != nil {
		return err
	}
	defer os.Remove(mp3Path)
	return playback.Play(mp3Path)
}
