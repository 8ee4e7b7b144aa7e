// Package record implements the audio capture and endpointing state machine:
// one recording session per Start, buffered float samples from a callback
// stream, a fixed-cadence polling loop deciding when to stop (explicit stop,
// cancel, sustained silence, max duration), and 16-bit PCM WAV output.
package record

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Dolcruz/stt-desktop/internal/config"
)

// pollInterval is the cadence of the stop-condition loop. Stop and cancel
// are observed within one tick.
const pollInterval = 100 * time.Millisecond

// Callbacks are optional observers invoked from the recording goroutine, not
// the caller's. UI updates must be marshalled by the receiver. Panics inside
// a callback are swallowed; delivery is best-effort.
type Callbacks struct {
	OnLevel     func(level float64)  // normalized RMS, 0..1
	OnTime      func(seconds float64)
	OnStopped   func(wavPath string)
	OnCancelled func()
	OnError     func(msg string)
}

// blockFunc receives one block of interleaved float32 samples from the
// input stream's own callback context.
type blockFunc func(block []float32)

// inputStream is the recorder's view of an open capture stream.
type inputStream interface {
	Start() error
	Stop() error
	Close() error
}

// streamOpener opens an input stream that delivers blocks to onBlock until
// closed. Tests substitute synthetic sources; production uses PortAudio.
type streamOpener func(cfg config.Settings, onBlock blockFunc) (inputStream, error)

// Recorder records mono PCM at the configured sample rate with optional
// silence-based and duration-based auto-stop. At most one session is active
// at a time; per-session state is reset on Start.
type Recorder struct {
	cfg     config.Settings
	tempDir string
	cb      Callbacks

	openStream streamOpener

	running   atomic.Bool // a capture worker is alive
	stopFlag  atomic.Bool
	cancelFlg atomic.Bool

	buf       sampleBuffer
	lastLevel atomicLevel
}

// New creates a recorder writing WAV files into tempDir.
func New(cfg config.Settings, tempDir string, cb Callbacks) *Recorder {
	return &Recorder{cfg: cfg, tempDir: tempDir, cb: cb, openStream: openPortAudioStream}
}

// IsRecording reports whether a capture worker is alive.
func (r *Recorder) IsRecording() bool {
	return r.running.Load()
}

// Start launches a recording session. It returns false without side effects
// when a session is already active.
func (r *Recorder) Start() bool {
	if !r.running.CompareAndSwap(false, true) {
		return false
	}
	r.stopFlag.Store(false)
	r.cancelFlg.Store(false)
	r.buf.Reset()
	r.lastLevel.Store(0)

	go r.run()
	return true
}

// Stop requests a clean stop. It is idempotent, does not block, and is
// observed by the worker within one poll tick.
func (r *Recorder) Stop() {
	r.stopFlag.Store(true)
}

// Cancel requests that the session end without producing a file. Buffered
// audio is discarded. Idempotent and non-blocking.
func (r *Recorder) Cancel() {
	r.cancelFlg.Store(true)
	r.stopFlag.Store(true)
}

func (r *Recorder) run() {
	defer r.running.Store(false)
	defer func() {
		if p := recover(); p != nil {
			slog.Error("recorder panic", "panic", p)
			r.emitError(fmt.Sprintf("recorder panic: %v", p))
		}
	}()

	if err := r.capture(); err != nil {
		slog.Error("recording failed", "err", err)
		r.emitError(err.Error())
	}
}

// capture runs one session: open stream, poll stop conditions, finalize.
func (r *Recorder) capture() error {
	startedAt := time.Now()

	stream, err := r.openStream(r.cfg, r.onBlock)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	silence := 0.0
	for {
		if r.stopFlag.Load() {
			break
		}
		elapsed := time.Since(startedAt).Seconds()

		// Silence detection is opt-in; accumulate while below threshold,
		// reset as soon as the level rises to or above it.
		if r.cfg.StopOnSilence {
			if r.lastLevel.Load() < r.cfg.SilenceThresholdRMS {
				silence += pollInterval.Seconds()
			} else {
				silence = 0
			}
			if silence >= r.cfg.SilenceMinSeconds {
				break
			}
		}

		if r.cfg.MaxDurationSeconds > 0 && elapsed >= float64(r.cfg.MaxDurationSeconds) {
			break
		}

		r.emitTime(elapsed)
		time.Sleep(pollInterval)
	}

	if err := stream.Stop(); err != nil {
		slog.Debug("stream stop", "err", err)
	}
	if err := stream.Close(); err != nil {
		slog.Debug("stream close", "err", err)
	}

	if r.cancelFlg.Load() {
		r.buf.Reset()
		r.emitCancelled()
		return nil
	}

	samples := r.buf.Drain()
	if len(samples) == 0 {
		// Nothing captured; treated like a cancellation so consumers never
		// see a zero-length artifact.
		r.emitCancelled()
		return nil
	}

	path, err := writeWAV(samples, r.cfg.SampleRateHz, r.tempDir)
	if err != nil {
		return err
	}
	slog.Debug("recording finished", "path", path, "samples", len(samples),
		"elapsed", time.Since(startedAt).Round(time.Millisecond))
	r.emitStopped(path)
	return nil
}

// onBlock runs on the stream's callback context for every incoming block.
func (r *Recorder) onBlock(block []float32) {
	mono := downmix(block, r.cfg.Channels)
	level := rmsLevel(mono)
	r.lastLevel.Store(level)
	r.emitLevel(level)
	r.buf.Append(mono)
}

func (r *Recorder) emitLevel(v float64) {
	if r.cb.OnLevel == nil {
		return
	}
	defer func() { _ = recover() }()
	r.cb.OnLevel(v)
}

func (r *Recorder) emitTime(seconds float64) {
	if r.cb.OnTime == nil {
		return
	}
	defer func() { _ = recover() }()
	r.cb.OnTime(seconds)
}

func (r *Recorder) emitStopped(path string) {
	if r.cb.OnStopped == nil {
		return
	}
	defer func() { _ = recover() }()
	r.cb.OnStopped(path)
}

func (r *Recorder) emitCancelled() {
	if r.cb.OnCancelled == nil {
		return
	}
	defer func() { _ = recover() }()
	r.cb.OnCancelled()
}

func (r *Recorder) emitError(msg string) {
	if r.cb.OnError == nil {
		return
	}
	defer func() { _ = recover() }()
	r.cb.OnError(msg)
}
