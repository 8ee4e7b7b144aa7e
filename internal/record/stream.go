package record

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/Dolcruz/stt-desktop/internal/config"
)

// framesPerBlock is the block size requested from PortAudio.
const framesPerBlock = 1024

// paStream wraps a PortAudio stream. PortAudio is initialized per session
// and terminated when the stream is closed.
type paStream struct {
	stream *portaudio.Stream
}

func (s *paStream) Start() error { return s.stream.Start() }
func (s *paStream) Stop() error  { return s.stream.Stop() }

func (s *paStream) Close() error {
	err := s.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}

// openPortAudioStream opens a callback-driven float32 input stream on the
// configured device (or the system default when InputDeviceIndex < 0).
// PortAudio invokes onBlock on its own audio-I/O goroutine.
func openPortAudioStream(cfg config.Settings, onBlock blockFunc) (inputStream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init failed: %w", err)
	}

	callback := func(in []float32) {
		onBlock(in)
	}

	var stream *portaudio.Stream
	var err error
	if cfg.InputDeviceIndex < 0 {
		stream, err = portaudio.OpenDefaultStream(
			cfg.Channels, 0, float64(cfg.SampleRateHz), framesPerBlock, callback)
	} else {
		var devices []*portaudio.DeviceInfo
		devices, err = portaudio.Devices()
		if err == nil {
			if cfg.InputDeviceIndex >= len(devices) {
				err = fmt.Errorf("input device index %d out of range (%d devices)",
					cfg.InputDeviceIndex, len(devices))
			} else {
				params := portaudio.HighLatencyParameters(devices[cfg.InputDeviceIndex], nil)
				params.Input.Channels = cfg.Channels
				params.SampleRate = float64(cfg.SampleRateHz)
				params.FramesPerBuffer = framesPerBlock
				stream, err = portaudio.OpenStream(params, callback)
			}
		}
	}
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("open stream failed: %w", err)
	}
	return &paStream{stream: stream}, nil
}
