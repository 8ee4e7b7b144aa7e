package record

import (
	"math"
	"sync/atomic"
)

// downmix reduces an interleaved block to mono. With one channel the block
// is copied as-is; otherwise all channels of each frame are averaged.
func downmix(block []float32, channels int) []float32 {
	if channels <= 1 {
		mono := make([]float32, len(block))
		copy(mono, block)
		return mono
	}
	frames := len(block) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += block[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// rmsLevel computes the root-mean-square amplitude of samples, clamped to
// [0,1]. Devices can overshoot the nominal float range, so the clamp is not
// optional.
func rmsLevel(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms > 1 {
		return 1
	}
	return rms
}

// atomicLevel holds the most recent loudness value. Written by the audio
// callback goroutine, read by the polling worker; staleness of one block is
// acceptable.
type atomicLevel struct {
	bits atomic.Uint64
}

func (l *atomicLevel) Store(v float64) {
	l.bits.Store(math.Float64bits(v))
}

func (l *atomicLevel) Load() float64 {
	return math.Float64frombits(l.bits.Load())
}
