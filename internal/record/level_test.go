package record

import (
	"math"
	"testing"
)

func TestRMSLevelBounds(t *testing.T) {
	cases := [][]float32{
		{0, 0, 0},
		{0.5, 0.5, 0.5},
		{1, -1, 1, -1},
		{100, -100, 50},
		{1e6, -1e6},
		{},
	}
	for i, c := range cases {
		v := rmsLevel(c)
		if v < 0 || v > 1 {
			t.Fatalf("case %d: level %v out of [0,1]", i, v)
		}
	}
}

func TestRMSLevelValue(t *testing.T) {
	block := []float32{0.5, -0.5, 0.5, -0.5}
	if v := rmsLevel(block); math.Abs(v-0.5) > 1e-6 {
		t.Fatalf("rms of ±0.5 = %v, want 0.5", v)
	}
	if v := rmsLevel([]float32{0, 0, 0, 0}); v != 0 {
		t.Fatalf("rms of silence = %v, want 0", v)
	}
}

func TestDownmixMono(t *testing.T) {
	block := []float32{0.1, 0.2, 0.3}
	mono := downmix(block, 1)
	if len(mono) != 3 {
		t.Fatalf("mono length = %d, want 3", len(mono))
	}
	for i := range block {
		if mono[i] != block[i] {
			t.Fatalf("sample %d changed: %v != %v", i, mono[i], block[i])
		}
	}
	// The result must be a copy: the stream owns its block buffer.
	mono[0] = 9
	if block[0] == 9 {
		t.Fatalf("downmix aliased the input block")
	}
}

func TestDownmixStereoAverages(t *testing.T) {
	// Interleaved L/R frames.
	block := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := downmix(block, 2)
	want := []float32{0.5, 0.5, 0}
	if len(mono) != len(want) {
		t.Fatalf("mono length = %d, want %d", len(mono), len(want))
	}
	for i := range want {
		if math.Abs(float64(mono[i]-want[i])) > 1e-6 {
			t.Fatalf("frame %d = %v, want %v", i, mono[i], want[i])
		}
	}
	// Down-mixed loud multi-channel input still clamps.
	if v := rmsLevel(downmix([]float32{50, 50, -50, -50}, 2)); v > 1 {
		t.Fatalf("multi-channel level %v out of range", v)
	}
}

func TestAtomicLevel(t *testing.T) {
	var l atomicLevel
	if v := l.Load(); v != 0 {
		t.Fatalf("zero value = %v, want 0", v)
	}
	l.Store(0.42)
	if v := l.Load(); v != 0.42 {
		t.Fatalf("loaded %v, want 0.42", v)
	}
}
