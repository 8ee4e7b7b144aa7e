package record

import "sync"

// sampleBuffer accumulates mono sample blocks delivered by the audio
// callback. Blocks are appended from the stream's callback goroutine and
// drained exactly once from the recorder worker after the polling loop has
// exited; the mutex only covers the append/drain boundary race.
type sampleBuffer struct {
	mu     sync.Mutex
	blocks [][]float32
	total  int
}

// Append stores a copy of block.
func (b *sampleBuffer) Append(block []float32) {
	cp := make([]float32, len(block))
	copy(cp, block)
	b.mu.Lock()
	b.blocks = append(b.blocks, cp)
	b.total += len(cp)
	b.mu.Unlock()
}

// Len returns the number of buffered samples.
func (b *sampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Drain removes all buffered blocks and returns them concatenated. The
// critical section only swaps the slice out; concatenation happens unlocked.
func (b *sampleBuffer) Drain() []float32 {
	b.mu.Lock()
	blocks := b.blocks
	total := b.total
	b.blocks = nil
	b.total = 0
	b.mu.Unlock()

	out := make([]float32, 0, total)
	for _, blk := range blocks {
		out = append(out, blk...)
	}
	return out
}

// Reset discards any buffered samples.
func (b *sampleBuffer) Reset() {
	b.mu.Lock()
	b.blocks = nil
	b.total = 0
	b.mu.Unlock()
}
