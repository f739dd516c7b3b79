package game

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelTap wraps a beep.Streamer and keeps the most recent samples in a ring
// so the status line can show how loud the soundtrack currently is.
type levelTap struct {
	Source beep.Streamer
	ring   [][2]float64
	next   int
	filled bool
	mu     sync.RWMutex
}

func newLevelTap(src beep.Streamer, ringSize int) *levelTap {
	return &levelTap{
		Source: src,
		ring:   make([][2]float64, ringSize),
	}
}

// Stream runs on the speaker goroutine.
func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.ring[t.next] = samples[i]
			t.next++
			if t.next >= len(t.ring) {
				t.next = 0
				t.filled = true
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *levelTap) Err() error { return t.Source.Err() }

// level returns the RMS of the buffered samples mixed to mono, in [0, 1].
func (t *levelTap) level() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.next
	if t.filled {
		n = len(t.ring)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, s := range t.ring[:n] {
		mono := (s[0] + s[1]) * 0.5
		sum += mono * mono
	}
	return clamp01(math.Sqrt(sum / float64(n)))
}
