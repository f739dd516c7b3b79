package term

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
)

// FrameInterval is the repaint period, roughly 60 FPS.
const FrameInterval = 16 * time.Millisecond

// Run pumps terminal events and frames on the calling goroutine until the
// user quits or ctx is done. Every rain callback runs here.
func (h *Host) Run(ctx context.Context) {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !h.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			h.Frame()
		}
	}
}
