package term

import (
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func termOptions() config.Options {
	opts := config.Default()
	opts.FontSize = 10
	opts.ColumnSpacing = 2
	opts.CharSpacingY = 20
	opts.BlurPx = 0
	return opts
}

func attachRain(t *testing.T, h *Host, opts config.Options) *rain.Rain {
	t.Helper()
	r, err := rain.New(opts, rain.Env{Document: h, Window: h, Rand: fixedRand(0.99)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Attach(h); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return r
}

func TestViewportUsesCellMetrics(t *testing.T) {
	h := NewHost(newScreen(t, 80, 24), Metrics{CellWidth: 10, CellHeight: 20})
	w, ht := h.Viewport()
	if w != 800 || ht != 480 {
		t.Fatalf("viewport = %vx%v, want 800x480", w, ht)
	}
	if h.DevicePixelRatio() != 1 {
		t.Fatalf("dpr = %v", h.DevicePixelRatio())
	}
}

func TestRainPaintsCells(t *testing.T) {
	screen := newScreen(t, 80, 24)
	h := NewHost(screen, Metrics{CellWidth: 10, CellHeight: 20})
	r := attachRain(t, h, termOptions())

	h.Advance(h.Now() + FrameInterval)
	h.Draw()

	if r.Stats().Frames != 1 {
		t.Fatalf("frames = %d, want 1", r.Stats().Frames)
	}
	glyphs := 0
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			ch, _, style, _ := screen.GetContent(x, y)
			_, bg, _ := style.Decompose()
			if bg != tcell.NewRGBColor(0, 0, 0) {
				t.Fatalf("cell %d,%d background = %v", x, y, bg)
			}
			if ch != ' ' {
				glyphs++
			}
		}
	}
	if glyphs == 0 {
		t.Fatal("no glyphs reached the screen")
	}
}

func TestResizeEventReachesRain(t *testing.T) {
	screen := newScreen(t, 80, 24)
	h := NewHost(screen, Metrics{CellWidth: 10, CellHeight: 20})
	r := attachRain(t, h, termOptions())

	screen.SetSize(100, 30)
	if !h.HandleEvent(tcell.NewEventResize(100, 30)) {
		t.Fatal("resize asked to quit")
	}
	h.Advance(h.Now() + config.DefaultResizeDebounce + time.Millisecond)

	if r.Stats().Resizes != 1 {
		t.Fatalf("resizes = %d, want 1", r.Stats().Resizes)
	}
	if w, ht, _ := r.Size(); w != 1000 || ht != 600 {
		t.Fatalf("size = %vx%v, want 1000x600", w, ht)
	}
}

func TestFocusTogglesLoop(t *testing.T) {
	h := NewHost(newScreen(t, 40, 10), Metrics{CellWidth: 10, CellHeight: 20})
	r := attachRain(t, h, termOptions())

	h.HandleEvent(tcell.NewEventFocus(false))
	if r.Running() {
		t.Fatal("loop still running after focus loss")
	}
	h.HandleEvent(tcell.NewEventFocus(true))
	if !r.Running() {
		t.Fatal("loop did not resume on focus")
	}
}

func TestQuitKeys(t *testing.T) {
	h := NewHost(newScreen(t, 10, 5), Metrics{CellWidth: 10, CellHeight: 20})
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
		tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
	} {
		if h.HandleEvent(ev) {
			t.Errorf("key %v did not quit", ev.Name())
		}
	}
	if !h.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("ordinary key quit")
	}
}

func TestDetachClearsLayer(t *testing.T) {
	h := NewHost(newScreen(t, 40, 10), Metrics{CellWidth: 10, CellHeight: 20})
	opts := termOptions()
	opts.BlurPx = 1
	r := attachRain(t, h, opts)
	if len(h.body.Children()) != 1 {
		t.Fatalf("body has %d children", len(h.body.Children()))
	}
	r.Detach()
	if len(h.body.Children()) != 0 {
		t.Fatal("layer left behind after detach")
	}
}

func TestBlend(t *testing.T) {
	bg := color.RGBA{A: 0xff}
	fg := color.RGBA{R: 200, G: 100, B: 50, A: 0xff}
	if got := blend(bg, fg, 1); got != fg {
		t.Errorf("opaque blend = %v", got)
	}
	if got := blend(bg, fg, 0); got != bg {
		t.Errorf("transparent blend = %v", got)
	}
	if got := blend(bg, fg, 0.5); got != (color.RGBA{R: 100, G: 50, B: 25, A: 0xff}) {
		t.Errorf("half blend = %v", got)
	}
}
