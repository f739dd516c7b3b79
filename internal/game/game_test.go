package game

import (
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/matrix-rain/internal/rain"
)

func TestBlurTaps(t *testing.T) {
	if taps := blurTaps(0); len(taps) != 1 || taps[0].alpha != 1 || taps[0].dx != 0 || taps[0].dy != 0 {
		t.Fatalf("blurTaps(0) = %+v", taps)
	}
	taps := blurTaps(0.5)
	if len(taps) != 5 {
		t.Fatalf("blurTaps(0.5) has %d taps", len(taps))
	}
	if taps[0].alpha != 1 {
		t.Errorf("centre tap alpha = %v", taps[0].alpha)
	}
	var sx, sy float64
	for _, tp := range taps[1:] {
		if math.Abs(tp.dx)+math.Abs(tp.dy) != 0.5 {
			t.Errorf("tap offset (%v,%v) not at the blur radius", tp.dx, tp.dy)
		}
		sx += tp.dx
		sy += tp.dy
	}
	if sx != 0 || sy != 0 {
		t.Errorf("taps are not symmetric: %v,%v", sx, sy)
	}
}

func TestClamp01(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0.25: 0.25, 3: 1} {
		if got := clamp01(in); got != want {
			t.Errorf("clamp01(%v) = %v", in, got)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(83 * time.Second); got != "01:23" {
		t.Fatalf("got %q", got)
	}
}

func TestContainerMovesAndRemovesNodes(t *testing.T) {
	var body container
	w := &wrapper{placement: rain.Placement{ZIndex: -1}, blurPx: 1}
	c := &canvas{placement: rain.Placement{Fill: true}}

	body.AppendChild(c)
	w.AppendChild(c)
	if len(body.Children()) != 0 {
		t.Fatal("appending to the wrapper did not move the canvas out of the body")
	}
	body.AppendChild(w)

	if got := body.Children(); len(got) != 1 || got[0] != rain.Node(w) {
		t.Fatalf("body = %v", got)
	}
	w.Remove()
	if len(body.Children()) != 0 || len(w.Children()) != 0 {
		t.Fatal("wrapper removal left nodes behind")
	}
	w.Remove()
	c.Remove()
}

func TestZIndexOrdering(t *testing.T) {
	back := &canvas{placement: rain.Placement{ZIndex: -1}}
	front := &wrapper{placement: rain.Placement{ZIndex: 3}}
	if zIndex(back) >= 0 || zIndex(front) != 3 {
		t.Fatalf("zIndex = %d / %d", zIndex(back), zIndex(front))
	}
}

func TestCanvasWithoutFontHasNoContext(t *testing.T) {
	c := &canvas{}
	if _, ok := c.Context2D(); ok {
		t.Fatal("canvas without a font source reported a context")
	}
}

type constStreamer struct{ v float64 }

func (s constStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{s.v, s.v}
	}
	return len(samples), true
}

func (constStreamer) Err() error { return nil }

func TestLevelTap(t *testing.T) {
	tap := newLevelTap(constStreamer{v: 0.5}, 8)
	if tap.level() != 0 {
		t.Fatal("empty tap reported a level")
	}
	buf := make([][2]float64, 3)
	tap.Stream(buf)
	if got := tap.level(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("level = %v, want 0.5", got)
	}
	buf = make([][2]float64, 20)
	tap.Stream(buf)
	if got := tap.level(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("level after wrap = %v", got)
	}
}

func TestNilSoundtrackIsInert(t *testing.T) {
	var s *Soundtrack
	s.SetPaused(true)
	if s.Paused() || s.Level() != 0 || s.SampleRate() != 0 || s.Close() != nil {
		t.Fatal("nil soundtrack is not inert")
	}
}
