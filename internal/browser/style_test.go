package browser

import (
	"image/color"
	"testing"
)

func TestStyleCacheSkipsRepeats(t *testing.T) {
	var s styleCache
	green := color.RGBA{G: 0xff, A: 0xff}
	if f, a := s.update(green, 0.5); !f || !a {
		t.Fatal("first write skipped")
	}
	if f, a := s.update(green, 0.5); f || a {
		t.Fatal("repeated style written again")
	}
	if f, a := s.update(green, 0.9); f || !a {
		t.Fatalf("alpha change: fill=%v alpha=%v", f, a)
	}
}

func TestStyleCacheResetForcesWrites(t *testing.T) {
	var s styleCache
	bg := color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}
	s.update(bg, 1)
	s.reset()
	if f, a := s.update(bg, 1); !f || !a {
		t.Fatal("background clear after resize skipped its style writes")
	}
}
