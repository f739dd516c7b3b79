package report

import (
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

func baseRun() Run {
	return Run{
		Duration: 2 * time.Second,
		Interval: 16 * time.Millisecond,
		Width:    720,
		Height:   480,
		DPR:      1,
		Seed:     7,
	}
}

func TestExecute(t *testing.T) {
	opts := config.Default()
	rep, err := Execute(opts, baseRun(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if want := int(720 / opts.ColumnWidth()); rep.Columns != want {
		t.Errorf("columns = %d, want %d", rep.Columns, want)
	}
	if rep.Stats.Frames < 100 {
		t.Errorf("frames = %d, want about 125", rep.Stats.Frames)
	}
	if rep.GlyphsDrawn == 0 {
		t.Error("no glyphs drawn")
	}
	if rep.Stats.Resizes != 0 {
		t.Errorf("resizes = %d without a resize", rep.Stats.Resizes)
	}

	total := 0
	for _, b := range rep.Lengths {
		total += b.Count
	}
	if total != rep.Columns {
		t.Errorf("length histogram holds %d columns, want %d", total, rep.Columns)
	}
}

func TestExecuteIsDeterministic(t *testing.T) {
	a, err := Execute(config.Default(), baseRun(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Execute(config.Default(), baseRun(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Fatalf("same seed gave different reports:\n%s\n%s", a, b)
	}
}

func TestExecuteResizeAndHide(t *testing.T) {
	run := baseRun()
	run.ResizeAt = 500 * time.Millisecond
	run.ResizeWidth, run.ResizeHeight = 360, 240
	run.HideAt = time.Second
	run.HideFor = 500 * time.Millisecond

	rep, err := Execute(config.Default(), run, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Stats.Resizes != 1 {
		t.Errorf("resizes = %d, want 1", rep.Stats.Resizes)
	}
	if rep.Width != 360 || rep.Height != 240 {
		t.Errorf("surface = %vx%v, want 360x240", rep.Width, rep.Height)
	}
	// About a quarter of the run is spent hidden.
	if rep.Stats.Frames > 110 {
		t.Errorf("frames = %d, hidden time was not paused", rep.Stats.Frames)
	}
}

func TestExecuteRejectsBadInput(t *testing.T) {
	run := baseRun()
	run.Interval = 0
	if _, err := Execute(config.Default(), run, nil); err == nil {
		t.Error("zero interval accepted")
	}
	opts := config.Default()
	opts.FontSize = 0
	if _, err := Execute(opts, baseRun(), nil); err == nil {
		t.Error("invalid options accepted")
	}
}

func TestSpeedHistogram(t *testing.T) {
	cols := []rain.Column{{Speed: 2}, {Speed: 2.5}, {Speed: 7.9}, {Speed: 8}}
	got := speedHistogram(cols, 2, 8)
	if len(got) != 6 {
		t.Fatalf("%d buckets, want 6", len(got))
	}
	if got[0].Label != "2-3" || got[0].Count != 2 {
		t.Errorf("first bucket = %+v", got[0])
	}
	if got[5].Label != "7-8" || got[5].Count != 2 {
		t.Errorf("last bucket = %+v", got[5])
	}

	flat := speedHistogram(cols, 5, 5)
	if len(flat) != 1 || flat[0].Count != 4 {
		t.Errorf("flat range = %+v", flat)
	}
}

func TestWriteTo(t *testing.T) {
	rep := Report{
		Elapsed: time.Second,
		Width:   100,
		Height:  50,
		DPR:     2,
		Columns: 3,
		Stats:   rain.Stats{Frames: 60, Switches: 15, Resets: 1},
		Lengths: []Bucket{{Label: "4", Count: 2}, {Label: "9", Count: 1}},
	}
	out := rep.String()
	for _, want := range []string{
		"surface   100x50 css px @ 2.00x",
		"columns   3",
		"frames    60",
		"resets    1",
		"stream length",
		"4   2 ##",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
