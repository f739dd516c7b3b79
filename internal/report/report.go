// Package report runs the rain headlessly and summarises what it did.
package report

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/headless"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

// Run describes one headless session.
type Run struct {
	Duration time.Duration
	Interval time.Duration

	Width, Height, DPR float64
	Seed               uint64

	// ResizeAt, when positive, changes the viewport to ResizeWidth ×
	// ResizeHeight at that point of the run.
	ResizeAt                  time.Duration
	ResizeWidth, ResizeHeight float64

	// HideAt, when positive, hides the page for HideFor.
	HideAt  time.Duration
	HideFor time.Duration
}

// Bucket is one histogram bar.
type Bucket struct {
	Label string
	Count int
}

// Report is the state of the rain at the end of a Run.
type Report struct {
	Elapsed       time.Duration
	Width, Height float64
	DPR           float64
	Columns       int
	Stats         rain.Stats
	GlyphsDrawn   int
	Lengths       []Bucket
	Speeds        []Bucket
}

// Execute performs the run with opts.
func Execute(opts config.Options, run Run, logger *log.Logger) (Report, error) {
	if run.Interval <= 0 {
		return Report{}, fmt.Errorf("report: frame interval %v must be positive", run.Interval)
	}
	env := headless.New(run.Width, run.Height, run.DPR)
	rainEnv := env.RainEnv(rand.New(rand.NewPCG(run.Seed, run.Seed^0x9e3779b97f4a7c15)))
	rainEnv.Log = logger

	r, err := rain.New(opts, rainEnv)
	if err != nil {
		return Report{}, err
	}
	if _, err := r.Attach(env.Body); err != nil {
		return Report{}, err
	}

	resized, hidden, shown := false, false, false
	for env.Now() < run.Duration {
		now := env.Now()
		if !resized && run.ResizeAt > 0 && now >= run.ResizeAt {
			env.Resize(run.ResizeWidth, run.ResizeHeight)
			resized = true
		}
		if !hidden && run.HideAt > 0 && now >= run.HideAt {
			env.SetHidden(true)
			hidden = true
		}
		if hidden && !shown && now >= run.HideAt+run.HideFor {
			env.SetHidden(false)
			shown = true
		}
		env.Tick(run.Interval)
	}

	w, h, dpr := r.Size()
	rep := Report{
		Elapsed: env.Now(),
		Width:   w,
		Height:  h,
		DPR:     dpr,
		Stats:   r.Stats(),
	}
	if layer := env.Layer(); layer != nil && layer.Context() != nil {
		rep.GlyphsDrawn = layer.Context().TextsTotal
	}
	cols := r.Columns()
	rep.Columns = len(cols)
	rep.Lengths = lengthHistogram(cols)
	rep.Speeds = speedHistogram(cols, opts.MinSpeed, opts.MaxSpeed)

	r.Detach()
	return rep, nil
}

func lengthHistogram(cols []rain.Column) []Bucket {
	counts := map[int]int{}
	for _, c := range cols {
		counts[c.Length]++
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]Bucket, len(keys))
	for i, k := range keys {
		out[i] = Bucket{Label: fmt.Sprint(k), Count: counts[k]}
	}
	return out
}

// speedHistogram splits [lo, hi] into unit-wide bars.
func speedHistogram(cols []rain.Column, lo, hi float64) []Bucket {
	n := int(math.Ceil(hi - lo))
	if n < 1 {
		return []Bucket{{Label: fmt.Sprintf("%g", lo), Count: len(cols)}}
	}
	out := make([]Bucket, n)
	for i := range out {
		out[i].Label = fmt.Sprintf("%g-%g", lo+float64(i), math.Min(lo+float64(i+1), hi))
	}
	for _, c := range cols {
		i := int(c.Speed - lo)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}

// WriteTo prints the report as text.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "elapsed   %v\n", r.Elapsed)
	fmt.Fprintf(&b, "surface   %.0fx%.0f css px @ %.2fx\n", r.Width, r.Height, r.DPR)
	fmt.Fprintf(&b, "columns   %d\n", r.Columns)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "frames\t%d\n", r.Stats.Frames)
	fmt.Fprintf(tw, "glyphs\t%d\n", r.GlyphsDrawn)
	fmt.Fprintf(tw, "switches\t%d\n", r.Stats.Switches)
	fmt.Fprintf(tw, "resets\t%d\n", r.Stats.Resets)
	fmt.Fprintf(tw, "resizes\t%d\n", r.Stats.Resizes)
	tw.Flush()

	histogram(&b, "stream length", r.Lengths)
	histogram(&b, "speed (glyphs/s)", r.Speeds)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func histogram(b *strings.Builder, title string, buckets []Bucket) {
	fmt.Fprintf(b, "\n%s\n", title)
	tw := tabwriter.NewWriter(b, 0, 0, 1, ' ', 0)
	for _, k := range buckets {
		fmt.Fprintf(tw, "  %s\t%3d\t%s\n", k.Label, k.Count, strings.Repeat("#", k.Count))
	}
	tw.Flush()
}

// String returns the text form of r.
func (r Report) String() string {
	var b strings.Builder
	r.WriteTo(&b)
	return b.String()
}
