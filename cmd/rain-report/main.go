// Command rain-report runs the rain against a virtual clock and prints what
// happened: surface size, loop counters and stream histograms.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/report"
)

func main() {
	var (
		configPath = flag.String("config", "rain.yaml", "YAML file with option overrides")
		duration   = flag.Duration("duration", 10*time.Second, "simulated run time")
		fps        = flag.Float64("fps", 60, "simulated frame rate")
		width      = flag.Float64("width", 1280, "viewport width in css px")
		height     = flag.Float64("height", 800, "viewport height in css px")
		dpr        = flag.Float64("dpr", 1, "device pixel ratio")
		seed       = flag.Uint64("seed", 1, "random seed")
		resizeAt   = flag.Duration("resize-at", 0, "resize the viewport at this point of the run")
		resizeTo   = flag.String("resize-to", "800x600", "viewport size after -resize-at, WxH")
		hideAt     = flag.Duration("hide-at", 0, "hide the page at this point of the run")
		hideFor    = flag.Duration("hide-for", time.Second, "how long the page stays hidden")
		copyOut    = flag.Bool("copy", false, "also copy the report to the clipboard")
		verbose    = flag.Bool("v", false, "log layer events to stderr")
	)
	flag.Parse()

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "[rain] ", 0)
	}

	opts, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *fps <= 0 {
		log.Fatalf("fps %v must be positive", *fps)
	}

	run := report.Run{
		Duration: *duration,
		Interval: time.Duration(float64(time.Second) / *fps),
		Width:    *width,
		Height:   *height,
		DPR:      *dpr,
		Seed:     *seed,
		ResizeAt: *resizeAt,
		HideAt:   *hideAt,
		HideFor:  *hideFor,
	}
	if *resizeAt > 0 {
		if run.ResizeWidth, run.ResizeHeight, err = parseSize(*resizeTo); err != nil {
			log.Fatal(err)
		}
	}

	rep, err := report.Execute(opts, run, logger)
	if err != nil {
		log.Fatal(err)
	}
	out := rep.String()
	fmt.Print(out)

	if *copyOut {
		if err := clipboard.WriteAll(out); err != nil {
			log.Printf("copy to clipboard: %v", err)
			return
		}
		fmt.Fprintln(os.Stderr, "report copied to clipboard")
	}
}

func parseSize(s string) (float64, float64, error) {
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q is not WxH", s)
	}
	w, err := strconv.ParseFloat(ws, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.ParseFloat(hs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	return w, h, nil
}
