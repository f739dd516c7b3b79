// Command rain-term runs the rain in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/rain"
	"github.com/iburimskiy/matrix-rain/internal/term"
)

func main() {
	var (
		configPath = flag.String("config", "rain.yaml", "YAML file with option overrides")
		logPath    = flag.String("log", "", "append logs to this file (the screen is busy)")
		cellWidth  = flag.Float64("cell-width", 0, "nominal cell width in px (default half the font size)")
		cellHeight = flag.Float64("cell-height", 0, "nominal cell height in px (default the glyph spacing)")
	)
	flag.Parse()

	logger, closeLog, err := openLog(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rain-term: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	opts, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rain-term: %v\n", err)
		os.Exit(1)
	}

	m := term.Metrics{CellWidth: opts.FontSize / 2, CellHeight: opts.CharSpacingY}
	if *cellWidth > 0 {
		m.CellWidth = *cellWidth
	}
	if *cellHeight > 0 {
		m.CellHeight = *cellHeight
	}

	if err := run(opts, m, logger); err != nil {
		fmt.Fprintf(os.Stderr, "rain-term: %v\n", err)
		os.Exit(1)
	}
}

func run(opts config.Options, m term.Metrics, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableFocus()
	screen.HideCursor()

	host := term.NewHost(screen, m)
	r, err := rain.New(opts, rain.Env{
		Document: host,
		Window:   host,
		Log:      log.New(logger.Writer(), "[rain] ", logger.Flags()),
	})
	if err != nil {
		return err
	}
	if _, err := r.Attach(host); err != nil {
		return err
	}
	defer r.Detach()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Printf("[term] running, %d columns", r.ColumnCount())
	host.Run(ctx)
	logger.Printf("[term] stopped after %d frames", r.Stats().Frames)
	return nil
}

func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}
