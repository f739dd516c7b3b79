package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/game"
)

const (
	windowWidth  = 1024
	windowHeight = 640
)

func main() {
	var (
		configPath = flag.String("config", "rain.yaml", "YAML file with option overrides")
		soundtrack = flag.String("soundtrack", "", `audio file to loop under the rain, or "pick" for a file dialog`)
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	opts, err := config.Load(*configPath)
	if err != nil {
		fatal(logger, err)
	}

	track, err := openSoundtrack(*soundtrack)
	if err != nil {
		// Non-fatal, the rain runs without sound
		logger.Printf("[game] soundtrack: %v", err)
	} else if track != nil {
		logger.Printf("[game] soundtrack playing at %d Hz", track.SampleRate())
	}

	g, err := game.New(opts, track, logger)
	if err != nil {
		fatal(logger, err)
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Matrix Rain - Space: pause, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		fatal(logger, err)
	}
}

func openSoundtrack(arg string) (*game.Soundtrack, error) {
	path := arg
	if arg == game.PickSoundtrack {
		var err error
		if path, err = game.SelectSoundtrack(); err != nil {
			return nil, err
		}
	}
	if path == "" {
		return nil, nil
	}
	return game.OpenSoundtrack(path)
}

func fatal(logger *log.Logger, err error) {
	game.ShowFatal(err)
	logger.Fatal(err)
}
