// Package game runs the rain in an ebiten window. The window stands in for a
// web page: the rain layer sits behind a line of page content and pauses
// when the window is minimised or loses focus.
package game

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

// Game implements ebiten.Game around a single rain layer.
type Game struct {
	host       *Host
	rain       *rain.Rain
	soundtrack *Soundtrack
	log        *log.Logger

	started time.Time

	// input edge detection
	prevKey map[ebiten.Key]bool

	userPaused bool
}

// New builds the host and the rain. The layer is attached on the first
// Update, once the window size is known.
func New(opts config.Options, soundtrack *Soundtrack, logger *log.Logger) (*Game, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	host, err := NewHost()
	if err != nil {
		logger.Printf("[game] %v", err)
	}
	r, err := rain.New(opts, rain.Env{
		Document: host,
		Window:   host,
		Log:      log.New(logger.Writer(), "[rain] ", logger.Flags()),
	})
	if err != nil {
		return nil, err
	}
	return &Game{
		host:       host,
		rain:       r,
		soundtrack: soundtrack,
		log:        logger,
		started:    time.Now(),
		prevKey:    map[ebiten.Key]bool{},
	}, nil
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	g.host.Update()
	if !g.rain.Attached() {
		if _, err := g.rain.Attach(g.host); err != nil {
			return fmt.Errorf("attach rain: %w", err)
		}
	}

	if justPressed(ebiten.KeySpace) {
		g.userPaused = !g.userPaused
		if g.userPaused {
			g.rain.Stop()
		} else {
			g.rain.Start()
		}
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		g.rain.Detach()
		if err := g.soundtrack.Close(); err != nil {
			g.log.Printf("[game] close soundtrack: %v", err)
		}
		return ebiten.Termination
	}

	// Visibility can restart a loop the user paused.
	if g.userPaused && g.rain.Running() {
		g.rain.Stop()
	}
	g.soundtrack.SetPaused(!g.rain.Running())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.host.Draw(screen, g.drawContent)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.host.Layout(outsideWidth, outsideHeight)
}

// drawContent is the "page" in front of the rain.
func (g *Game) drawContent(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
}

func (g *Game) status() string {
	state := "Running"
	switch {
	case g.userPaused:
		state = "Paused"
	case g.host.Hidden():
		state = "Hidden"
	}
	st := g.rain.Stats()
	line := fmt.Sprintf("%s %s | %d columns | %d frames | Space: pause, Esc/Q: quit",
		state, formatDuration(time.Since(g.started)), g.rain.ColumnCount(), st.Frames)
	if g.soundtrack != nil {
		bars := int(clamp01(g.soundtrack.Level()) * 10)
		line += " | " + strings.Repeat("|", bars) + strings.Repeat(".", 10-bars)
		if g.soundtrack.Paused() {
			line += " muted"
		}
	}
	return line
}
