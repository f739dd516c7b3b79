package game

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/iburimskiy/matrix-rain/internal/loop"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

// Host presents an ebiten window as a rain document. The window body is the
// Host itself: nodes appended to it are composited by z-index, with the
// page content drawn at z-index 0.
//
// All methods run on the ebiten game goroutine.
type Host struct {
	*loop.Dispatcher

	started time.Time
	fonts   *text.GoTextFaceSource

	width, height int
	scale         float64
	resized       bool
	hidden        bool

	nextListener int
	resizeFns    map[int]func()
	visFns       map[int]func(bool)

	body container
}

// NewHost loads the glyph font and returns a host with an empty body. A font
// that fails to load is not fatal here: canvases then report no 2D context
// and Attach fails with rain.ErrNoContext.
func NewHost() (*Host, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	h := &Host{
		Dispatcher: loop.New(),
		started:    time.Now(),
		fonts:      src,
		scale:      1,
		resizeFns:  make(map[int]func()),
		visFns:     make(map[int]func(bool)),
	}
	if err != nil {
		return h, fmt.Errorf("load glyph font: %w", err)
	}
	return h, nil
}

// Viewport implements rain.Window.
func (h *Host) Viewport() (float64, float64) {
	return float64(h.width), float64(h.height)
}

// DevicePixelRatio implements rain.Window.
func (h *Host) DevicePixelRatio() float64 {
	return h.scale
}

// OnResize implements rain.Window.
func (h *Host) OnResize(fn func()) func() {
	h.nextListener++
	id := h.nextListener
	h.resizeFns[id] = fn
	return func() { delete(h.resizeFns, id) }
}

// OnVisibilityChange implements rain.Window.
func (h *Host) OnVisibilityChange(fn func(bool)) func() {
	h.nextListener++
	id := h.nextListener
	h.visFns[id] = fn
	return func() { delete(h.visFns, id) }
}

// AppendChild implements rain.Element for the window body.
func (h *Host) AppendChild(n rain.Node) {
	h.body.AppendChild(n)
}

// CreateCanvas implements rain.Document.
func (h *Host) CreateCanvas(p rain.Placement) rain.Canvas {
	return &canvas{placement: p, fonts: h.fonts}
}

// CreateWrapper implements rain.Document.
func (h *Host) CreateWrapper(p rain.Placement, blurPx float64) rain.Wrapper {
	return &wrapper{placement: p, blurPx: blurPx}
}

// Hidden reports whether the window is currently treated as hidden.
func (h *Host) Hidden() bool {
	return h.hidden
}

// Layout records the outside size in device-independent pixels and returns
// the screen size in device pixels.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != h.width || outsideHeight != h.height {
		h.width, h.height = outsideWidth, outsideHeight
		h.resized = true
	}
	if m := ebiten.Monitor(); m != nil {
		h.scale = m.DeviceScaleFactor()
	}
	return int(float64(outsideWidth) * h.scale), int(float64(outsideHeight) * h.scale)
}

// Update delivers pending window notifications and pumps the dispatcher.
func (h *Host) Update() {
	if h.resized {
		h.resized = false
		for _, fn := range h.resizeFns {
			fn()
		}
	}

	hidden := ebiten.IsWindowMinimized() || !ebiten.IsFocused()
	if hidden != h.hidden {
		h.hidden = hidden
		for _, fn := range h.visFns {
			fn(hidden)
		}
	}

	h.Advance(time.Since(h.started))
}

// Draw composites body layers below zero, then content, then the rest.
func (h *Host) Draw(screen *ebiten.Image, content func(screen *ebiten.Image)) {
	layers := h.body.Children()
	sort.SliceStable(layers, func(i, j int) bool {
		return zIndex(layers[i]) < zIndex(layers[j])
	})

	drewContent := false
	for _, n := range layers {
		if !drewContent && zIndex(n) >= 0 {
			content(screen)
			drewContent = true
		}
		drawNode(screen, n, h.scale)
	}
	if !drewContent {
		content(screen)
	}
}

func zIndex(n rain.Node) int {
	switch n := n.(type) {
	case *canvas:
		return n.placement.ZIndex
	case *wrapper:
		return n.placement.ZIndex
	}
	return 0
}

func drawNode(screen *ebiten.Image, n rain.Node, scale float64) {
	switch n := n.(type) {
	case *canvas:
		n.drawTo(screen, scale, 0, 0, 1)
	case *wrapper:
		n.drawTo(screen, scale)
	}
}
