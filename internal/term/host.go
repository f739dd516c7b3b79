// Package term runs the rain in a terminal. Cells stand in for pixels: the
// host reports a viewport of columns × cell width by rows × cell height, and
// glyph opacity is emulated by blending the glyph colour into the
// background.
package term

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/matrix-rain/internal/loop"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

// Metrics is the nominal pixel size of one terminal cell.
type Metrics struct {
	CellWidth  float64
	CellHeight float64
}

// Host presents a tcell screen as a rain document and window.
type Host struct {
	*loop.Dispatcher

	screen  tcell.Screen
	metrics Metrics
	started time.Time

	cols, rows int
	hidden     bool

	nextListener int
	resizeFns    map[int]func()
	visFns       map[int]func(bool)

	body container
}

// NewHost wraps an initialised screen.
func NewHost(screen tcell.Screen, m Metrics) *Host {
	h := &Host{
		Dispatcher: loop.New(),
		screen:     screen,
		metrics:    m,
		started:    time.Now(),
		resizeFns:  make(map[int]func()),
		visFns:     make(map[int]func(bool)),
	}
	h.cols, h.rows = screen.Size()
	return h
}

// Viewport implements rain.Window.
func (h *Host) Viewport() (float64, float64) {
	return float64(h.cols) * h.metrics.CellWidth, float64(h.rows) * h.metrics.CellHeight
}

// DevicePixelRatio implements rain.Window. Terminals have no sub-cell
// resolution.
func (h *Host) DevicePixelRatio() float64 {
	return 1
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

// AppendChild implements rain.Element for the screen.
func (h *Host) AppendChild(n rain.Node) {
	h.body.AppendChild(n)
}

// CreateCanvas implements rain.Document.
func (h *Host) CreateCanvas(p rain.Placement) rain.Canvas {
	return &canvas{placement: p, metrics: h.metrics}
}

// CreateWrapper implements rain.Document. Terminals cannot blur, so the
// wrapper only groups its children.
func (h *Host) CreateWrapper(p rain.Placement, blurPx float64) rain.Wrapper {
	return &wrapper{placement: p}
}

// HandleEvent applies a tcell event to the host. It reports false when the
// event asks the program to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		if cols != h.cols || rows != h.rows {
			h.cols, h.rows = cols, rows
			h.screen.Sync()
			for _, fn := range h.resizeFns {
				fn()
			}
		}
	case *tcell.EventFocus:
		h.setHidden(!ev.Focused)
	}
	return true
}

func (h *Host) setHidden(hidden bool) {
	if hidden == h.hidden {
		return
	}
	h.hidden = hidden
	for _, fn := range h.visFns {
		fn(hidden)
	}
}

// Frame advances the dispatcher to the wall clock and repaints the screen.
func (h *Host) Frame() {
	h.Advance(time.Since(h.started))
	h.Draw()
}

// Draw blits every canvas onto the screen in z-index order and shows it.
func (h *Host) Draw() {
	for _, n := range h.body.sorted() {
		drawNode(h.screen, n)
	}
	h.screen.Show()
}

func drawNode(s tcell.Screen, n rain.Node) {
	switch n := n.(type) {
	case *canvas:
		n.blit(s)
	case *wrapper:
		for _, c := range n.Children() {
			drawNode(s, c)
		}
	}
}
