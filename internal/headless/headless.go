// Package headless is an in-memory rain host driven by a manual clock. It is
// used by tests and by the report tool to run the simulation without a
// screen.
package headless

import (
	"time"

	"github.com/iburimskiy/matrix-rain/internal/loop"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

// Env implements rain.Window and rain.Document on top of a loop.Dispatcher.
type Env struct {
	*loop.Dispatcher

	// Body is the element the rain is usually attached to.
	Body *Element
	// NoContext makes every canvas created afterwards refuse a 2D context.
	NoContext bool

	width, height, dpr float64
	hidden             bool

	nextListener int
	resizeFns    map[int]func()
	visFns       map[int]func(hidden bool)

	canvases int
	wrappers int
}

// New returns a headless host with the given viewport size in CSS pixels
// and device pixel ratio.
func New(width, height, dpr float64) *Env {
	return &Env{
		Dispatcher: loop.New(),
		Body:       &Element{},
		width:      width,
		height:     height,
		dpr:        dpr,
		resizeFns:  make(map[int]func()),
		visFns:     make(map[int]func(bool)),
	}
}

// RainEnv wires e into a rain.Env.
func (e *Env) RainEnv(r rain.Rand) rain.Env {
	return rain.Env{Document: e, Window: e, Rand: r}
}

// Viewport implements rain.Window.
func (e *Env) Viewport() (float64, float64) {
	return e.width, e.height
}

// DevicePixelRatio implements rain.Window.
func (e *Env) DevicePixelRatio() float64 {
	return e.dpr
}

// OnResize implements rain.Window.
func (e *Env) OnResize(fn func()) func() {
	e.nextListener++
	id := e.nextListener
	e.resizeFns[id] = fn
	return func() { delete(e.resizeFns, id) }
}

// OnVisibilityChange implements rain.Window.
func (e *Env) OnVisibilityChange(fn func(bool)) func() {
	e.nextListener++
	id := e.nextListener
	e.visFns[id] = fn
	return func() { delete(e.visFns, id) }
}

// Listeners reports how many resize and visibility listeners are registered.
func (e *Env) Listeners() (resize, visibility int) {
	return len(e.resizeFns), len(e.visFns)
}

// Tick moves the clock forward by d and dispatches due timers and frames.
func (e *Env) Tick(d time.Duration) {
	e.Advance(e.Now() + d)
}

// Run ticks n times at the given frame interval.
func (e *Env) Run(interval time.Duration, n int) {
	for i := 0; i < n; i++ {
		e.Tick(interval)
	}
}

// Resize changes the viewport and notifies resize listeners immediately.
func (e *Env) Resize(width, height float64) {
	e.width, e.height = width, height
	for _, fn := range e.resizeFns {
		fn()
	}
}

// SetDevicePixelRatio changes the ratio reported to the next layout.
func (e *Env) SetDevicePixelRatio(dpr float64) {
	e.dpr = dpr
}

// SetHidden changes page visibility, notifying listeners on a change.
func (e *Env) SetHidden(hidden bool) {
	if e.hidden == hidden {
		return
	}
	e.hidden = hidden
	for _, fn := range e.visFns {
		fn(hidden)
	}
}

// Created reports how many canvases and wrappers the document has made.
func (e *Env) Created() (canvases, wrappers int) {
	return e.canvases, e.wrappers
}

// CreateCanvas implements rain.Document.
func (e *Env) CreateCanvas(p rain.Placement) rain.Canvas {
	e.canvases++
	c := &Canvas{Placement: p}
	if !e.NoContext {
		c.ctx = &Context{}
	}
	return c
}

// CreateWrapper implements rain.Document.
func (e *Env) CreateWrapper(p rain.Placement, blurPx float64) rain.Wrapper {
	e.wrappers++
	return &Wrapper{Placement: p, BlurPx: blurPx}
}

// Layer returns the first canvas under Body, looking inside wrappers, or nil
// when nothing is attached.
func (e *Env) Layer() *Canvas {
	for _, n := range e.Body.Children() {
		switch n := n.(type) {
		case *Canvas:
			return n
		case *Wrapper:
			for _, c := range n.Children() {
				if c, ok := c.(*Canvas); ok {
					return c
				}
			}
		}
	}
	return nil
}
