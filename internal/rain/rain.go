// Package rain renders the falling-glyph background layer.
//
// A Rain owns one drawable layer, a table of per-lane stream states and a
// self-rescheduling frame loop. It talks to its host only through the
// Document and Window capabilities, so the same simulation runs in a browser,
// a desktop window, a terminal or a headless test clock.
//
// Rain is not safe for concurrent use. Hosts deliver every callback on the
// goroutine that drives the rain.
package rain

import (
	"errors"
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/loop"
)

// ErrNoContext is returned by Attach when the host cannot provide a 2D
// drawing context. The effect has no fallback renderer.
var ErrNoContext = errors.New("rain: 2D drawing context unavailable")

// fontFamily mirrors the monospace stack the layer asks hosts for.
const fontFamily = `ui-monospace, "SF Mono", Menlo, Monaco, Consolas, "Liberation Mono", monospace`

// Env bundles the host collaborators a Rain needs.
type Env struct {
	Document Document
	Window   Window
	// Rand defaults to the unseeded math/rand/v2 source.
	Rand Rand
	// Log defaults to discarding output.
	Log *log.Logger
}

// Stats counts what the loop has done since construction.
type Stats struct {
	Frames   int
	Resizes  int
	Switches int
	Resets   int
}

// Rain is the falling-glyph layer.
type Rain struct {
	opts config.Options
	doc  Document
	win  Window
	rnd  Rand
	log  *log.Logger

	canvas  Canvas
	wrapper Wrapper
	ctx     Context2D

	running  bool
	frame    loop.FrameID
	hasFrame bool
	lastTs   time.Duration

	dpr float64
	w   float64
	h   float64

	columns []Column
	stats   Stats

	offResize     func()
	offVisibility func()
	stopDebounce  func() bool
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// New validates opts and binds the rain to its host. Nothing is created in
// the host until Attach.
func New(opts config.Options, env Env) (*Rain, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if env.Document == nil || env.Window == nil {
		return nil, errors.New("rain: env needs a Document and a Window")
	}
	r := &Rain{
		opts: opts,
		doc:  env.Document,
		win:  env.Window,
		rnd:  env.Rand,
		log:  env.Log,
	}
	if r.rnd == nil {
		r.rnd = globalRand{}
	}
	if r.log == nil {
		r.log = log.New(io.Discard, "", 0)
	}
	return r, nil
}

// Options returns the resolved options.
func (r *Rain) Options() config.Options {
	return r.opts
}

// Attach creates the layer inside host and starts the loop. Attaching an
// already attached rain does nothing.
func (r *Rain) Attach(host Element) (*Rain, error) {
	if r.canvas != nil {
		return r, nil
	}

	layer := Placement{
		HeightVh:      r.opts.HeightVh,
		ZIndex:        r.opts.ZIndex,
		PointerEvents: r.opts.PointerEvents,
		Decorative:    true,
	}

	var c Canvas
	var wrap Wrapper
	if r.opts.BlurPx > 0 {
		wrap = r.doc.CreateWrapper(layer, r.opts.BlurPx)
		c = r.doc.CreateCanvas(Placement{Fill: true, Decorative: true})
	} else {
		c = r.doc.CreateCanvas(layer)
	}

	ctx, ok := c.Context2D()
	if !ok {
		return r, ErrNoContext
	}

	if wrap != nil {
		wrap.AppendChild(c)
		host.AppendChild(wrap)
	} else {
		host.AppendChild(c)
	}

	r.canvas = c
	r.wrapper = wrap
	r.ctx = ctx

	r.layout()
	r.initColumns()

	r.offResize = r.win.OnResize(r.scheduleResize)
	if r.opts.AutoPauseOnHidden {
		r.offVisibility = r.win.OnVisibilityChange(r.onVisibility)
	}

	r.log.Printf("attached %.0fx%.0f css px, dpr %.2f, %d columns, blur %.2fpx",
		r.w, r.h, r.dpr, len(r.columns), r.opts.BlurPx)

	r.Start()
	return r, nil
}

// Start resumes the frame loop. It does nothing while running or before
// Attach.
func (r *Rain) Start() *Rain {
	if r.ctx == nil || r.running {
		return r
	}
	r.running = true
	r.lastTs = r.win.Now()
	r.requestFrame()
	return r
}

// Stop pauses the frame loop and cancels the pending frame.
func (r *Rain) Stop() *Rain {
	r.running = false
	if r.hasFrame {
		r.win.CancelFrame(r.frame)
	}
	r.hasFrame = false
	r.frame = 0
	return r
}

// Detach stops the loop, unregisters listeners and removes the layer from
// the document. It is safe to call at any time, any number of times.
func (r *Rain) Detach() *Rain {
	r.Stop()
	if r.offVisibility != nil {
		r.offVisibility()
		r.offVisibility = nil
	}
	if r.offResize != nil {
		r.offResize()
		r.offResize = nil
	}
	if r.stopDebounce != nil {
		r.stopDebounce()
		r.stopDebounce = nil
	}

	attached := r.canvas != nil
	if r.wrapper != nil {
		r.wrapper.Remove()
	} else if r.canvas != nil {
		r.canvas.Remove()
	}
	r.canvas = nil
	r.wrapper = nil
	r.ctx = nil
	r.columns = nil

	if attached {
		r.log.Printf("detached after %d frames", r.stats.Frames)
	}
	return r
}

// Running reports whether a frame loop is active.
func (r *Rain) Running() bool {
	return r.running
}

// Attached reports whether the layer is in the document.
func (r *Rain) Attached() bool {
	return r.canvas != nil
}

// Size returns the layer's CSS size and the capped device pixel ratio in use.
func (r *Rain) Size() (width, height, dpr float64) {
	return r.w, r.h, r.dpr
}

// Columns returns a copy of the current lane states.
func (r *Rain) Columns() []Column {
	out := make([]Column, len(r.columns))
	for i, c := range r.columns {
		out[i] = c.clone()
	}
	return out
}

// ColumnCount returns the number of lanes without copying them.
func (r *Rain) ColumnCount() int {
	return len(r.columns)
}

// Stats returns the loop counters.
func (r *Rain) Stats() Stats {
	return r.stats
}

func (r *Rain) requestFrame() {
	r.frame = r.win.RequestFrame(r.step)
	r.hasFrame = true
}

func (r *Rain) onVisibility(hidden bool) {
	if hidden {
		r.Stop()
		return
	}
	r.Start()
}
