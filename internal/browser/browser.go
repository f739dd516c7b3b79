//go:build js && wasm

// Package browser hosts the rain in a web page through syscall/js. Frames
// come from requestAnimationFrame and timers from setTimeout, so every rain
// callback runs on the page's event loop.
package browser

import (
	"fmt"
	"image/color"
	"syscall/js"
	"time"

	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/loop"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

const (
	canvasClass  = "matrix-rain-canvas"
	wrapperClass = "matrix-rain-wrapper"
)

// Page is the global window and document.
type Page struct {
	window   js.Value
	document js.Value
	perf     js.Value

	frames map[loop.FrameID]js.Func
}

// NewPage binds the current global scope.
func NewPage() *Page {
	g := js.Global()
	return &Page{
		window:   g,
		document: g.Get("document"),
		perf:     g.Get("performance"),
		frames:   make(map[loop.FrameID]js.Func),
	}
}

// Body returns document.body as a rain.Element.
func (p *Page) Body() rain.Element {
	return &element{v: p.document.Get("body")}
}

// ElementByID returns the element with the given id, or false if the page
// has none.
func (p *Page) ElementByID(id string) (rain.Element, bool) {
	v := p.document.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil, false
	}
	return &element{v: v}, true
}

// Viewport implements rain.Window.
func (p *Page) Viewport() (float64, float64) {
	return p.window.Get("innerWidth").Float(), p.window.Get("innerHeight").Float()
}

// DevicePixelRatio implements rain.Window.
func (p *Page) DevicePixelRatio() float64 {
	v := p.window.Get("devicePixelRatio")
	if v.Type() != js.TypeNumber {
		return 0
	}
	return v.Float()
}

// Now implements rain.Window using performance.now().
func (p *Page) Now() time.Duration {
	return msToDuration(p.perf.Call("now").Float())
}

// RequestFrame implements rain.Window.
func (p *Page) RequestFrame(fn func(time.Duration)) loop.FrameID {
	var id loop.FrameID
	var cb js.Func
	cb = js.FuncOf(func(_ js.Value, args []js.Value) any {
		delete(p.frames, id)
		cb.Release()
		fn(msToDuration(args[0].Float()))
		return nil
	})
	id = loop.FrameID(p.window.Call("requestAnimationFrame", cb).Int())
	p.frames[id] = cb
	return id
}

// CancelFrame implements rain.Window.
func (p *Page) CancelFrame(id loop.FrameID) {
	cb, ok := p.frames[id]
	if !ok {
		return
	}
	p.window.Call("cancelAnimationFrame", int(id))
	delete(p.frames, id)
	cb.Release()
}

// AfterFunc implements rain.Window.
func (p *Page) AfterFunc(d time.Duration, fn func()) func() bool {
	pending := true
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		pending = false
		cb.Release()
		fn()
		return nil
	})
	handle := p.window.Call("setTimeout", cb, d.Milliseconds())
	return func() bool {
		if !pending {
			return false
		}
		pending = false
		p.window.Call("clearTimeout", handle)
		cb.Release()
		return true
	}
}

// OnResize implements rain.Window.
func (p *Page) OnResize(fn func()) func() {
	return listen(p.window, "resize", func(js.Value) { fn() })
}

// OnVisibilityChange implements rain.Window.
func (p *Page) OnVisibilityChange(fn func(bool)) func() {
	return listen(p.document, "visibilitychange", func(js.Value) {
		fn(p.document.Get("hidden").Bool())
	})
}

func listen(target js.Value, event string, fn func(js.Value)) func() {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	target.Call("addEventListener", event, cb)
	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		target.Call("removeEventListener", event, cb)
		cb.Release()
	}
}

// CreateCanvas implements rain.Document.
func (p *Page) CreateCanvas(pl rain.Placement) rain.Canvas {
	v := p.document.Call("createElement", "canvas")
	v.Set("className", canvasClass)
	style := map[string]any{
		"position": "absolute",
		"top":      "0",
		"left":     "0",
		"width":    "100%",
		"height":   "100%",
		"display":  "block",
	}
	if !pl.Fill {
		for k, s := range fixedStyle(pl) {
			style[k] = s
		}
	}
	decorate(v, pl, style)
	return &canvas{element: element{v: v}}
}

// CreateWrapper implements rain.Document.
func (p *Page) CreateWrapper(pl rain.Placement, blurPx float64) rain.Wrapper {
	v := p.document.Call("createElement", "div")
	v.Set("className", wrapperClass)
	style := fixedStyle(pl)
	style["overflow"] = "hidden"
	style["filter"] = fmt.Sprintf("blur(%gpx)", blurPx)
	style["transform"] = "translateZ(0)"
	decorate(v, pl, style)
	return &element{v: v}
}

func fixedStyle(pl rain.Placement) map[string]any {
	return map[string]any{
		"position":      "fixed",
		"top":           "0",
		"left":          "0",
		"width":         "100vw",
		"height":        fmt.Sprintf("%gvh", pl.HeightVh),
		"pointerEvents": pl.PointerEvents,
		"zIndex":        fmt.Sprint(pl.ZIndex),
	}
}

func decorate(v js.Value, pl rain.Placement, style map[string]any) {
	if pl.Decorative {
		v.Call("setAttribute", "aria-hidden", "true")
	}
	js.Global().Get("Object").Call("assign", v.Get("style"), style)
}

type element struct {
	v js.Value
}

func (e *element) AppendChild(n rain.Node) {
	if x, ok := n.(interface{ value() js.Value }); ok {
		e.v.Call("appendChild", x.value())
	}
}

func (e *element) Remove()          { e.v.Call("remove") }
func (e *element) value() js.Value { return e.v }

type canvas struct {
	element
	ctx *context2D
}

// SetBackingSize resizes the bitmap, which also resets the context state.
func (c *canvas) SetBackingSize(w, h int) {
	c.v.Set("width", w)
	c.v.Set("height", h)
	if c.ctx != nil {
		c.ctx.cache.reset()
	}
}

func (c *canvas) Context2D() (rain.Context2D, bool) {
	if c.ctx != nil {
		return c.ctx, true
	}
	v := c.v.Call("getContext", "2d", map[string]any{"alpha": false})
	if v.IsNull() || v.IsUndefined() {
		return nil, false
	}
	c.ctx = &context2D{v: v}
	return c.ctx, true
}

// context2D forwards to CanvasRenderingContext2D and skips redundant style
// writes, which cross the JS boundary.
type context2D struct {
	v     js.Value
	cache styleCache
}

func (x *context2D) SetTransform(scale float64) {
	x.v.Call("setTransform", scale, 0, 0, scale, 0, 0)
}

func (x *context2D) SetFont(f rain.Font) {
	x.v.Set("font", fmt.Sprintf("%gpx %s", f.SizePx, f.Family))
	x.v.Set("textAlign", f.Align)
	x.v.Set("textBaseline", f.Baseline)
}

func (x *context2D) style(c color.RGBA, alpha float64) {
	setFill, setAlpha := x.cache.update(c, alpha)
	if setFill {
		x.v.Set("fillStyle", config.Hex(c))
	}
	if setAlpha {
		x.v.Set("globalAlpha", alpha)
	}
}

func (x *context2D) FillRect(px, py, w, h float64, c color.RGBA) {
	x.style(c, 1)
	x.v.Call("fillRect", px, py, w, h)
}

func (x *context2D) FillText(s string, px, py float64, c color.RGBA, alpha float64) {
	x.style(c, alpha)
	x.v.Call("fillText", s, px, py)
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
