package headless

import (
	"image/color"

	"github.com/iburimskiy/matrix-rain/internal/rain"
)

type child interface {
	rain.Node
	setParent(p *Element)
	parentElement() *Element
}

// Element is a plain container node.
type Element struct {
	children []rain.Node
}

// AppendChild implements rain.Element. A node that already has a parent is
// moved.
func (e *Element) AppendChild(n rain.Node) {
	if c, ok := n.(child); ok {
		if old := c.parentElement(); old != nil {
			old.removeChild(n)
		}
		c.setParent(e)
	}
	e.children = append(e.children, n)
}

// Children returns the element's direct children in insertion order.
func (e *Element) Children() []rain.Node {
	return append([]rain.Node(nil), e.children...)
}

func (e *Element) removeChild(n rain.Node) {
	for i, c := range e.children {
		if c == n {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

// Canvas is a recording canvas.
type Canvas struct {
	Placement rain.Placement
	Width     int
	Height    int

	parent *Element
	ctx    *Context
}

func (c *Canvas) setParent(p *Element)     { c.parent = p }
func (c *Canvas) parentElement() *Element { return c.parent }

// Remove implements rain.Node.
func (c *Canvas) Remove() {
	if c.parent != nil {
		c.parent.removeChild(c)
		c.parent = nil
	}
}

// SetBackingSize implements rain.Canvas.
func (c *Canvas) SetBackingSize(w, h int) {
	c.Width, c.Height = w, h
}

// Context2D implements rain.Canvas.
func (c *Canvas) Context2D() (rain.Context2D, bool) {
	if c.ctx == nil {
		return nil, false
	}
	return c.ctx, true
}

// Context returns the recording context, or nil when none was available.
func (c *Canvas) Context() *Context {
	return c.ctx
}

// Wrapper is a blur container.
type Wrapper struct {
	Element
	Placement rain.Placement
	BlurPx    float64

	parent *Element
}

func (w *Wrapper) setParent(p *Element)     { w.parent = p }
func (w *Wrapper) parentElement() *Element { return w.parent }

// Remove implements rain.Node.
func (w *Wrapper) Remove() {
	if w.parent != nil {
		w.parent.removeChild(w)
		w.parent = nil
	}
}

// Fill is a recorded FillRect call.
type Fill struct {
	X, Y, W, H float64
	Color      color.RGBA
}

// Text is a recorded FillText call.
type Text struct {
	Glyph string
	X, Y  float64
	Color color.RGBA
	Alpha float64
}

// Context records drawing calls. Texts holds the glyphs drawn since the last
// FillRect, which for the rain is exactly one frame.
type Context struct {
	Scale float64
	Font  rain.Font

	Fills      int
	LastFill   Fill
	Texts      []Text
	TextsTotal int
}

// SetTransform implements rain.Context2D.
func (c *Context) SetTransform(scale float64) { c.Scale = scale }

// SetFont implements rain.Context2D.
func (c *Context) SetFont(f rain.Font) { c.Font = f }

// FillRect implements rain.Context2D.
func (c *Context) FillRect(x, y, w, h float64, col color.RGBA) {
	c.Fills++
	c.LastFill = Fill{X: x, Y: y, W: w, H: h, Color: col}
	c.Texts = c.Texts[:0]
}

// FillText implements rain.Context2D.
func (c *Context) FillText(s string, x, y float64, col color.RGBA, alpha float64) {
	c.TextsTotal++
	c.Texts = append(c.Texts, Text{Glyph: s, X: x, Y: y, Color: col, Alpha: alpha})
}
