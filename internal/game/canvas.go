package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/matrix-rain/internal/rain"
)

type parented interface {
	setParent(p *container)
	parent() *container
}

type container struct {
	children []rain.Node
}

func (c *container) AppendChild(n rain.Node) {
	if p, ok := n.(parented); ok {
		if old := p.parent(); old != nil {
			old.remove(n)
		}
		p.setParent(c)
	}
	c.children = append(c.children, n)
}

func (c *container) Children() []rain.Node {
	return append([]rain.Node(nil), c.children...)
}

func (c *container) remove(n rain.Node) {
	for i, x := range c.children {
		if x == n {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

// canvas is an offscreen image the rain draws into.
type canvas struct {
	placement rain.Placement
	fonts     *text.GoTextFaceSource
	img       *ebiten.Image
	ctx       *context2D
	owner     *container
}

func (c *canvas) setParent(p *container) { c.owner = p }
func (c *canvas) parent() *container     { return c.owner }

func (c *canvas) Remove() {
	if c.owner != nil {
		c.owner.remove(c)
		c.owner = nil
	}
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
}

func (c *canvas) SetBackingSize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if c.img != nil {
		if b := c.img.Bounds(); b.Dx() == w && b.Dy() == h {
			return
		}
		c.img.Deallocate()
	}
	c.img = ebiten.NewImage(w, h)
}

func (c *canvas) Context2D() (rain.Context2D, bool) {
	if c.fonts == nil {
		return nil, false
	}
	if c.ctx == nil {
		c.ctx = &context2D{canvas: c, scale: 1}
	}
	return c.ctx, true
}

// drawTo blits the canvas onto screen, offset by (dx, dy) CSS pixels.
func (c *canvas) drawTo(screen *ebiten.Image, screenScale, dx, dy, alpha float64) {
	if c.img == nil || c.ctx == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(screenScale/c.ctx.scale, screenScale/c.ctx.scale)
	op.GeoM.Translate(dx*screenScale, dy*screenScale)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(c.img, op)
}

// wrapper blurs the canvases it holds when composited.
type wrapper struct {
	container
	placement rain.Placement
	blurPx    float64
	owner     *container
}

func (w *wrapper) setParent(p *container) { w.owner = p }
func (w *wrapper) parent() *container     { return w.owner }

func (w *wrapper) Remove() {
	if w.owner != nil {
		w.owner.remove(w)
		w.owner = nil
	}
	for _, n := range w.Children() {
		n.Remove()
	}
}

func (w *wrapper) drawTo(screen *ebiten.Image, scale float64) {
	taps := blurTaps(w.blurPx)
	for _, n := range w.children {
		c, ok := n.(*canvas)
		if !ok {
			continue
		}
		for _, t := range taps {
			c.drawTo(screen, scale, t.dx, t.dy, t.alpha)
		}
	}
}

// context2D implements rain.Context2D on an ebiten image.
type context2D struct {
	canvas *canvas
	scale  float64
	face   *text.GoTextFace
}

func (x *context2D) SetTransform(scale float64) {
	x.scale = scale
}

func (x *context2D) SetFont(f rain.Font) {
	x.face = &text.GoTextFace{Source: x.canvas.fonts, Size: f.SizePx}
}

func (x *context2D) FillRect(px, py, w, h float64, c color.RGBA) {
	if x.canvas.img == nil {
		return
	}
	s := x.scale
	vector.DrawFilledRect(x.canvas.img, float32(px*s), float32(py*s), float32(w*s), float32(h*s), c, false)
}

func (x *context2D) FillText(str string, px, py float64, c color.RGBA, alpha float64) {
	if x.canvas.img == nil || x.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Scale(x.scale, x.scale)
	op.GeoM.Translate(px*x.scale, py*x.scale)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	text.Draw(x.canvas.img, str, x.face, op)
}
