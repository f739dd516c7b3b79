package term

import (
	"image/color"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

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

func (c *container) sorted() []rain.Node {
	out := c.Children()
	sort.SliceStable(out, func(i, j int) bool { return zIndex(out[i]) < zIndex(out[j]) })
	return out
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

type cell struct {
	r     rune
	style tcell.Style
}

// canvas is a grid of cells, one per terminal cell covered by the layer.
type canvas struct {
	placement rain.Placement
	metrics   Metrics
	cols      int
	rows      int
	cells     []cell
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
}

// SetBackingSize sizes the grid from the backing store in pixels.
func (c *canvas) SetBackingSize(w, h int) {
	c.cols = int(math.Ceil(float64(w) / c.metrics.CellWidth))
	c.rows = int(math.Ceil(float64(h) / c.metrics.CellHeight))
	c.cells = make([]cell, c.cols*c.rows)
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', style: tcell.StyleDefault}
	}
}

func (c *canvas) Context2D() (rain.Context2D, bool) {
	if c.ctx == nil {
		c.ctx = &context2D{canvas: c, scale: 1}
	}
	return c.ctx, true
}

func (c *canvas) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return nil
	}
	return &c.cells[row*c.cols+col]
}

func (c *canvas) blit(s tcell.Screen) {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			x := c.cells[row*c.cols+col]
			s.SetContent(col, row, x.r, nil, x.style)
		}
	}
}

type wrapper struct {
	container
	placement rain.Placement
	owner     *container
}

func (w *wrapper) setParent(p *container) { w.owner = p }
func (w *wrapper) parent() *container     { return w.owner }

func (w *wrapper) Remove() {
	if w.owner != nil {
		w.owner.remove(w)
		w.owner = nil
	}
}

// context2D maps pixel drawing calls onto cells.
type context2D struct {
	canvas *canvas
	scale  float64
	bg     color.RGBA
}

func (x *context2D) SetTransform(scale float64) { x.scale = scale }

func (x *context2D) SetFont(rain.Font) {}

func (x *context2D) cellOf(px, py float64) (int, int) {
	m := x.canvas.metrics
	return int(math.Floor(px * x.scale / m.CellWidth)), int(math.Floor(py * x.scale / m.CellHeight))
}

func (x *context2D) FillRect(px, py, w, h float64, c color.RGBA) {
	x.bg = c
	c0, r0 := x.cellOf(px, py)
	c1, r1 := x.cellOf(px+w, py+h)
	style := tcell.StyleDefault.Background(rgb(c)).Foreground(rgb(c))
	for row := max(r0, 0); row < min(r1, x.canvas.rows); row++ {
		for col := max(c0, 0); col < min(c1, x.canvas.cols); col++ {
			*x.canvas.at(col, row) = cell{r: ' ', style: style}
		}
	}
}

func (x *context2D) FillText(s string, px, py float64, c color.RGBA, alpha float64) {
	col, row := x.cellOf(px, py)
	dst := x.canvas.at(col, row)
	if dst == nil {
		return
	}
	r, _ := utf8.DecodeRuneInString(s)
	fg := blend(x.bg, c, alpha)
	*dst = cell{r: r, style: tcell.StyleDefault.Background(rgb(x.bg)).Foreground(rgb(fg))}
}

// blend mixes fg over bg at the given opacity.
func blend(bg, fg color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*alpha))
	}
	return color.RGBA{R: mix(bg.R, fg.R), G: mix(bg.G, fg.G), B: mix(bg.B, fg.B), A: 0xff}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
