package rain

import (
	"image/color"
	"time"

	"github.com/iburimskiy/matrix-rain/internal/loop"
)

// Node is something that can be placed inside an Element.
type Node interface {
	// Remove takes the node out of its parent. Removing a detached node is a
	// no-op.
	Remove()
}

// Element is a container the rain layer can be appended to.
type Element interface {
	AppendChild(n Node)
}

// Placement describes where a node sits relative to the viewport.
type Placement struct {
	// Fill makes the node cover its parent (used for a canvas inside a blur
	// wrapper). When false the node is fixed to the viewport's top-left
	// corner, full width, HeightVh tall.
	Fill          bool
	HeightVh      float64
	ZIndex        int
	PointerEvents string
	// Decorative nodes are hidden from assistive technology.
	Decorative bool
}

// Canvas is a drawable node with a resizable backing store.
type Canvas interface {
	Node
	SetBackingSize(width, height int)
	// Context2D returns the canvas's 2D drawing context, or false when the
	// host cannot provide one.
	Context2D() (Context2D, bool)
}

// Wrapper is a container node that applies a blur filter to its children.
type Wrapper interface {
	Node
	Element
}

// Document creates nodes.
type Document interface {
	CreateCanvas(p Placement) Canvas
	CreateWrapper(p Placement, blurPx float64) Wrapper
}

// Font selects the face used by FillText.
type Font struct {
	SizePx   float64
	Family   string
	Align    string
	Baseline string
}

// Context2D is the subset of a 2D drawing API the rain needs. Coordinates
// are in CSS pixels once SetTransform has been applied.
type Context2D interface {
	SetTransform(scale float64)
	SetFont(f Font)
	FillRect(x, y, w, h float64, c color.RGBA)
	FillText(s string, x, y float64, c color.RGBA, alpha float64)
}

// Window exposes viewport metrics, the frame scheduler, timers and change
// notifications. Every callback must be delivered on the same goroutine the
// rain's methods are called from.
type Window interface {
	Viewport() (width, height float64)
	DevicePixelRatio() float64
	Now() time.Duration

	RequestFrame(fn func(now time.Duration)) loop.FrameID
	CancelFrame(id loop.FrameID)
	AfterFunc(d time.Duration, fn func()) (stop func() bool)

	OnResize(fn func()) (remove func())
	OnVisibilityChange(fn func(hidden bool)) (remove func())
}

// Rand is a uniform source in [0, 1). *math/rand.Rand and *math/rand/v2.Rand
// satisfy it.
type Rand interface {
	Float64() float64
}
