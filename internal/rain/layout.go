package rain

import "math"

// layout sizes the canvas to the viewport, applies the device pixel ratio and
// clears to the background.
func (r *Rain) layout() {
	vw, vh := r.win.Viewport()
	r.w = vw
	r.h = math.Round(r.opts.HeightVh * vh / 100)
	r.dpr = clamp(orOne(r.win.DevicePixelRatio()), 1, r.opts.DPRCap)

	r.canvas.SetBackingSize(int(math.Floor(r.w*r.dpr)), int(math.Floor(r.h*r.dpr)))
	r.ctx.SetTransform(r.dpr)
	r.ctx.SetFont(Font{
		SizePx:   r.opts.FontSize,
		Family:   fontFamily,
		Align:    "left",
		Baseline: "top",
	})
	r.ctx.FillRect(0, 0, r.w, r.h, r.opts.BgColor)
}

// scheduleResize restarts the debounce window; only the last notification in
// a burst reaches applyResize.
func (r *Rain) scheduleResize() {
	if r.stopDebounce != nil {
		r.stopDebounce()
	}
	r.stopDebounce = r.win.AfterFunc(r.opts.ResizeDebounce, r.applyResize)
}

func (r *Rain) applyResize() {
	r.stopDebounce = nil
	if r.canvas == nil || r.ctx == nil {
		return
	}
	wasRunning := r.running
	r.Stop()
	r.layout()
	r.initColumns()
	r.stats.Resizes++
	r.log.Printf("resized to %.0fx%.0f css px, %d columns", r.w, r.h, len(r.columns))
	if wasRunning {
		r.Start()
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func orOne(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	return v
}
