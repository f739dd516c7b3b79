package rain

import "time"

const (
	// maxFrameGap caps the simulated time between two frames so a stalled or
	// backgrounded loop does not teleport every stream.
	maxFrameGap = 50 * time.Millisecond

	headAlpha = 0.9
	tailAlpha = 0.25

	// resetChance is the per-frame probability that a stream which has left
	// the surface is recycled.
	resetChance = 0.02
	// resetHeight bounds how far above the surface a recycled stream starts.
	resetHeight = 200
)

// step advances and redraws every lane, then schedules the next frame.
func (r *Rain) step(ts time.Duration) {
	r.hasFrame = false
	if !r.running || r.ctx == nil {
		return
	}

	gap := ts - r.lastTs
	if gap > maxFrameGap {
		gap = maxFrameGap
	}
	if gap < 0 {
		gap = 0
	}
	dt := gap.Seconds()
	r.lastTs = ts

	o := &r.opts
	w, h := r.w, r.h
	spacingX := o.ColumnWidth()
	spacingY := o.CharSpacingY

	r.ctx.FillRect(0, 0, w, h, o.BgColor)

	for i := range r.columns {
		c := &r.columns[i]
		x := float64(i) * spacingX

		if ts-c.LastSwitch >= o.CharSwitch {
			r.switchGlyphs(c, ts)
			r.stats.Switches++
		}

		n := c.Length
		for j, g := range c.Glyphs {
			y := c.Position - float64(j)*spacingY
			if y < -spacingY || y > h+spacingY {
				continue
			}
			col := o.MatrixColor
			if j == 0 && c.HeadBright {
				col = o.HeadColor
			}
			alpha := clamp(1-float64(j)/float64(n), tailAlpha, headAlpha)
			r.ctx.FillText(g, x, y, col, alpha)
		}

		c.Position += c.Speed * spacingY * dt

		if c.Position > h+float64(n)*spacingY && r.rnd.Float64() > 1-resetChance {
			c.Position = r.rnd.Float64() * -resetHeight
			r.reseed(c, ts)
			r.stats.Resets++
		}
	}

	r.stats.Frames++
	r.requestFrame()
}
