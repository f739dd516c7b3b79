package rain

import "time"

// Column is the simulation state of one vertical lane.
type Column struct {
	// Position is the vertical offset of the head glyph in CSS pixels.
	Position float64
	// Speed is in character spacings per second.
	Speed      float64
	Length     int
	Glyphs     []string
	HeadBright bool
	LastSwitch time.Duration
}

func (c Column) clone() Column {
	c.Glyphs = append([]string(nil), c.Glyphs...)
	return c
}

// randInt returns a uniform integer in [lo, hi].
func (r *Rain) randInt(lo, hi int) int {
	n := lo + int(r.rnd.Float64()*float64(hi-lo+1))
	if n > hi {
		n = hi
	}
	return n
}

func (r *Rain) randSpeed() float64 {
	return r.opts.MinSpeed + r.rnd.Float64()*(r.opts.MaxSpeed-r.opts.MinSpeed)
}

func (r *Rain) randGlyph() string {
	return r.opts.Chars[r.randInt(0, len(r.opts.Chars)-1)]
}

func (r *Rain) randHeadBright() bool {
	return r.rnd.Float64() < r.opts.HeadBrightChance
}

// reseed gives c a new speed, length, glyph stream and head state.
func (r *Rain) reseed(c *Column, now time.Duration) {
	c.Speed = r.randSpeed()
	c.Length = r.randInt(r.opts.MinChars, r.opts.MaxChars)
	c.Glyphs = make([]string, c.Length)
	r.switchGlyphs(c, now)
}

// switchGlyphs resamples every glyph and the head state together.
func (r *Rain) switchGlyphs(c *Column, now time.Duration) {
	for j := range c.Glyphs {
		c.Glyphs[j] = r.randGlyph()
	}
	c.HeadBright = r.randHeadBright()
	c.LastSwitch = now
}

// initColumns reallocates every lane for the current surface width. Start
// positions are spread down the surface with jitter so the streams do not
// fall in step.
func (r *Rain) initColumns() {
	n := int(r.w / r.opts.ColumnWidth())
	if n < 1 {
		n = 1
	}
	now := r.win.Now()
	h := r.h

	r.columns = make([]Column, n)
	for i := range r.columns {
		c := &r.columns[i]
		spread := float64(i) / float64(n) * h * 1.2
		c.Position = -h*0.2 + spread*0.5 + r.rnd.Float64()*h*0.3
		r.reseed(c, now)
	}
}
