package browser

import "image/color"

// styleCache remembers the fill style and alpha last written to a 2D
// context so unchanged values are not sent across the JS boundary again.
type styleCache struct {
	fill  color.RGBA
	alpha float64
	valid bool
}

// update records c and alpha and reports which of them must be written.
func (s *styleCache) update(c color.RGBA, alpha float64) (setFill, setAlpha bool) {
	setFill = !s.valid || c != s.fill
	setAlpha = !s.valid || alpha != s.alpha
	s.fill, s.alpha, s.valid = c, alpha, true
	return setFill, setAlpha
}

// reset forgets everything; resizing a canvas resets the context state.
func (s *styleCache) reset() {
	s.valid = false
}
