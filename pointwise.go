package graymap

import (
	"image/color"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
)

// Pixel transformations change levels in place and never fail.

// Negative transforms the image into its photographic negative.
func (m *Image) Negative() {
	m.live()
	for i, v := range m.pix {
		m.pix[i] = m.maxval - v
	}
}

// Threshold sets every pixel with a level of at least t to Maxval and every
// other pixel to zero.
func (m *Image) Threshold(t uint8) {
	m.live()
	for i, v := range m.pix {
		if v >= t {
			m.pix[i] = m.maxval
		} else {
			m.pix[i] = 0
		}
	}
}

// Brighten multiplies every level by factor, rounding to the nearest level
// and saturating at Maxval. A factor below 1.0 darkens the image.
func (m *Image) Brighten(factor float64) {
	m.live()
	precondition(factor >= 0, "negative brighten factor %v", factor)
	for i, v := range m.pix {
		m.pix[i] = saturate(float64(v)*factor, m.maxval)
	}
}

// Posterize reduces the image to at most levels distinct gray levels chosen
// by median cut.
func (m *Image) Posterize(levels int) {
	m.live()
	precondition(levels > 0, "posterize needs at least one level, got %d", levels)
	if len(m.pix) == 0 {
		return
	}

	g := m.raw()
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, levels), g)
	if len(p) == 0 {
		return
	}

	// Map each distinct level once
	var lut [PixMax + 1]uint8
	var seen [PixMax + 1]bool
	for i, v := range m.pix {
		if !seen[v] {
			c := color.GrayModel.Convert(p.Convert(color.Gray{Y: v})).(color.Gray)
			lut[v] = clampLevel(c.Y, m.maxval)
			seen[v] = true
		}
		m.pix[i] = lut[v]
	}
}

// saturate rounds v half-up and clamps it into [0, maxval]. NaN becomes 0.
func saturate(v float64, maxval uint8) uint8 {
	v += 0.5
	switch {
	case math.IsNaN(v), v < 1:
		return 0
	case v >= float64(maxval):
		return maxval
	}
	return uint8(v)
}

func clampLevel(v, maxval uint8) uint8 {
	if v > maxval {
		return maxval
	}
	return v
}
