package graymap

import (
	"image"
	"image/color"
)

// FromImage converts any image to grayscale with levels in [0, maxval].
// The result always has its top-left corner at (0, 0).
func FromImage(src image.Image, maxval uint8, opts ...Option) (*Image, error) {
	b := src.Bounds()
	m, err := New(b.Dx(), b.Dy(), maxval, opts...)
	if err != nil {
		return nil, err
	}

	if g, ok := src.(*image.Gray); ok {
		for y := 0; y < m.height; y++ {
			row := g.Pix[y*g.Stride : y*g.Stride+m.width]
			for x, v := range row {
				m.pix[y*m.width+x] = fromFull(v, maxval)
			}
		}
		return m, nil
	}

	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			c := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			m.pix[y*m.width+x] = fromFull(c.Y, maxval)
		}
	}
	return m, nil
}

// Gray returns a copy of the image as an *image.Gray with levels scaled to
// [0, 255].
func (m *Image) Gray() *image.Gray {
	m.live()
	g := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for i, v := range m.pix {
		g.Pix[i] = toFull(v, m.maxval)
	}
	return g
}

// raw wraps a copy of the samples in an *image.Gray without scaling.
func (m *Image) raw() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.width, m.height))
	copy(g.Pix, m.pix)
	return g
}
