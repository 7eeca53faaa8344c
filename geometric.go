package graymap

import (
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"
)

// Geometric transformations return a new image and leave the source
// untouched, except Paste and Blend which modify the receiver in place.

// Rotate returns the image rotated 90 degrees anti-clockwise.
func (m *Image) Rotate() (*Image, error) {
	m.live()
	n, err := m.derive(m.height, m.width)
	if err != nil {
		return nil, err
	}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			n.SetPixel(y, m.width-1-x, m.Pixel(x, y))
		}
	}
	return n, nil
}

// Mirror returns the image flipped left to right.
func (m *Image) Mirror() (*Image, error) {
	m.live()
	n, err := m.derive(m.width, m.height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			n.SetPixel(m.width-1-x, y, m.Pixel(x, y))
		}
	}
	return n, nil
}

// Crop returns the w by h subimage with top-left corner (x, y). The
// rectangle must be inside the image.
func (m *Image) Crop(x, y, w, h int) (*Image, error) {
	precondition(m.ValidRect(x, y, w, h), "crop rectangle (%d, %d, %d, %d) outside image", x, y, w, h)
	n, err := m.derive(w, h)
	if err != nil {
		return nil, err
	}
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			n.SetPixel(j, i, m.Pixel(x+j, y+i))
		}
	}
	return n, nil
}

// Paste copies src into the image with its top-left corner at (x, y). src
// must fit inside the image and its Maxval must not exceed the image Maxval.
func (m *Image) Paste(x, y int, src *Image) {
	m.checkOverlay(x, y, src)
	precondition(src.maxval <= m.maxval, "pasting maxval %d into maxval %d", src.maxval, m.maxval)
	for i := 0; i < src.height; i++ {
		for j := 0; j < src.width; j++ {
			m.SetPixel(x+j, y+i, src.Pixel(j, i))
		}
	}
}

// Blend mixes src into the image with its top-left corner at (x, y) so each
// covered pixel becomes src*alpha + dst*(1-alpha). alpha is normally in
// [0, 1]; other finite values are allowed and the result saturates.
func (m *Image) Blend(x, y int, src *Image, alpha float64) {
	precondition(!math.IsNaN(alpha) && !math.IsInf(alpha, 0), "non-finite blend alpha %v", alpha)
	m.checkOverlay(x, y, src)
	for i := 0; i < src.height; i++ {
		for j := 0; j < src.width; j++ {
			v := float64(src.Pixel(j, i))*alpha + float64(m.Pixel(x+j, y+i))*(1-alpha)
			m.SetPixel(x+j, y+i, saturate(v, m.maxval))
		}
	}
}

func (m *Image) checkOverlay(x, y int, src *Image) {
	src.live()
	precondition(m != src, "source and destination are the same image")
	precondition(m.ValidRect(x, y, src.width, src.height), "%dx%d image at (%d, %d) outside image", src.width, src.height, x, y)
}

// Scale returns the image resampled to w by h pixels using bilinear
// interpolation. If one of w or h is zero the aspect ratio is preserved.
func (m *Image) Scale(w, h int) (*Image, error) {
	m.live()
	precondition(w >= 0 && h >= 0, "negative scale size %dx%d", w, h)
	precondition(m.width > 0 && m.height > 0, "scaling an empty image")
	if err := checkSize("scale", w, h); err != nil {
		return nil, err
	}

	r := resize.Resize(uint(w), uint(h), m.raw(), resize.Bilinear)
	b := r.Bounds()
	n, err := m.derive(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	if g, ok := r.(*image.Gray); ok {
		for y := 0; y < n.height; y++ {
			for x, v := range g.Pix[y*g.Stride : y*g.Stride+n.width] {
				n.pix[y*n.width+x] = clampLevel(v, m.maxval)
			}
		}
		return n, nil
	}

	for y := 0; y < n.height; y++ {
		for x := 0; x < n.width; x++ {
			c := color.GrayModel.Convert(r.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			n.pix[y*n.width+x] = clampLevel(c.Y, m.maxval)
		}
	}
	return n, nil
}
