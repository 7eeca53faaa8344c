package graymap

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/bodgit/graymap/instrument"
)

var _ draw.Image = (*Image)(nil)

// Image is an 8-bit grayscale raster. The zero value is not usable, create
// one with New or FromImage.
type Image struct {
	width, height int
	maxval        uint8
	pix           []uint8

	counter  *instrument.Counter
	released bool
}

// New returns a width by height image with all samples set to zero. Negative
// dimensions or a zero maxval panic.
func New(width, height int, maxval uint8, opts ...Option) (*Image, error) {
	precondition(width >= 0, "negative width %d", width)
	precondition(height >= 0, "negative height %d", height)
	precondition(maxval > 0, "maxval must be positive")

	if err := checkSize("create", width, height); err != nil {
		return nil, err
	}

	m := &Image{
		width:  width,
		height: height,
		maxval: maxval,
		pix:    make([]uint8, width*height),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func checkSize(op string, width, height int) error {
	if height > 0 && width > math.MaxInt/height {
		return &Error{Op: op, Cause: "image size overflows", Err: ErrAllocation}
	}
	if width*height > MaxPixels {
		return &Error{Op: op, Cause: "image exceeds pixel limit", Err: ErrAllocation}
	}
	return nil
}

// derive creates an image sharing the instrumentation of m.
func (m *Image) derive(width, height int) (*Image, error) {
	return New(width, height, m.maxval, WithCounter(m.counter))
}

// Release frees the pixel storage. The image must not be used afterwards;
// releasing it again has no effect.
func (m *Image) Release() {
	if m == nil || m.released {
		return
	}
	m.pix = nil
	m.released = true
}

func (m *Image) live() {
	precondition(m != nil, "nil image")
	precondition(!m.released, "use of released image")
}

// Width returns the image width.
func (m *Image) Width() int {
	m.live()
	return m.width
}

// Height returns the image height.
func (m *Image) Height() int {
	m.live()
	return m.height
}

// Maxval returns the maximum gray level of the image.
func (m *Image) Maxval() uint8 {
	m.live()
	return m.maxval
}

// Size returns the number of pixels in the image.
func (m *Image) Size() int {
	m.live()
	return m.width * m.height
}

// Counter returns the access counter attached to the image, possibly nil.
func (m *Image) Counter() *instrument.Counter {
	m.live()
	return m.counter
}

// ValidPos reports whether (x, y) is inside the image.
func (m *Image) ValidPos(x, y int) bool {
	m.live()
	return 0 <= x && x < m.width && 0 <= y && y < m.height
}

// ValidRect reports whether the w by h rectangle with top-left corner (x, y)
// is completely inside the image. Empty rectangles are never valid.
func (m *Image) ValidRect(x, y, w, h int) bool {
	return m.ValidPos(x, y) && m.ValidPos(x+w-1, y+h-1)
}

func (m *Image) offset(x, y int) int {
	precondition(m.ValidPos(x, y), "position (%d, %d) outside %dx%d image", x, y, m.width, m.height)
	return y*m.width + x
}

// Pixel returns the level of the pixel at (x, y).
func (m *Image) Pixel(x, y int) uint8 {
	i := m.offset(x, y)
	m.counter.Add(1)
	return m.pix[i]
}

// SetPixel sets the level of the pixel at (x, y). The level must not exceed
// Maxval.
func (m *Image) SetPixel(x, y int, level uint8) {
	i := m.offset(x, y)
	precondition(level <= m.maxval, "level %d exceeds maxval %d", level, m.maxval)
	m.counter.Add(1)
	m.pix[i] = level
}

// Samples returns the raster scan backing the image. Writes through the
// slice must keep every sample within Maxval.
func (m *Image) Samples() []uint8 {
	m.live()
	return m.pix
}

// Clone returns an independent copy of the image.
func (m *Image) Clone() (*Image, error) {
	m.live()
	n, err := m.derive(m.width, m.height)
	if err != nil {
		return nil, err
	}
	copy(n.pix, m.pix)
	return n, nil
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle {
	m.live()
	return image.Rect(0, 0, m.width, m.height)
}

// At implements image.Image. Levels are scaled from [0, Maxval] to
// [0, 255].
func (m *Image) At(x, y int) color.Color {
	if !m.ValidPos(x, y) {
		return color.Gray{}
	}
	return color.Gray{Y: toFull(m.pix[y*m.width+x], m.maxval)}
}

// Set implements draw.Image. Colors are converted to gray and scaled into
// [0, Maxval].
func (m *Image) Set(x, y int, c color.Color) {
	if !m.ValidPos(x, y) {
		return
	}
	m.pix[y*m.width+x] = fromFull(color.GrayModel.Convert(c).(color.Gray).Y, m.maxval)
}

func toFull(v, maxval uint8) uint8 {
	if maxval == PixMax {
		return v
	}
	return uint8((uint(v)*PixMax + uint(maxval)/2) / uint(maxval))
}

func fromFull(v, maxval uint8) uint8 {
	if maxval == PixMax {
		return v
	}
	return uint8((uint(v)*uint(maxval) + PixMax/2) / PixMax)
}
