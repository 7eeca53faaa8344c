/*
Package graymap is a library for manipulating 8-bit grayscale images held in
memory.

An Image is a raster scan of samples, left to right and top to bottom, each in
the range [0, Maxval]. Operations that change pixel levels work in place;
geometric operations return a new Image and never share storage with their
source.

Functions that can fail because of memory or I/O return an *Error. Misuse,
such as out of range coordinates or using a released Image, panics.
*/
package graymap

import "github.com/bodgit/graymap/instrument"

// PixMax is the largest Maxval an Image can have.
const PixMax = 255

// MaxPixels limits the number of samples New will allocate.
var MaxPixels = 1 << 30

// Option configures a new Image.
type Option func(*Image)

// WithCounter attaches a counter that is incremented on every pixel access.
// Images derived from this one share the counter.
func WithCounter(c *instrument.Counter) Option {
	return func(m *Image) {
		m.counter = c
	}
}
