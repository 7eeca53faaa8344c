/*
Package pgm implements a decoder and encoder for raw 8-bit PGM images.

The format starts with the magic "P5" followed by whitespace and three
decimal numbers separated by whitespace: width, height and the maximum gray
level, which must be in the range 1 to 255. Comments run from a '#' to the
end of the line and may appear between any of these header tokens. A single
whitespace byte ends the header and is followed by width*height bytes, one
per pixel, in raster order.

Importing this package registers the format with the standard image package.
*/
package pgm

import (
	"image"
	"io"
)

const magic = "P5"

// Longest decimal number accepted for a header field.
const maxDigits = 10

func init() {
	image.RegisterFormat("pgm", magic, decodeImage, DecodeConfig)
}

func decodeImage(r io.Reader) (image.Image, error) {
	m, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}
