package pgm

import (
	"bufio"
	"image"
	"image/color"
	"io"
	"os"
	"strconv"

	"github.com/bodgit/graymap"
)

func formatError(cause string) error {
	return &graymap.Error{Op: "decode", Cause: cause, Err: graymap.ErrFormat}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

type header struct {
	width, height int
	maxval        uint8
}

type decoder struct {
	r *bufio.Reader
	h header
	// size bounds the pixel data when the input length is known, else -1
	size int64
}

// skip consumes whitespace and comment lines.
func (d *decoder) skip() error {
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return err
		}
		switch {
		case isSpace(b):
		case b == '#':
			// Comments can be longer than the buffer
			for {
				_, err := d.r.ReadSlice('\n')
				if err == nil {
					break
				}
				if err != bufio.ErrBufferFull {
					return err
				}
			}
		default:
			return d.r.UnreadByte()
		}
	}
}

func (d *decoder) readInt() (int, bool) {
	if err := d.skip(); err != nil {
		return 0, false
	}
	var digits []byte
	for len(digits) <= maxDigits {
		b, err := d.r.ReadByte()
		if err != nil {
			break
		}
		if !isDigit(b) {
			d.r.UnreadByte()
			break
		}
		digits = append(digits, b)
	}
	if len(digits) == 0 || len(digits) > maxDigits {
		return 0, false
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (d *decoder) readHeader() error {
	var tmp [len(magic)]byte
	if _, err := io.ReadFull(d.r, tmp[:]); err != nil || string(tmp[:]) != magic {
		return formatError("invalid file format")
	}
	if b, err := d.r.Peek(1); err != nil || !(isSpace(b[0]) || b[0] == '#') {
		return formatError("invalid file format")
	}

	w, ok := d.readInt()
	if !ok {
		return formatError("invalid width")
	}
	h, ok := d.readInt()
	if !ok {
		return formatError("invalid height")
	}
	maxval, ok := d.readInt()
	if !ok || maxval < 1 || maxval > graymap.PixMax {
		return formatError("invalid maxval")
	}
	if b, err := d.r.ReadByte(); err != nil || !isSpace(b) {
		return formatError("whitespace expected")
	}

	d.h = header{width: w, height: h, maxval: uint8(maxval)}
	return nil
}

func (d *decoder) decode(r io.Reader, opts []graymap.Option) (*graymap.Image, error) {
	d.r = bufio.NewReader(r)
	if err := d.readHeader(); err != nil {
		return nil, err
	}

	// Fail a truncated body before allocating for it
	if d.size >= 0 && d.h.height > 0 && int64(d.h.width) > d.size/int64(d.h.height) {
		return nil, &graymap.Error{Op: "decode", Cause: "reading pixels", Err: io.ErrUnexpectedEOF}
	}

	m, err := graymap.New(d.h.width, d.h.height, d.h.maxval, opts...)
	if err != nil {
		return nil, err
	}

	pix := m.Samples()
	if _, err := io.ReadFull(d.r, pix); err != nil {
		m.Release()
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, &graymap.Error{Op: "decode", Cause: "reading pixels", Err: err}
	}
	for _, v := range pix {
		if v > d.h.maxval {
			m.Release()
			return nil, formatError("sample exceeds maxval")
		}
	}
	m.Counter().Add(uint64(len(pix)))

	return m, nil
}

// Decode reads a PGM image from r.
func Decode(r io.Reader, opts ...graymap.Option) (*graymap.Image, error) {
	d := decoder{size: -1}
	return d.decode(r, opts)
}

// DecodeConfig returns the color model and dimensions of a PGM image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	d := decoder{r: bufio.NewReader(r)}
	if err := d.readHeader(); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.GrayModel,
		Width:      d.h.width,
		Height:     d.h.height,
	}, nil
}

// Load reads the PGM image in the named file.
func Load(file string, opts ...graymap.Option) (*graymap.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, &graymap.Error{Op: "load", Path: file, Cause: "open failed", Err: err}
	}
	defer f.Close()

	d := decoder{size: -1}
	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
		d.size = fi.Size()
	}

	m, err := d.decode(f, opts)
	if err != nil {
		if e, ok := err.(*graymap.Error); ok {
			e.Op, e.Path = "load", file
		}
		return nil, err
	}
	return m, nil
}
