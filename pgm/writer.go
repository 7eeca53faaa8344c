package pgm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/graymap"
)

// Encode writes the image m to w in PGM format.
func Encode(w io.Writer, m *graymap.Image) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", magic, m.Width(), m.Height(), m.Maxval()); err != nil {
		return &graymap.Error{Op: "encode", Cause: "writing header failed", Err: err}
	}

	pix := m.Samples()
	if _, err := bw.Write(pix); err != nil {
		return &graymap.Error{Op: "encode", Cause: "writing pixels failed", Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &graymap.Error{Op: "encode", Cause: "writing pixels failed", Err: err}
	}
	m.Counter().Add(uint64(len(pix)))

	return nil
}

// Save writes the image m to the named file, creating or truncating it. On
// failure a partial file may be left behind.
func Save(m *graymap.Image, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return &graymap.Error{Op: "save", Path: file, Cause: "open failed", Err: err}
	}

	if err := Encode(f, m); err != nil {
		f.Close()
		if e, ok := err.(*graymap.Error); ok {
			e.Op, e.Path = "save", file
		}
		return err
	}

	if err := f.Close(); err != nil {
		return &graymap.Error{Op: "save", Path: file, Cause: "close failed", Err: err}
	}
	return nil
}
