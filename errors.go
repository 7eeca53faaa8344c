package graymap

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocation is returned when the pixel storage cannot be obtained.
	ErrAllocation = errors.New("graymap: allocation failed")
	// ErrFormat is returned when encoded data is not a valid image.
	ErrFormat = errors.New("graymap: invalid format")
)

// Error records a failed allocation or I/O operation. Err holds the
// underlying cause, such as an *fs.PathError, and is preserved so callers
// can still inspect it with errors.Is and errors.As.
type Error struct {
	Op    string
	Path  string
	Cause string
	Err   error
}

func (e *Error) Error() string {
	s := e.Op
	if e.Path != "" {
		s += " " + e.Path
	}
	s += ": " + e.Cause
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

func precondition(ok bool, format string, a ...interface{}) {
	if !ok {
		panic(fmt.Sprintf("graymap: "+format, a...))
	}
}
