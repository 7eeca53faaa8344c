/*
Package batch applies an image transformation to every PGM file in a
directory tree using a pool of workers.
*/
package batch

import (
	"github.com/bodgit/graymap"
	"github.com/bodgit/graymap/results"
	"github.com/sirupsen/logrus"
)

// Ext is the file extension of the images processed.
const Ext = ".pgm"

// Transform changes an image. It either modifies m in place and returns it,
// or returns a new image.
type Transform func(m *graymap.Image) (*graymap.Image, error)

// Processor runs a Transform over a directory.
type Processor struct {
	logger  logrus.FieldLogger
	db      *results.DB
	workers int
}

// New returns a Processor. db may be nil, in which case nothing is
// recorded.
func New(logger logrus.FieldLogger, db *results.DB, workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		logger:  logger,
		db:      db,
		workers: workers,
	}
}
