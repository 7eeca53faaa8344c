package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bodgit/graymap"
	"github.com/bodgit/graymap/instrument"
	"github.com/bodgit/graymap/pgm"
	"github.com/bodgit/graymap/results"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func (p *Processor) findImages(ctx context.Context, base, skip string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Don't feed our own output back in
			if info.Mode().IsDir() && file == skip {
				return filepath.SkipDir
			}

			if !info.Mode().IsRegular() || filepath.Ext(file) != Ext {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func (p *Processor) process(base, file, dst, op string, t Transform) error {
	c := instrument.New(instrument.PixMem)
	m, err := pgm.Load(file, graymap.WithCounter(c))
	if err != nil {
		return err
	}
	defer m.Release()

	// Only measure the transformation itself
	c.Reset()
	start := time.Now()
	n, err := t(m)
	if err != nil {
		return errors.Wrapf(err, "%s %s", op, file)
	}
	elapsed := time.Since(start)
	pixmem := c.Value()
	if n != m {
		defer n.Release()
	}

	// Mirror the source tree so equally named files don't collide
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return err
	}
	out := filepath.Join(dst, rel)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	if err := pgm.Save(n, out); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"file":    file,
		"output":  out,
		"pixmem":  pixmem,
		"elapsed": elapsed,
	}).Debug("processed image")

	if p.db != nil {
		if _, err := p.db.Record(results.Run{
			Op:      op,
			File:    file,
			Width:   m.Width(),
			Height:  m.Height(),
			PixMem:  pixmem,
			Elapsed: elapsed,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) imageWorker(ctx context.Context, in <-chan string, base, dst, op string, t Transform) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := p.process(base, file, dst, op, t); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc
}

func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	var first error
	for err := range errc {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Run applies t to every PGM file found under src and writes the results
// into dst at the same path relative to src. op names the transformation in logs
// and recorded results. The first error stops the walk and is returned.
func (p *Processor) Run(ctx context.Context, src, dst, op string, t Transform) error {
	dir, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var errcList []<-chan error

	files, errc := p.findImages(ctx, dir, dst)
	errcList = append(errcList, errc)

	for i := 0; i < p.workers; i++ {
		errcList = append(errcList, p.imageWorker(ctx, files, dir, dst, op, t))
	}

	p.logger.WithFields(logrus.Fields{
		"src":     dir,
		"dst":     dst,
		"op":      op,
		"workers": p.workers,
	}).Info("starting batch")

	return waitForPipeline(cancel, errcList...)
}
