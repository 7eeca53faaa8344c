package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/bodgit/graymap"
	"github.com/bodgit/graymap/batch"
	"github.com/bodgit/graymap/instrument"
	"github.com/bodgit/graymap/pgm"
	"github.com/bodgit/graymap/results"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const defaultWorkers = 4

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(c.App.ErrWriter)
	logger.SetLevel(logrus.WarnLevel)
	if c.Bool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func openDB(c *cli.Context) (*results.DB, error) {
	if c.String("db") == "" {
		return nil, nil
	}
	return results.Open(c.String("db"))
}

func record(c *cli.Context, r results.Run) error {
	db, err := openDB(c)
	if err != nil || db == nil {
		return err
	}
	defer db.Close()

	_, err = db.Record(r)
	return err
}

func needArgs(c *cli.Context, n int) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
	}
}

func loadCounted(file string) (*graymap.Image, *instrument.Counter, error) {
	counter := instrument.New(instrument.PixMem)
	m, err := pgm.Load(file, graymap.WithCounter(counter))
	if err != nil {
		return nil, nil, err
	}
	counter.Reset()
	return m, counter, nil
}

// applyTransform loads in, applies f and saves the result as out. The
// returned run carries the input dimensions and the pixel traffic of f.
func applyTransform(op, in, out string, f batch.Transform) (results.Run, error) {
	m, counter, err := loadCounted(in)
	if err != nil {
		return results.Run{}, err
	}
	defer m.Release()

	start := time.Now()
	n, err := f(m)
	if err != nil {
		return results.Run{}, err
	}
	if n != m {
		defer n.Release()
	}
	elapsed := time.Since(start)
	pixmem := counter.Value()

	if err := pgm.Save(n, out); err != nil {
		return results.Run{}, err
	}

	return results.Run{
		Op:      op,
		File:    in,
		Width:   m.Width(),
		Height:  m.Height(),
		PixMem:  pixmem,
		Elapsed: elapsed,
	}, nil
}

func transformCommand(t transform) *cli.Command {
	return &cli.Command{
		Name:      t.name,
		Usage:     t.usage,
		ArgsUsage: "INPUT OUTPUT",
		Flags:     t.flags,
		Action: func(c *cli.Context) error {
			needArgs(c, 2)
			logger := newLogger(c)

			f, err := t.build(c)
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			run, err := applyTransform(t.name, c.Args().Get(0), c.Args().Get(1), f)
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			logger.WithFields(logrus.Fields{
				"op":      run.Op,
				"pixmem":  run.PixMem,
				"elapsed": run.Elapsed,
			}).Info("transformed image")

			if err := record(c, run); err != nil {
				return cli.NewExitError(err, 1)
			}

			return nil
		},
	}
}

func batchCommand(t transform) *cli.Command {
	return &cli.Command{
		Name:      t.name,
		Usage:     t.usage,
		ArgsUsage: "SOURCE DESTINATION",
		Flags:     t.flags,
		Action: func(c *cli.Context) error {
			needArgs(c, 2)
			logger := newLogger(c)

			f, err := t.build(c)
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			db, err := openDB(c)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			if db != nil {
				defer db.Close()
			}

			p := batch.New(logger, db, c.Int("workers"))
			if err := p.Run(c.Context, c.Args().Get(0), c.Args().Get(1), t.name, f); err != nil {
				return cli.NewExitError(err, 1)
			}

			return nil
		},
	}
}

func overlayCommand(name, usage string, flags []cli.Flag, apply func(c *cli.Context, dst, src *graymap.Image) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "BASE OVERLAY OUTPUT",
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: "x", Usage: "left edge of the overlay"},
			&cli.IntFlag{Name: "y", Usage: "top edge of the overlay"},
		}, flags...),
		Action: func(c *cli.Context) error {
			needArgs(c, 3)

			dst, counter, err := loadCounted(c.Args().Get(0))
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			defer dst.Release()

			src, err := pgm.Load(c.Args().Get(1), graymap.WithCounter(counter))
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			defer src.Release()
			counter.Reset()

			x, y := c.Int("x"), c.Int("y")
			if !dst.ValidRect(x, y, src.Width(), src.Height()) {
				return cli.NewExitError(fmt.Errorf("%dx%d overlay at (%d, %d) is not inside %dx%d image", src.Width(), src.Height(), x, y, dst.Width(), dst.Height()), 1)
			}

			start := time.Now()
			if err := apply(c, dst, src); err != nil {
				return cli.NewExitError(err, 1)
			}
			elapsed := time.Since(start)

			if err := pgm.Save(dst, c.Args().Get(2)); err != nil {
				return cli.NewExitError(err, 1)
			}

			if err := record(c, results.Run{
				Op:      name,
				File:    c.Args().Get(0),
				Width:   dst.Width(),
				Height:  dst.Height(),
				PixMem:  counter.Value(),
				Elapsed: elapsed,
			}); err != nil {
				return cli.NewExitError(err, 1)
			}

			return nil
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "graymap"
	app.Usage = "8-bit grayscale image utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GRAYMAP_DB"},
			Usage:   "path to results database, measurements are not recorded if unset",
		},
		&cli.IntFlag{
			Name:    "workers",
			EnvVars: []string{"GRAYMAP_WORKERS"},
			Value:   defaultWorkers,
			Usage:   "number of concurrent workers for batch commands",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Show image dimensions and level statistics",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				needArgs(c, 1)

				m, err := pgm.Load(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Release()

				s := m.Stats()
				fmt.Fprintf(c.App.Writer, "size:    %dx%d\n", m.Width(), m.Height())
				fmt.Fprintf(c.App.Writer, "maxval:  %d\n", m.Maxval())
				fmt.Fprintf(c.App.Writer, "min:     %d\n", s.Min)
				fmt.Fprintf(c.App.Writer, "max:     %d\n", s.Max)
				fmt.Fprintf(c.App.Writer, "mean:    %.3f\n", s.Mean)
				fmt.Fprintf(c.App.Writer, "stddev:  %.3f\n", s.StdDev)

				return nil
			},
		},
		{
			Name:      "convert",
			Usage:     "Convert a GIF, JPEG, PNG or PGM image to grayscale PGM",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "maxval", Value: graymap.PixMax, Usage: "maximum gray level of the output"},
			},
			Action: func(c *cli.Context) error {
				needArgs(c, 2)

				maxval := c.Int("maxval")
				if maxval < 1 || maxval > graymap.PixMax {
					return cli.NewExitError(fmt.Errorf("maxval %d out of range", maxval), 1)
				}

				f, err := os.Open(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				src, _, err := image.Decode(f)
				if err != nil {
					return cli.NewExitError(errors.Wrapf(err, "decode %s", c.Args().Get(0)), 1)
				}

				m, err := graymap.FromImage(src, uint8(maxval))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Release()

				if err := pgm.Save(m, c.Args().Get(1)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		overlayCommand("paste", "Copy an image into another", nil, func(c *cli.Context, dst, src *graymap.Image) error {
			if src.Maxval() > dst.Maxval() {
				return fmt.Errorf("overlay maxval %d exceeds base maxval %d", src.Maxval(), dst.Maxval())
			}
			dst.Paste(c.Int("x"), c.Int("y"), src)
			return nil
		}),
		overlayCommand("blend", "Mix an image into another", []cli.Flag{
			&cli.Float64Flag{Name: "alpha", Value: 0.5, Usage: "weight of the overlay"},
		}, func(c *cli.Context, dst, src *graymap.Image) error {
			dst.Blend(c.Int("x"), c.Int("y"), src, c.Float64("alpha"))
			return nil
		}),
		{
			Name:      "locate",
			Usage:     "Find the first position of one image inside another",
			ArgsUsage: "HAYSTACK NEEDLE",
			Action: func(c *cli.Context) error {
				needArgs(c, 2)

				m, err := pgm.Load(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Release()

				sub, err := pgm.Load(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer sub.Release()

				start := time.Now()
				p, comparisons, ok := m.LocateSubImage(sub)
				elapsed := time.Since(start)

				if ok {
					fmt.Fprintf(c.App.Writer, "found at %d,%d\n", p.X, p.Y)
				} else {
					fmt.Fprintln(c.App.Writer, "not found")
				}
				fmt.Fprintf(c.App.Writer, "comparisons: %d\n", comparisons)

				if err := record(c, results.Run{
					Op:          "locate",
					File:        c.Args().Get(0),
					Width:       m.Width(),
					Height:      m.Height(),
					Comparisons: comparisons,
					Elapsed:     elapsed,
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				if !ok {
					return cli.NewExitError("", 2)
				}
				return nil
			},
		},
		{
			Name:      "runs",
			Usage:     "List recorded measurements",
			ArgsUsage: "[OP]",
			Action: func(c *cli.Context) error {
				db, err := openDB(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if db == nil {
					return cli.NewExitError("no results database, set --db", 1)
				}
				defer db.Close()

				runs, err := db.Runs(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, r := range runs {
					fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\t%dx%d\t%d\t%d\t%s\n", r.ID, r.Op, r.File, r.Width, r.Height, r.PixMem, r.Comparisons, r.Elapsed)
				}

				return nil
			},
		},
	}

	batchCmd := &cli.Command{
		Name:  "batch",
		Usage: "Transform every PGM file in a directory",
	}
	for _, t := range transforms {
		app.Commands = append(app.Commands, transformCommand(t))
		batchCmd.Subcommands = append(batchCmd.Subcommands, batchCommand(t))
	}
	app.Commands = append(app.Commands, batchCmd)

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
