package main

import (
	"errors"
	"fmt"

	"github.com/bodgit/graymap"
	"github.com/bodgit/graymap/batch"
	"github.com/urfave/cli/v2"
)

// transform is an operation that turns one image into another, usable on a
// single file or a whole directory.
type transform struct {
	name  string
	usage string
	flags []cli.Flag
	build func(c *cli.Context) (batch.Transform, error)
}

func inPlace(f func(m *graymap.Image)) batch.Transform {
	return func(m *graymap.Image) (*graymap.Image, error) {
		f(m)
		return m, nil
	}
}

func sizeFlags(usage string) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "width", Usage: usage + " width"},
		&cli.IntFlag{Name: "height", Usage: usage + " height"},
	}
}

var transforms = []transform{
	{
		name:  "negative",
		usage: "Invert gray levels",
		build: func(c *cli.Context) (batch.Transform, error) {
			return inPlace((*graymap.Image).Negative), nil
		},
	},
	{
		name:  "threshold",
		usage: "Turn pixels at or above a level white and the rest black",
		flags: []cli.Flag{
			&cli.IntFlag{Name: "level", Value: 128, Usage: "threshold level"},
		},
		build: func(c *cli.Context) (batch.Transform, error) {
			level := c.Int("level")
			if level < 0 || level > graymap.PixMax {
				return nil, fmt.Errorf("level %d out of range", level)
			}
			return inPlace(func(m *graymap.Image) { m.Threshold(uint8(level)) }), nil
		},
	},
	{
		name:  "brighten",
		usage: "Multiply gray levels by a factor",
		flags: []cli.Flag{
			&cli.Float64Flag{Name: "factor", Value: 1.0, Usage: "brightness factor"},
		},
		build: func(c *cli.Context) (batch.Transform, error) {
			factor := c.Float64("factor")
			if factor < 0 {
				return nil, errors.New("factor must not be negative")
			}
			return inPlace(func(m *graymap.Image) { m.Brighten(factor) }), nil
		},
	},
	{
		name:  "posterize",
		usage: "Reduce the number of gray levels",
		flags: []cli.Flag{
			&cli.IntFlag{Name: "levels", Value: 4, Usage: "number of levels"},
		},
		build: func(c *cli.Context) (batch.Transform, error) {
			levels := c.Int("levels")
			if levels < 1 {
				return nil, errors.New("at least one level is needed")
			}
			return inPlace(func(m *graymap.Image) { m.Posterize(levels) }), nil
		},
	},
	{
		name:  "rotate",
		usage: "Rotate 90 degrees anti-clockwise",
		build: func(c *cli.Context) (batch.Transform, error) {
			return (*graymap.Image).Rotate, nil
		},
	},
	{
		name:  "mirror",
		usage: "Flip left to right",
		build: func(c *cli.Context) (batch.Transform, error) {
			return (*graymap.Image).Mirror, nil
		},
	},
	{
		name:  "crop",
		usage: "Cut out a rectangle",
		flags: append([]cli.Flag{
			&cli.IntFlag{Name: "x", Usage: "left edge"},
			&cli.IntFlag{Name: "y", Usage: "top edge"},
		}, sizeFlags("rectangle")...),
		build: func(c *cli.Context) (batch.Transform, error) {
			x, y, w, h := c.Int("x"), c.Int("y"), c.Int("width"), c.Int("height")
			return func(m *graymap.Image) (*graymap.Image, error) {
				if !m.ValidRect(x, y, w, h) {
					return nil, fmt.Errorf("rectangle %dx%d at (%d, %d) is not inside %dx%d image", w, h, x, y, m.Width(), m.Height())
				}
				return m.Crop(x, y, w, h)
			}, nil
		},
	},
	{
		name:  "scale",
		usage: "Resample to a new size, a zero dimension keeps the aspect ratio",
		flags: sizeFlags("new"),
		build: func(c *cli.Context) (batch.Transform, error) {
			w, h := c.Int("width"), c.Int("height")
			if w < 0 || h < 0 {
				return nil, errors.New("size must not be negative")
			}
			return func(m *graymap.Image) (*graymap.Image, error) {
				if m.Size() == 0 {
					return nil, errors.New("cannot scale an empty image")
				}
				return m.Scale(w, h)
			}, nil
		},
	},
	{
		name:  "blur",
		usage: "Apply a mean filter",
		flags: []cli.Flag{
			&cli.IntFlag{Name: "dx", Value: 1, Usage: "horizontal radius"},
			&cli.IntFlag{Name: "dy", Value: 1, Usage: "vertical radius"},
			&cli.BoolFlag{Name: "direct", Usage: "sum every window instead of using a summed-area table"},
		},
		build: func(c *cli.Context) (batch.Transform, error) {
			dx, dy := c.Int("dx"), c.Int("dy")
			if dx < 0 || dy < 0 {
				return nil, errors.New("radius must not be negative")
			}
			if c.Bool("direct") {
				return func(m *graymap.Image) (*graymap.Image, error) {
					_, err := m.BlurDirect(dx, dy)
					return m, err
				}, nil
			}
			return inPlace(func(m *graymap.Image) { m.Blur(dx, dy) }), nil
		},
	},
}
