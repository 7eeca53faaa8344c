package main

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/graymap"
	"github.com/bodgit/graymap/pgm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransform(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in.pgm"), filepath.Join(dir, "out.pgm")

	m, err := graymap.New(3, 2, 255)
	require.NoError(t, err)
	copy(m.Samples(), []uint8{1, 2, 3, 4, 5, 6})
	require.NoError(t, pgm.Save(m, in))

	var src, dst *graymap.Image
	run, err := applyTransform("rotate", in, out, func(m *graymap.Image) (*graymap.Image, error) {
		src = m
		n, err := m.Rotate()
		dst = n
		return n, err
	})
	require.NoError(t, err)

	assert.Equal(t, "rotate", run.Op)
	assert.Equal(t, in, run.File)
	assert.Equal(t, 3, run.Width)
	assert.Equal(t, 2, run.Height)
	assert.NotZero(t, run.PixMem)

	// Both the loaded and the derived image are released
	assert.Panics(t, func() { src.Width() })
	assert.Panics(t, func() { dst.Width() })

	n, err := pgm.Load(out)
	require.NoError(t, err)
	defer n.Release()
	assert.Equal(t, 2, n.Width())
	assert.Equal(t, 3, n.Height())
}

func TestApplyTransformInPlace(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in.pgm"), filepath.Join(dir, "out.pgm")

	m, err := graymap.New(2, 1, 255)
	require.NoError(t, err)
	copy(m.Samples(), []uint8{0, 255})
	require.NoError(t, pgm.Save(m, in))

	_, err = applyTransform("negative", in, out, func(m *graymap.Image) (*graymap.Image, error) {
		m.Negative()
		return m, nil
	})
	require.NoError(t, err)

	n, err := pgm.Load(out)
	require.NoError(t, err)
	defer n.Release()
	assert.Equal(t, []uint8{255, 0}, n.Samples())
}
