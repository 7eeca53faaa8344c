package batch

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/graymap"
	"github.com/bodgit/graymap/pgm"
	"github.com/bodgit/graymap/results"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)
	return logger
}

func writeImage(t *testing.T, file string, pix ...uint8) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	m, err := graymap.New(len(pix), 1, 255)
	require.NoError(t, err)
	copy(m.Samples(), pix)
	require.NoError(t, pgm.Save(m, file))
}

func negative(m *graymap.Image) (*graymap.Image, error) {
	m.Negative()
	return m, nil
}

func TestRun(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	writeImage(t, filepath.Join(src, "a.pgm"), 0, 255)
	writeImage(t, filepath.Join(src, "sub", "b.pgm"), 10, 20, 30)
	writeImage(t, filepath.Join(src, ".hidden", "c.pgm"), 1)
	writeImage(t, filepath.Join(src, ".d.pgm"), 1)
	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "notes.txt"), []byte("hello"), 0o644))

	db, err := results.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer db.Close()

	p := New(testLogger(), db, 3)
	require.NoError(t, p.Run(context.Background(), src, dst, "negative", negative))

	m, err := pgm.Load(filepath.Join(dst, "a.pgm"))
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0}, m.Samples())

	m, err = pgm.Load(filepath.Join(dst, "sub", "b.pgm"))
	require.NoError(t, err)
	assert.Equal(t, []uint8{245, 235, 225}, m.Samples())

	entries, err := ioutil.ReadDir(dst)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	runs, err := db.Runs("negative")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	for _, r := range runs {
		assert.Equal(t, 1, r.Height)
		assert.Equal(t, uint64(0), r.PixMem)
	}
}

func TestRunSameName(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	// Different sizes so a clobbered output can't pass by accident
	writeImage(t, filepath.Join(src, "a", "x.pgm"), 1)
	writeImage(t, filepath.Join(src, "b", "x.pgm"), 2, 3, 4)
	writeImage(t, filepath.Join(src, "b", "c", "x.pgm"), 5, 6)

	p := New(testLogger(), nil, 3)
	require.NoError(t, p.Run(context.Background(), src, dst, "negative", negative))

	tables := []struct {
		file string
		want []uint8
	}{
		{filepath.Join("a", "x.pgm"), []uint8{254}},
		{filepath.Join("b", "x.pgm"), []uint8{253, 252, 251}},
		{filepath.Join("b", "c", "x.pgm"), []uint8{250, 249}},
	}

	for _, table := range tables {
		m, err := pgm.Load(filepath.Join(dst, table.file))
		require.NoError(t, err, table.file)
		assert.Equal(t, table.want, m.Samples(), table.file)
	}

	_, err := os.Stat(filepath.Join(dst, "x.pgm"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunNewImage(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(src, "rotated")
	writeImage(t, filepath.Join(src, "a.pgm"), 1, 2, 3)

	db, err := results.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer db.Close()

	p := New(testLogger(), db, 0)
	require.NoError(t, p.Run(context.Background(), src, dst, "rotate", func(m *graymap.Image) (*graymap.Image, error) {
		return m.Rotate()
	}))

	m, err := pgm.Load(filepath.Join(dst, "a.pgm"))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Width())
	assert.Equal(t, 3, m.Height())
	assert.Equal(t, []uint8{3, 2, 1}, m.Samples())

	runs, err := db.Runs("rotate")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	// One read and one write per pixel
	assert.Equal(t, uint64(6), runs[0].PixMem)
}

func TestRunError(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"a.pgm", "b.pgm", "c.pgm"} {
		writeImage(t, filepath.Join(src, name), 1, 2)
	}
	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "bad.pgm"), []byte("P5\n9 9\n255\n"), 0o644))

	p := New(testLogger(), nil, 2)
	err := p.Run(context.Background(), src, t.TempDir(), "negative", negative)
	require.Error(t, err)

	var e *graymap.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "reading pixels", e.Cause)
}
