package graymap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlurIdentity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	m := randomImage(t, r, 11, 8, 255)
	want := append([]uint8(nil), m.Samples()...)
	m.Blur(0, 0)
	assert.Equal(t, want, m.Samples())
}

func TestBlurCornerArea(t *testing.T) {
	// A single bright pixel at the corner is averaged over (k+1)^2 pixels,
	// not (2k+1)^2
	for k := 1; k <= 3; k++ {
		m := newImage(t, 6, 6, 255)
		m.SetPixel(0, 0, uint8(10*(k+1)*(k+1)))
		m.Blur(k, k)
		assert.Equal(t, uint8(10), m.Pixel(0, 0), "k=%d", k)
	}
}

func TestBlur(t *testing.T) {
	m := newImage(t, 3, 3, 255,
		9, 0, 0,
		0, 0, 0,
		0, 0, 9,
	)
	m.Blur(1, 1)
	assert.Equal(t, []uint8{
		2, 2, 0,
		2, 2, 2,
		0, 2, 2,
	}, m.Samples())
}

func TestBlurRounding(t *testing.T) {
	// Means of 0.5 round up, means below it round down
	m := newImage(t, 2, 1, 255, 0, 1)
	m.Blur(1, 0)
	assert.Equal(t, []uint8{1, 1}, m.Samples())

	m = newImage(t, 3, 1, 255, 0, 0, 1)
	m.Blur(1, 0)
	assert.Equal(t, []uint8{0, 0, 1}, m.Samples())
}

func TestBlurMatchesDirect(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	tables := []struct {
		width, height int
		dx, dy        int
	}{
		{1, 1, 2, 2},
		{10, 1, 3, 0},
		{1, 10, 0, 3},
		{16, 9, 1, 2},
		{9, 16, 4, 1},
		{7, 7, 10, 10},
	}

	for _, table := range tables {
		a := randomImage(t, r, table.width, table.height, 255)
		b, err := a.Clone()
		require.NoError(t, err)

		a.Blur(table.dx, table.dy)
		_, err = b.BlurDirect(table.dx, table.dy)
		require.NoError(t, err)
		assert.Equal(t, b.Samples(), a.Samples(), "%+v", table)
	}
}

func TestBlurMaxval(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	m := randomImage(t, r, 12, 12, 50)
	m.Blur(2, 3)
	for _, v := range m.Samples() {
		assert.LessOrEqual(t, v, uint8(50))
	}
}

func TestBlurPreconditions(t *testing.T) {
	m := newImage(t, 2, 2, 255)
	assert.Panics(t, func() { m.Blur(-1, 0) })
	assert.Panics(t, func() { m.Blur(0, -1) })
	assert.NotPanics(t, func() { newImage(t, 0, 0, 255).Blur(3, 3) })
}
