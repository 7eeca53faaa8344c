package graymap

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSubImage(t *testing.T) {
	m := newImage(t, 4, 2, 255,
		1, 2, 3, 4,
		5, 6, 7, 8,
	)

	ok, n := m.MatchSubImage(1, 0, newImage(t, 2, 2, 255, 2, 3, 6, 7))
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	// Mismatch on the third pair stops the comparison
	ok, n = m.MatchSubImage(1, 0, newImage(t, 2, 2, 255, 2, 3, 0, 7))
	assert.False(t, ok)
	assert.Equal(t, 3, n)

	assert.Panics(t, func() { m.MatchSubImage(3, 0, newImage(t, 2, 1, 255)) })
}

func TestLocateSubImage(t *testing.T) {
	m := newImage(t, 8, 1, 255, 10, 20, 30, 40, 50, 60, 70, 80)
	p, n, ok := m.LocateSubImage(newImage(t, 2, 1, 255, 40, 50))
	require.True(t, ok)
	assert.Equal(t, image.Pt(3, 0), p)
	// One comparison for each failing candidate, two for the match
	assert.Equal(t, 5, n)
}

func TestLocateSubImageItself(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	m := randomImage(t, r, 9, 6, 255)
	p, n, ok := m.LocateSubImage(m)
	require.True(t, ok)
	assert.Equal(t, image.Pt(0, 0), p)
	assert.Equal(t, m.Size(), n)
}

func TestLocateSubImageTooLarge(t *testing.T) {
	m := newImage(t, 4, 4, 255)
	for _, sub := range []*Image{
		newImage(t, 5, 1, 255),
		newImage(t, 1, 5, 255),
		newImage(t, 0, 5, 255),
		newImage(t, 5, 0, 255),
	} {
		_, n, ok := m.LocateSubImage(sub)
		assert.False(t, ok)
		assert.Equal(t, 0, n)
	}
}

func TestLocateSubImageFirstMatch(t *testing.T) {
	m := newImage(t, 3, 3, 255,
		0, 0, 0,
		0, 1, 1,
		0, 1, 1,
	)
	p, _, ok := m.LocateSubImage(newImage(t, 1, 1, 255, 1))
	require.True(t, ok)
	assert.Equal(t, image.Pt(1, 1), p)

	p, _, ok = m.LocateSubImage(newImage(t, 2, 1, 255, 0, 0))
	require.True(t, ok)
	assert.Equal(t, image.Pt(0, 0), p)
}

func TestLocateSubImageCropped(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	m := randomImage(t, r, 30, 20, 255)
	sub, err := m.Crop(17, 11, 5, 4)
	require.NoError(t, err)

	p, n, ok := m.LocateSubImage(sub)
	require.True(t, ok)
	assert.Equal(t, image.Pt(17, 11), p)
	assert.GreaterOrEqual(t, n, sub.Size())
}

func TestLocateSubImageMissing(t *testing.T) {
	m := newImage(t, 5, 5, 255)
	_, n, ok := m.LocateSubImage(newImage(t, 2, 2, 255, 0, 0, 0, 1))
	assert.False(t, ok)
	// Each of the 16 candidates fails on its last pixel
	assert.Equal(t, 16*4, n)
}

func TestLocateSubImageEmpty(t *testing.T) {
	m := newImage(t, 3, 3, 255)
	p, n, ok := m.LocateSubImage(newImage(t, 0, 2, 255))
	assert.True(t, ok)
	assert.Equal(t, image.Point{}, p)
	assert.Equal(t, 0, n)
}
