package graymap

import "gonum.org/v1/gonum/stat"

// Stats summarises the levels of an image.
type Stats struct {
	Min, Max uint8
	Mean     float64
	StdDev   float64
}

// Stats returns the minimum, maximum, mean and sample standard deviation of
// the levels. An empty image has all fields zero, and StdDev is zero for a
// single pixel.
func (m *Image) Stats() Stats {
	h := m.Histogram()

	// Only the levels present, each weighted by its pixel count
	var levels, counts []float64
	for v, n := range h {
		if n > 0 {
			levels = append(levels, float64(v))
			counts = append(counts, float64(n))
		}
	}
	if len(levels) == 0 {
		return Stats{}
	}

	s := Stats{
		Min:  uint8(levels[0]),
		Max:  uint8(levels[len(levels)-1]),
		Mean: stat.Mean(levels, counts),
	}
	if len(m.pix) > 1 {
		s.StdDev = stat.StdDev(levels, counts)
	}
	return s
}

// Histogram returns the number of pixels at each level.
func (m *Image) Histogram() [PixMax + 1]int {
	m.live()
	var h [PixMax + 1]int
	for _, v := range m.pix {
		h[v]++
	}
	return h
}
