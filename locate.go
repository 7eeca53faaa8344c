package graymap

import "image"

// MatchSubImage reports whether sub matches the region of the image with
// top-left corner (x, y), along with the number of pixel pairs compared.
// Comparison stops at the first mismatch.
func (m *Image) MatchSubImage(x, y int, sub *Image) (ok bool, comparisons int) {
	sub.live()
	precondition(m.ValidRect(x, y, sub.width, sub.height), "%dx%d subimage at (%d, %d) outside image", sub.width, sub.height, x, y)
	for i := 0; i < sub.height; i++ {
		for j := 0; j < sub.width; j++ {
			comparisons++
			if sub.Pixel(j, i) != m.Pixel(x+j, y+i) {
				return false, comparisons
			}
		}
	}
	return true, comparisons
}

// LocateSubImage searches the image for sub, trying top-left corners in
// raster order, and returns the first matching position. comparisons is the
// total number of pixel pairs compared during the search. p is meaningless
// unless ok is true.
func (m *Image) LocateSubImage(sub *Image) (p image.Point, comparisons int, ok bool) {
	m.live()
	sub.live()
	if sub.width > m.width || sub.height > m.height {
		return image.Point{}, 0, false
	}
	if sub.width == 0 || sub.height == 0 {
		return image.Point{}, 0, true
	}

	for y := 0; y <= m.height-sub.height; y++ {
		for x := 0; x <= m.width-sub.width; x++ {
			match, n := m.MatchSubImage(x, y, sub)
			comparisons += n
			if match {
				return image.Pt(x, y), comparisons, true
			}
		}
	}
	return image.Point{}, comparisons, false
}
