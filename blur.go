package graymap

import "time"

// Blur replaces every pixel with the mean of the (2dx+1) by (2dy+1) window
// centred on it, clipped to the image. The image is changed in place and
// the elapsed time is returned.
//
// A summed-area table of the original levels is built first, so each window
// sum costs four lookups whatever its size.
func (m *Image) Blur(dx, dy int) time.Duration {
	m.live()
	precondition(dx >= 0 && dy >= 0, "negative blur window %d, %d", dx, dy)
	start := time.Now()

	w, h := m.width, m.height
	sat := make([]int64, w*h)

	// First pass, cumulative sums of the untouched image
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := int64(m.Pixel(x, y))
			if x > 0 {
				s += sat[y*w+x-1]
			}
			if y > 0 {
				s += sat[(y-1)*w+x]
			}
			if x > 0 && y > 0 {
				s -= sat[(y-1)*w+x-1]
			}
			sat[y*w+x] = s
		}
	}

	// Second pass, window means
	for y := 0; y < h; y++ {
		loY, hiY := clip(y-dy, h), clip(y+dy, h)
		for x := 0; x < w; x++ {
			loX, hiX := clip(x-dx, w), clip(x+dx, w)

			sum := sat[hiY*w+hiX]
			if loX > 0 {
				sum -= sat[hiY*w+loX-1]
			}
			if loY > 0 {
				sum -= sat[(loY-1)*w+hiX]
			}
			if loX > 0 && loY > 0 {
				sum += sat[(loY-1)*w+loX-1]
			}

			area := int64(hiX-loX+1) * int64(hiY-loY+1)
			m.SetPixel(x, y, uint8((2*sum+area)/(2*area)))
		}
	}

	return time.Since(start)
}

// BlurDirect has the same effect as Blur but sums every window from a copy
// of the image. It is much slower and serves as a reference.
func (m *Image) BlurDirect(dx, dy int) (time.Duration, error) {
	m.live()
	precondition(dx >= 0 && dy >= 0, "negative blur window %d, %d", dx, dy)
	start := time.Now()

	src, err := m.Clone()
	if err != nil {
		return 0, err
	}
	defer src.Release()

	for y := 0; y < m.height; y++ {
		loY, hiY := clip(y-dy, m.height), clip(y+dy, m.height)
		for x := 0; x < m.width; x++ {
			loX, hiX := clip(x-dx, m.width), clip(x+dx, m.width)

			var sum int64
			for i := loY; i <= hiY; i++ {
				for j := loX; j <= hiX; j++ {
					sum += int64(src.Pixel(j, i))
				}
			}

			area := int64(hiX-loX+1) * int64(hiY-loY+1)
			m.SetPixel(x, y, uint8((2*sum+area)/(2*area)))
		}
	}

	return time.Since(start), nil
}

// clip limits v to [0, n-1].
func clip(v, n int) int {
	switch {
	case v < 0:
		return 0
	case v >= n:
		return n - 1
	}
	return v
}
