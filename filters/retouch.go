package filters

import (
	"math"

	"github.com/nvr-ai/go-photoedit/images"
)

// Retouch softens a circular brush stroke by pulling every pixel in the
// brush toward the brush's average color.
//
// The center and radius are truncated to whole pixels. The average RGBA is
// taken over pixels in the box [cx-r, cx+r) x [cy-r, cy+r) (clipped to the
// image) whose distance to the center is <= r. Each of those pixels is then
// blended as out = (1-w)*in + w*avg with w = strength*(1 - d/r), so the
// effect fades linearly to nothing at the rim. Averages and blended values
// truncate.
//
// A radius that truncates to <= 0, or a brush that covers no pixel, returns
// src unchanged.
func Retouch(src *images.Buffer, centerX, centerY, radius, strength float64) *images.Buffer {
	r := int(radius)
	if r <= 0 || math.IsNaN(centerX) || math.IsNaN(centerY) {
		return src
	}

	cx, cy := int(centerX), int(centerY)
	box := images.Square(cx, cy, r).Intersect(src.Bounds())
	if box.Empty() {
		return src
	}
	x0, x1, y0, y1 := box.X1, box.X2, box.Y1, box.Y2

	fr := float64(r)
	dist := func(x, y int) float64 {
		dx, dy := x-cx, y-cy
		return math.Sqrt(float64(dx*dx + dy*dy))
	}

	var sum [images.Channels]int
	count := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if dist(x, y) > fr {
				continue
			}
			off := src.Offset(x, y)
			for c := 0; c < images.Channels; c++ {
				sum[c] += int(src.Pix[off+c])
			}
			count++
		}
	}
	if count == 0 {
		return src
	}

	var avg [images.Channels]float64
	for c := range avg {
		avg[c] = float64(uint8(float64(sum[c]) / float64(count)))
	}

	dst := src.Clone()
	images.Parallel(y1-y0, func(partStart, partEnd int) {
		for y := y0 + partStart; y < y0+partEnd; y++ {
			for x := x0; x < x1; x++ {
				d := dist(x, y)
				if d > fr {
					continue
				}
				weight := strength * (1.0 - d/fr)
				off := dst.Offset(x, y)
				for c := 0; c < images.Channels; c++ {
					v := (1.0-weight)*float64(src.Pix[off+c]) + weight*avg[c]
					dst.Pix[off+c] = uint8(images.Clamp(math.Trunc(v), 0, 255))
				}
			}
		}
	})

	return dst
}
