package filters

import (
	"slices"

	"github.com/nvr-ai/go-photoedit/images"
)

// DefaultMedianWindow is the window side used by Median.
const DefaultMedianWindow = 7

// Mosaic replaces every blockSize x blockSize cell with the average of the
// source pixels in that same cell.
//
// Output pixel (x, y) belongs to block (x/blockSize, y/blockSize). The block
// average is taken over the blockSize^2 source coordinates
// (bx*blockSize + j, by*blockSize + i) clamped to the image, so partial blocks
// at the right and bottom edges weigh their last column/row more heavily.
// Averages truncate toward zero per channel.
//
// A blockSize <= 0 means "not configured" and returns src unchanged.
func Mosaic(src *images.Buffer, blockSize int) *images.Buffer {
	if blockSize <= 0 {
		return src
	}

	w, h := src.Width, src.Height
	dst := images.NewBuffer(w, h)
	blocksX := (w + blockSize - 1) / blockSize
	blocksY := (h + blockSize - 1) / blockSize
	count := blockSize * blockSize

	images.Parallel(blocksY, func(partStart, partEnd int) {
		for by := partStart; by < partEnd; by++ {
			for bx := 0; bx < blocksX; bx++ {
				var sum [images.Channels]int
				for i := 0; i < blockSize; i++ {
					for j := 0; j < blockSize; j++ {
						x, y := images.ClampIndex(bx*blockSize+j, by*blockSize+i, w, h)
						off := src.Offset(x, y)
						sum[0] += int(src.Pix[off+0])
						sum[1] += int(src.Pix[off+1])
						sum[2] += int(src.Pix[off+2])
						sum[3] += int(src.Pix[off+3])
					}
				}

				avg := [images.Channels]uint8{
					uint8(sum[0] / count),
					uint8(sum[1] / count),
					uint8(sum[2] / count),
					uint8(sum[3] / count),
				}

				// Replicate into the in-bounds part of the block.
				cell := images.Rect{
					X1: bx * blockSize, Y1: by * blockSize,
					X2: (bx + 1) * blockSize, Y2: (by + 1) * blockSize,
				}.Intersect(src.Bounds())
				for y := cell.Y1; y < cell.Y2; y++ {
					for x := cell.X1; x < cell.X2; x++ {
						copy(dst.Pix[dst.Offset(x, y):], avg[:])
					}
				}
			}
		}
	})

	return dst
}

// Median applies MedianWindow with DefaultMedianWindow.
func Median(src *images.Buffer) *images.Buffer {
	return MedianWindow(src, DefaultMedianWindow)
}

// MedianWindow replaces each pixel with the channel-wise median of its
// window x window neighbourhood (edge-clamped).
//
// Each channel's values are sorted independently and the element at
// count/2 is taken; for odd windows that is the true median (7x7 gives 49
// values and index 24). A window <= 0 returns src unchanged.
func MedianWindow(src *images.Buffer, window int) *images.Buffer {
	if window <= 0 {
		return src
	}

	w, h := src.Width, src.Height
	dst := images.NewBuffer(w, h)
	// Window offsets; even windows reach one further right and down.
	lo := -window / 2
	hi := lo + window - 1
	count := window * window
	mid := count / 2

	images.Parallel(h, func(partStart, partEnd int) {
		// Per-partition scratch; partitions never share it.
		var values [images.Channels][]uint8
		for c := range values {
			values[c] = make([]uint8, count)
		}

		for y := partStart; y < partEnd; y++ {
			for x := 0; x < w; x++ {
				// Gather the window, replicating edge pixels.
				n := 0
				for dy := lo; dy <= hi; dy++ {
					for dx := lo; dx <= hi; dx++ {
						sx, sy := images.ClampIndex(x+dx, y+dy, w, h)
						off := src.Offset(sx, sy)
						values[0][n] = src.Pix[off+0]
						values[1][n] = src.Pix[off+1]
						values[2][n] = src.Pix[off+2]
						values[3][n] = src.Pix[off+3]
						n++
					}
				}

				// Sort each channel on its own and take the middle element.
				off := dst.Offset(x, y)
				for c := range values {
					slices.Sort(values[c])
					dst.Pix[off+c] = values[c][mid]
				}
			}
		}
	})

	return dst
}
