// Package images - provides the pixel buffer, edge handling and interpolation
// primitives shared by every filter in the engine.
package images

import (
	"math"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// ErrInvalidDimensions is returned when a pixel slice does not match the
// declared width and height.
var ErrInvalidDimensions = errors.New("invalid buffer dimensions")

func invalidDimensions(width, height, n int) error {
	return errors.Wrapf(ErrInvalidDimensions, "width=%d height=%d len=%d", width, height, n)
}

// Clamp restricts a value to the specified range [min, max].
// This is used to prevent overflow in color calculations.
//
// Arguments:
// - value: The value to Clamp.
// - min: Minimum allowed value.
// - max: Maximum allowed value.
//
// Returns:
// - The clamped value within [min, max].
//
// @example
// clamped := Clamp(300.5, 0, 255) // Returns 255
// clamped := Clamp(-10.0, 0, 255) // Returns 0
func Clamp(value, min, max float64) float64 {
	// Lower bound first; negative overshoot is the common case.
	if value < min {
		return min
	}
	// Upper bound.
	if value > max {
		return max
	}
	// Already in range.
	return value
}

// ToByte rounds half away from zero and clamps to [0, 255].
func ToByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(Clamp(math.Round(v), 0, 255))
}

// clampCoord clamps a single coordinate to [0, n-1].
func clampCoord(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ClampIndex clamps each coordinate independently to [0, dim-1].
// Every neighbour lookup in the engine goes through this replicate-edge
// policy so that borders behave the same in all filters.
//
// Arguments:
// - x, y: The requested coordinate, possibly outside the image.
// - width, height: The image dimensions.
//
// Returns:
// - The nearest valid coordinate.
//
// @example
// x, y := ClampIndex(-3, 12, 10, 10) // Returns 0, 9
func ClampIndex(x, y, width, height int) (int, int) {
	return clampCoord(x, width), clampCoord(y, height)
}

// Extend pads a buffer by radius pixels on each side, replicating the nearest
// original pixel outward (not mirrored). Convolution runs on the result so
// that its hot loop needs no bounds checks and edges are not darkened.
//
// Arguments:
// - src: The source buffer.
// - radius: Padding in pixels; values <= 0 return a copy.
//
// An empty src has no pixel to replicate and yields a copy of itself.
//
// Returns:
// - A (width+2r) x (height+2r) buffer with src centered.
//
// @example
// ext := Extend(buf, 3)
func Extend(src *Buffer, radius int) *Buffer {
	if radius <= 0 || src.Empty() {
		return src.Clone()
	}
	dst := NewBuffer(src.Width+2*radius, src.Height+2*radius)
	ExtendInto(dst, src, radius)
	return dst
}

// ExtendInto is Extend writing into a caller-provided destination, which must
// be exactly (width+2r) x (height+2r). An empty src leaves dst untouched.
func ExtendInto(dst, src *Buffer, radius int) {
	if src.Empty() {
		return
	}
	srcStride := src.Stride()
	dstStride := dst.Stride()

	Parallel(dst.Height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			sy := clampCoord(y-radius, src.Height)
			srcRow := src.Pix[sy*srcStride : (sy+1)*srcStride]
			dstRow := dst.Pix[y*dstStride : (y+1)*dstStride]

			// Interior is a straight row copy.
			copy(dstRow[radius*Channels:], srcRow)

			// Replicate the first and last pixel into the padding.
			left := srcRow[0:Channels]
			right := srcRow[srcStride-Channels : srcStride]
			for x := 0; x < radius; x++ {
				copy(dstRow[x*Channels:], left)
				copy(dstRow[(radius+src.Width+x)*Channels:], right)
			}
		}
	})
}

// Parallel executes a function in Parallel across multiple goroutines.
// Work is split into contiguous partitions, one per CPU, and the call
// returns once every partition has finished.
//
// Arguments:
// - dataSize: The size of the data to process.
// - fn: Function to execute for each partition (receives start and end indices).
//
// @example
//
//	Parallel(height, func(start, end int) {
//	    for y := start; y < end; y++ {
//	        // Process row y
//	    }
//	})
func Parallel(dataSize int, fn func(partStart, partEnd int)) {
	if dataSize <= 0 {
		return
	}

	// One partition per CPU core.
	numGoroutines := runtime.NumCPU()

	// Small inputs are not worth the goroutine overhead; run them inline.
	if dataSize < numGoroutines*2 {
		fn(0, dataSize)
		return
	}

	// Rows per partition.
	partSize := dataSize / numGoroutines

	// Wait group to join every partition before returning.
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		// Partition boundaries.
		partStart := i * partSize
		partEnd := partStart + partSize

		// Last partition gets any remaining data.
		if i == numGoroutines-1 {
			partEnd = dataSize
		}

		// Process this partition on its own goroutine.
		go func(start, end int) {
			// Decrement the wait group even if fn returns early.
			defer wg.Done()
			fn(start, end)
		}(partStart, partEnd)
	}

	// Block until every partition is done.
	wg.Wait()
}
