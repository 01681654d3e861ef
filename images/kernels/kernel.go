// Package kernels builds convolution kernels and applies them to pixel
// buffers with replicate-edge padding.
package kernels

import (
	"math"
)

// Kernel is a square Size x Size grid of weights stored row-major.
type Kernel struct {
	Size    int
	Weights []float64
}

// Radius returns the distance from the center tap to the edge.
func (k Kernel) Radius() int {
	return k.Size / 2
}

// At returns the weight at row ky, column kx.
func (k Kernel) At(kx, ky int) float64 {
	return k.Weights[ky*k.Size+kx]
}

// Sum returns the total of all weights (1 for a normalized kernel).
func (k Kernel) Sum() float64 {
	var s float64
	for _, w := range k.Weights {
		s += w
	}
	return s
}

// Gaussian builds a (2*radius+1)^2 kernel from exp(-(x^2+y^2)/(2*sigma^2)),
// normalized so the weights sum to 1. Kernels are generated per call.
//
// A negative radius is treated as 0 (a single tap of weight 1). sigma must be
// positive; a non-positive sigma also yields the single-tap identity kernel.
func Gaussian(radius int, sigma float64) Kernel {
	if radius < 0 {
		radius = 0
	}
	size := 2*radius + 1
	k := Kernel{Size: size, Weights: make([]float64, size*size)}
	if sigma <= 0 || radius == 0 {
		k.Weights[radius*size+radius] = 1
		return k
	}

	denom := 2.0 * sigma * sigma
	sum := 0.0
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			x := float64(i - radius)
			y := float64(j - radius)
			w := math.Exp(-(x*x + y*y) / denom)
			k.Weights[i*size+j] = w
			sum += w
		}
	}

	// Normalize so the blur doesn't change brightness.
	for i := range k.Weights {
		k.Weights[i] /= sum
	}
	return k
}
