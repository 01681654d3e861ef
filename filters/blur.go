package filters

import (
	"github.com/nvr-ai/go-photoedit/images"
	"github.com/nvr-ai/go-photoedit/images/kernels"
)

const (
	// DefaultBlurRadius is the radius of the stand-alone blur and of the
	// anti-aliasing pass after shrinking.
	DefaultBlurRadius = 6
	// DefaultBlurSigma pairs with DefaultBlurRadius.
	DefaultBlurSigma = 2.33
	// UnsharpSigma is the sigma of the blur inside UnsharpMask.
	UnsharpSigma = 1.5
)

// GaussianBlur convolves src with a (2*radius+1)^2 Gaussian kernel after
// extending it by radius with replicated borders.
//
// A negative radius, a non-positive sigma or an empty src returns src
// unchanged.
func GaussianBlur(src *images.Buffer, radius int, sigma float64) *images.Buffer {
	return GaussianBlurPooled(src, radius, sigma, nil)
}

// GaussianBlurPooled is GaussianBlur drawing its padded scratch copy from
// pool. A nil pool allocates.
func GaussianBlurPooled(src *images.Buffer, radius int, sigma float64, pool *kernels.Pool) *images.Buffer {
	if radius < 0 || sigma <= 0 || src.Empty() {
		return src
	}
	return kernels.Convolve(src, kernels.Gaussian(radius, sigma), kernels.Options{Pool: pool})
}

// UnsharpMask sharpens by amplifying the difference between src and a blurred
// copy of it (radius, sigma 1.5).
//
// For every channel value diff = |original - blurred|. When diff >= threshold
// the output is clamp(original + int(diff*k)), with the integer gain
// k = 2*amount/100; otherwise the value is kept. All four channels are
// processed.
//
// threshold, amount and radius must all be positive; if any is not, the filter
// is treated as unconfigured and src is returned unchanged.
func UnsharpMask(src *images.Buffer, threshold, amount, radius int) *images.Buffer {
	if threshold <= 0 || amount <= 0 || radius <= 0 || src.Empty() {
		return src
	}

	blurred := GaussianBlur(src, radius, UnsharpSigma)
	gain := float64(2 * amount / 100)

	dst := images.NewBuffer(src.Width, src.Height)
	stride := src.Stride()

	images.Parallel(src.Height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			row := y * stride
			for i := row; i < row+stride; i++ {
				orig := int(src.Pix[i])
				diff := orig - int(blurred.Pix[i])
				if diff < 0 {
					diff = -diff
				}
				if diff < threshold {
					dst.Pix[i] = src.Pix[i]
					continue
				}
				dst.Pix[i] = uint8(images.Clamp(float64(orig+int(float64(diff)*gain)), 0, 255))
			}
		}
	})

	return dst
}
