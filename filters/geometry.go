package filters

import (
	"math"

	"github.com/nvr-ai/go-photoedit/images"
)

// ShrinkBlurThreshold is the size below which a shrunk image gets an extra
// anti-aliasing blur: when the smaller output dimension is under it.
const ShrinkBlurThreshold = 800

// Rotate rotates src by angle degrees onto a canvas large enough to hold the
// rotated rectangle, |w*cos|+|h*sin| by |w*sin|+|h*cos| (truncated).
//
// Each destination pixel is rotated by -angle around the destination canvas
// center and shifted by the source's own half-size, then the truncated source
// pixel is copied. Because the two centers use different dimensions the
// result is slightly off-center for angles that are not multiples of 90.
// Destination pixels whose source falls outside the image stay transparent
// black. No interpolation is applied.
func Rotate(src *images.Buffer, angle float64) *images.Buffer {
	w, h := src.Width, src.Height
	rad := angle * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)

	rw := int(math.Abs(float64(w)*cos) + math.Abs(float64(h)*sin))
	rh := int(math.Abs(float64(w)*sin) + math.Abs(float64(h)*cos))
	if rw <= 0 || rh <= 0 {
		return src
	}

	dst := images.NewBuffer(rw, rh)
	cosInv, sinInv := math.Cos(-rad), math.Sin(-rad)
	halfRW, halfRH := float64(rw)/2, float64(rh)/2
	halfW, halfH := float64(w)/2, float64(h)/2

	images.Parallel(rh, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			dy := float64(y) - halfRH
			for x := 0; x < rw; x++ {
				dx := float64(x) - halfRW
				sx := int(dx*cosInv - dy*sinInv + halfW)
				sy := int(dx*sinInv + dy*cosInv + halfH)
				if sx < 0 || sx >= w || sy < 0 || sy >= h {
					continue
				}
				s := src.Offset(sx, sy)
				d := dst.Offset(x, y)
				copy(dst.Pix[d:d+4], src.Pix[s:s+4])
			}
		}
	})

	return dst
}

// Resize scales src by scale using the automatic resampling policy:
// bilinear when enlarging, the trilinear blend when shrinking or keeping size.
func Resize(src *images.Buffer, scale float64) *images.Buffer {
	return ResizeWith(src, scale, images.InterpolationAuto)
}

// ResizeWith scales src by scale with an explicit interpolation.
//
// The output is round(w*scale) x round(h*scale). Destination pixel (x, y)
// samples the source at (x/scale, y/scale). When shrinking and the smaller
// output side is under ShrinkBlurThreshold, a GaussianBlur with the default
// radius and sigma is applied to reduce aliasing.
//
// A scale <= 0 (not configured) or one that yields an empty image returns src
// unchanged.
func ResizeWith(src *images.Buffer, scale float64, mode images.Interpolation) *images.Buffer {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return src
	}

	nw := int(math.Round(float64(src.Width) * scale))
	nh := int(math.Round(float64(src.Height) * scale))
	if nw <= 0 || nh <= 0 {
		return src
	}

	dst := images.NewBuffer(nw, nh)
	images.Parallel(nh, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			sy := float64(y) / scale
			for x := 0; x < nw; x++ {
				sx := float64(x) / scale
				off := dst.Offset(x, y)
				for c := 0; c < images.Channels; c++ {
					dst.Pix[off+c] = images.Sample(src, sx, sy, c, mode, scale)
				}
			}
		}
	})

	if scale < 1 && min(nw, nh) < ShrinkBlurThreshold {
		dst = GaussianBlur(dst, DefaultBlurRadius, DefaultBlurSigma)
	}
	return dst
}
