package images

import "math"

// Interpolation selects how a fractional source coordinate is sampled.
type Interpolation int

const (
	// InterpolationAuto lets the filter pick: bilinear when enlarging,
	// the trilinear blend when shrinking.
	InterpolationAuto Interpolation = iota
	// InterpolationBilinear uses the 2x2 neighbourhood.
	InterpolationBilinear
	// InterpolationBicubic uses the 4x4 neighbourhood with a Catmull-Rom weight.
	InterpolationBicubic
	// InterpolationTrilinear blends two bilinear samples by the mip fraction.
	InterpolationTrilinear
)

// String returns the lowercase name used in recipes and CLI flags.
func (i Interpolation) String() string {
	switch i {
	case InterpolationBilinear:
		return "bilinear"
	case InterpolationBicubic:
		return "bicubic"
	case InterpolationTrilinear:
		return "trilinear"
	default:
		return "auto"
	}
}

// ParseInterpolation maps a name back to an Interpolation. Unknown names
// report ok=false.
func ParseInterpolation(name string) (Interpolation, bool) {
	switch name {
	case "", "auto":
		return InterpolationAuto, true
	case "bilinear":
		return InterpolationBilinear, true
	case "bicubic":
		return InterpolationBicubic, true
	case "trilinear":
		return InterpolationTrilinear, true
	}
	return InterpolationAuto, false
}

// CubicWeight is the Catmull-Rom cubic (B=0, C=0.5) evaluated at distance t.
func CubicWeight(t float64) float64 {
	t = math.Abs(t)
	if t <= 1.0 {
		return (1.5*t-2.5)*t*t + 1.0
	}
	if t <= 2.0 {
		return ((-0.5*t+2.5)*t-4.0)*t + 2.0
	}
	return 0.0
}

// sample reads channel c at an integer coordinate with edge clamping.
func (b *Buffer) sample(x, y, c int) float64 {
	x, y = ClampIndex(x, y, b.Width, b.Height)
	return float64(b.Pix[(y*b.Width+x)*Channels+c])
}

// Bilinear samples channel c at (x, y) as the weighted average of the four
// surrounding pixels, weighted by the fractional parts of x and y.
//
// Arguments:
// - b: The source buffer.
// - x, y: Source coordinate in pixels.
// - c: Channel index (0=R, 1=G, 2=B, 3=A).
//
// Returns:
// - The interpolated value rounded to nearest and clamped to [0, 255].
//
// @example
// r := Bilinear(buf, 10.25, 4.5, 0)
func Bilinear(b *Buffer, x, y float64, c int) uint8 {
	return ToByte(bilinear(b, x, y, c))
}

func bilinear(b *Buffer, x, y float64, c int) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	tl := b.sample(x0, y0, c)
	tr := b.sample(x0+1, y0, c)
	bl := b.sample(x0, y0+1, c)
	br := b.sample(x0+1, y0+1, c)

	top := (1-fx)*tl + fx*tr
	bottom := (1-fx)*bl + fx*br
	return (1-fy)*top + fy*bottom
}

// Bicubic samples channel c at (x, y) from the 4x4 neighbourhood using
// separable CubicWeight weights in x and y.
//
// Arguments:
// - b: The source buffer.
// - x, y: Source coordinate in pixels.
// - c: Channel index.
//
// Returns:
// - The interpolated value rounded to nearest and clamped to [0, 255].
func Bicubic(b *Buffer, x, y float64, c int) uint8 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))

	var wx, wy [4]float64
	for i := 0; i < 4; i++ {
		wx[i] = CubicWeight(x - float64(x0-1+i))
		wy[i] = CubicWeight(y - float64(y0-1+i))
	}

	var sum float64
	for j := 0; j < 4; j++ {
		if wy[j] == 0 {
			continue
		}
		var row float64
		for i := 0; i < 4; i++ {
			row += wx[i] * b.sample(x0-1+i, y0-1+j, c)
		}
		sum += wy[j] * row
	}
	return ToByte(sum)
}

// Trilinear blends two bilinear samples by the fractional part of mip.
//
// No mip chain is built: both samples read the same buffer, so the blend
// re-weights a single bilinear value against itself. Call sites rely on the
// exact rounding this produces, so it is kept as is.
//
// Arguments:
// - b: The source buffer.
// - x, y: Source coordinate in pixels.
// - mip: Level selector; only its fractional part is used.
// - c: Channel index.
//
// Returns:
// - The blended value rounded to nearest and clamped to [0, 255].
func Trilinear(b *Buffer, x, y, mip float64, c int) uint8 {
	lower := float64(Bilinear(b, x, y, c))
	upper := float64(Bilinear(b, x, y, c))

	frac := mip - math.Trunc(mip)
	return ToByte((1-frac)*lower + frac*upper)
}

// Sample dispatches to the interpolation selected by mode. InterpolationAuto
// follows the resampling policy shared by resize and affine: bilinear when
// scale > 1, otherwise Trilinear with mip = scale.
func Sample(b *Buffer, x, y float64, c int, mode Interpolation, scale float64) uint8 {
	switch mode {
	case InterpolationBilinear:
		return Bilinear(b, x, y, c)
	case InterpolationBicubic:
		return Bicubic(b, x, y, c)
	case InterpolationTrilinear:
		return Trilinear(b, x, y, scale, c)
	}
	if scale > 1 {
		return Bilinear(b, x, y, c)
	}
	return Trilinear(b, x, y, scale, c)
}
