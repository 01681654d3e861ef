package filters

import (
	"math"
	"slices"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-photoedit/images"
)

// ErrDegenerateAffine is returned by SolveAffine when the source points are
// collinear, so no unique affine map exists.
var ErrDegenerateAffine = errors.New("affine: source points are collinear")

// degenerateEpsilon is the determinant magnitude treated as zero.
const degenerateEpsilon = 1e-9

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
	}
}

// Apply maps a point through the matrix.
func (m Matrix) Apply(p images.Point) images.Point {
	return images.Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse matrix, or false if the linear part is singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Det()
	if math.Abs(det) < degenerateEpsilon {
		return Matrix{}, false
	}

	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}, true
}

// AffineMapping is three source points and the three destinations they map to.
type AffineMapping struct {
	Src [3]images.Point
	Dst [3]images.Point
}

// SolveAffine finds M with dst[i] = M * (src[i].x, src[i].y, 1) for all
// three correspondences, using Cramer's rule on the 3x3 system. Collinear
// source points yield ErrDegenerateAffine.
func SolveAffine(src, dst [3]images.Point) (Matrix, error) {
	s0, s1, s2 := src[0], src[1], src[2]
	d0, d1, d2 := dst[0], dst[1], dst[2]

	det := s0.X*(s1.Y-s2.Y) + s1.X*(s2.Y-s0.Y) + s2.X*(s0.Y-s1.Y)
	if math.Abs(det) < degenerateEpsilon || math.IsNaN(det) {
		return Matrix{}, errors.Wrapf(ErrDegenerateAffine, "det=%g", det)
	}

	// Cofactors shared by both output rows.
	cy := [3]float64{s1.Y - s2.Y, s2.Y - s0.Y, s0.Y - s1.Y}
	cx := [3]float64{s2.X - s1.X, s0.X - s2.X, s1.X - s0.X}
	cc := [3]float64{
		s1.X*s2.Y - s2.X*s1.Y,
		s2.X*s0.Y - s0.X*s2.Y,
		s0.X*s1.Y - s1.X*s0.Y,
	}

	row := func(v0, v1, v2 float64) (float64, float64, float64) {
		a := (v0*cy[0] + v1*cy[1] + v2*cy[2]) / det
		b := (v0*cx[0] + v1*cx[1] + v2*cx[2]) / det
		c := (v0*cc[0] + v1*cc[1] + v2*cc[2]) / det
		return a, b, c
	}

	var m Matrix
	m.A, m.B, m.C = row(d0.X, d1.X, d2.X)
	m.D, m.E, m.F = row(d0.Y, d1.Y, d2.Y)
	return m, nil
}

// MappingFromPoints splits six points collected in order (three sources, then
// three destinations) into an AffineMapping. It reports false for any other count.
func MappingFromPoints(pts []images.Point) (AffineMapping, bool) {
	if len(pts) != 6 {
		return AffineMapping{}, false
	}
	return AffineMapping{
		Src: [3]images.Point{pts[0], pts[1], pts[2]},
		Dst: [3]images.Point{pts[3], pts[4], pts[5]},
	}, true
}

// Apply runs AffineTransform with the mapping's points.
func (s AffineMapping) Apply(src *images.Buffer) *images.Buffer {
	return AffineTransform(src, s.Src, s.Dst)
}

// AffineFromPoints runs AffineTransform on six points collected in order:
// three source points followed by three destinations. Any other number of
// points means the transform is not configured and src is returned.
func AffineFromPoints(src *images.Buffer, pts []images.Point) *images.Buffer {
	mapping, ok := MappingFromPoints(pts)
	if !ok {
		return src
	}
	return mapping.Apply(src)
}

// canvas is the integer output frame of an affine warp.
type canvas struct {
	minX, minY    int
	width, height int
}

// affineCanvas maps the image corners through m. The offset comes from the
// last-pixel corners (w-1, h-1); the span from the full-size corners (w, h).
// Each mapped coordinate is truncated to an integer.
func affineCanvas(m Matrix, w, h int) canvas {
	corners := func(cw, ch float64) (xs, ys [4]int) {
		pts := [4]images.Point{{X: 0, Y: 0}, {X: cw, Y: 0}, {X: 0, Y: ch}, {X: cw, Y: ch}}
		for i, p := range pts {
			q := m.Apply(p)
			xs[i], ys[i] = int(q.X), int(q.Y)
		}
		return xs, ys
	}

	xs, ys := corners(float64(w-1), float64(h-1))
	c := canvas{minX: slices.Min(xs[:]), minY: slices.Min(ys[:])}

	xs, ys = corners(float64(w), float64(h))
	c.width = slices.Max(xs[:]) - slices.Min(xs[:])
	c.height = slices.Max(ys[:]) - slices.Min(ys[:])
	return c
}

// AffineTransform warps src by the affine map taking the three src points to
// the three dst points.
//
// The output canvas is the bounding box of the mapped image. Each destination
// pixel is inverse-mapped back into the source; pixels landing outside the
// source stay transparent. In-bounds pixels are sampled with the resize
// policy: bilinear when the canvas grew (scale > 1), otherwise the trilinear
// blend with mip = scale, where scale = max(newW/w, newH/h).
//
// An empty src, collinear source points, a singular map or an empty canvas
// return src unchanged.
func AffineTransform(src *images.Buffer, srcPts, dstPts [3]images.Point) *images.Buffer {
	if src.Empty() {
		return src
	}
	m, err := SolveAffine(srcPts, dstPts)
	if err != nil {
		return src
	}
	inv, ok := m.Invert()
	if !ok {
		return src
	}

	w, h := src.Width, src.Height
	c := affineCanvas(m, w, h)
	if c.width <= 0 || c.height <= 0 {
		return src
	}

	// Growth factor chooses between bilinear and the trilinear blend.
	scale := math.Max(float64(c.width)/float64(w), float64(c.height)/float64(h))
	dst := images.NewBuffer(c.width, c.height)

	images.Parallel(c.height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			for x := 0; x < c.width; x++ {
				// Canvas pixel back into source space.
				p := inv.Apply(images.Point{X: float64(x + c.minX), Y: float64(y + c.minY)})

				// Outside the source: leave transparent.
				if p.X < 0 || p.Y < 0 || p.X >= float64(w) || p.Y >= float64(h) {
					continue
				}
				// Sample each channel at the fractional source position.
				off := dst.Offset(x, y)
				for ch := 0; ch < images.Channels; ch++ {
					dst.Pix[off+ch] = images.Sample(src, p.X, p.Y, ch, images.InterpolationAuto, scale)
				}
			}
		}
	})

	return dst
}
