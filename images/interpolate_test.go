package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBilinearAtIntegerCoordinatesIsExact(t *testing.T) {
	b := gradient(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			for c := 0; c < Channels; c++ {
				assert.Equal(t, b.Pix[b.Offset(x, y)+c], Bilinear(b, float64(x), float64(y), c))
			}
		}
	}
}

func TestBilinearMidpoint(t *testing.T) {
	b := NewBuffer(2, 2)
	b.SetRGBA(0, 0, 0, 0, 0, 255)
	b.SetRGBA(1, 0, 100, 0, 0, 255)
	b.SetRGBA(0, 1, 0, 0, 0, 255)
	b.SetRGBA(1, 1, 100, 0, 0, 255)

	assert.Equal(t, uint8(50), Bilinear(b, 0.5, 0.5, 0))
	assert.Equal(t, uint8(25), Bilinear(b, 0.25, 0.9, 0))
	// Beyond the last column the neighbour is clamped.
	assert.Equal(t, uint8(100), Bilinear(b, 1.5, 0, 0))
}

func TestCubicWeight(t *testing.T) {
	assert.InDelta(t, 1.0, CubicWeight(0), 1e-12)
	assert.InDelta(t, 0.0, CubicWeight(1), 1e-12)
	assert.InDelta(t, 0.0, CubicWeight(2), 1e-12)
	assert.InDelta(t, 0.0, CubicWeight(2.5), 1e-12)
	assert.InDelta(t, CubicWeight(0.3), CubicWeight(-0.3), 1e-12)

	// Partition of unity for any phase.
	for _, f := range []float64{0, 0.1, 0.5, 0.77} {
		sum := CubicWeight(1+f) + CubicWeight(f) + CubicWeight(1-f) + CubicWeight(2-f)
		assert.InDelta(t, 1.0, sum, 1e-12, "phase %v", f)
	}
}

func TestBicubicOnConstantImage(t *testing.T) {
	b := NewBuffer(5, 5)
	b.Fill(77, 140, 3, 255)
	for _, p := range []Point{{0, 0}, {1.3, 2.7}, {4.9, 4.9}, {2.5, 0.1}} {
		assert.Equal(t, uint8(77), Bicubic(b, p.X, p.Y, 0))
		assert.Equal(t, uint8(140), Bicubic(b, p.X, p.Y, 1))
		assert.Equal(t, uint8(255), Bicubic(b, p.X, p.Y, 3))
	}
}

func TestBicubicAtIntegerCoordinatesIsExact(t *testing.T) {
	b := gradient(8, 8)
	assert.Equal(t, uint8(3), Bicubic(b, 3, 5, 0))
	assert.Equal(t, uint8(5), Bicubic(b, 3, 5, 1))
}

func TestTrilinearEqualsBilinear(t *testing.T) {
	b := gradient(9, 9)
	for _, mip := range []float64{0.25, 0.5, 1, 1.75} {
		for _, p := range []Point{{0.3, 0.6}, {4.5, 2.25}, {8, 8}} {
			assert.Equal(t, Bilinear(b, p.X, p.Y, 2), Trilinear(b, p.X, p.Y, mip, 2))
		}
	}
}

func TestSampleAutoPolicy(t *testing.T) {
	b := gradient(4, 4)
	assert.Equal(t, Bilinear(b, 1.5, 1.5, 0), Sample(b, 1.5, 1.5, 0, InterpolationAuto, 2))
	assert.Equal(t, Trilinear(b, 1.5, 1.5, 0.5, 0), Sample(b, 1.5, 1.5, 0, InterpolationAuto, 0.5))
	assert.Equal(t, Bicubic(b, 1.5, 1.5, 0), Sample(b, 1.5, 1.5, 0, InterpolationBicubic, 0.5))
}

func TestParseInterpolation(t *testing.T) {
	for _, m := range []Interpolation{InterpolationAuto, InterpolationBilinear, InterpolationBicubic, InterpolationTrilinear} {
		got, ok := ParseInterpolation(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseInterpolation("lanczos")
	assert.False(t, ok)
}
