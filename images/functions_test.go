package images

import (
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient returns a buffer whose pixel (x, y) is (x, y, x+y, 255).
func gradient(w, h int) *Buffer {
	b := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetRGBA(x, y, uint8(x), uint8(y), uint8(x+y), 255)
		}
	}
	return b
}

func TestFromPixValidatesLength(t *testing.T) {
	_, err := FromPix(2, 2, make([]byte, 15))
	require.Error(t, err)
	assert.Equal(t, ErrInvalidDimensions, errors.Cause(err))

	b, err := FromPix(2, 2, make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, 8, b.Stride())
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"inside", 3, 4, 3, 4},
		{"negative", -5, -1, 0, 0},
		{"beyond", 10, 99, 9, 4},
		{"mixed", -1, 2, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := ClampIndex(tt.x, tt.y, 10, 5)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestToByteRoundsAndClamps(t *testing.T) {
	assert.Equal(t, uint8(0), ToByte(-3))
	assert.Equal(t, uint8(255), ToByte(300))
	assert.Equal(t, uint8(3), ToByte(2.5))
	assert.Equal(t, uint8(2), ToByte(2.49))
}

func TestExtendReplicatesBorder(t *testing.T) {
	src := gradient(3, 2)
	ext := Extend(src, 2)

	require.Equal(t, 7, ext.Width)
	require.Equal(t, 6, ext.Height)

	for y := 0; y < ext.Height; y++ {
		for x := 0; x < ext.Width; x++ {
			sx, sy := ClampIndex(x-2, y-2, src.Width, src.Height)
			r, g, b, a := ext.RGBA(x, y)
			wr, wg, wb, wa := src.RGBA(sx, sy)
			assert.Equal(t, []uint8{wr, wg, wb, wa}, []uint8{r, g, b, a}, "pixel %d,%d", x, y)
		}
	}
}

func TestExtendRadiusZeroCopies(t *testing.T) {
	src := gradient(4, 4)
	ext := Extend(src, 0)
	assert.True(t, ext.Equal(src))
	ext.Pix[0] = 200
	assert.NotEqual(t, src.Pix[0], ext.Pix[0], "Extend must not alias its input")
}

func TestExtendEmptySource(t *testing.T) {
	for _, src := range []*Buffer{NewBuffer(0, 0), NewBuffer(4, 0), NewBuffer(0, 4)} {
		assert.NotPanics(t, func() {
			ext := Extend(src, 3)
			assert.True(t, ext.Equal(src))

			dst := NewBuffer(src.Width+6, src.Height+6)
			ExtendInto(dst, src, 3)
			assert.Equal(t, make([]byte, len(dst.Pix)), dst.Pix)
		}, "%dx%d", src.Width, src.Height)
	}
}

func TestParallelCoversEveryIndex(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		var hits = make([]int32, n)
		Parallel(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "n=%d index=%d", n, i)
		}
	}
}

func TestCloneAndEqual(t *testing.T) {
	a := gradient(5, 3)
	b := a.Clone()
	assert.True(t, a.Equal(b))
	b.Pix[7] ^= 0xff
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(NewBuffer(3, 5)))
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 14, 13))
	src.SetNRGBA(10, 10, color.NRGBA{R: 1, G: 2, B: 3, A: 128})
	src.SetNRGBA(13, 12, color.NRGBA{R: 250, G: 5, B: 9, A: 255})

	buf := FromImage(src)
	require.Equal(t, 4, buf.Width)
	require.Equal(t, 3, buf.Height)

	r, g, b, a := buf.RGBA(0, 0)
	assert.Equal(t, []uint8{1, 2, 3, 128}, []uint8{r, g, b, a})

	out := ToImage(buf)
	assert.Equal(t, color.NRGBA{R: 250, G: 5, B: 9, A: 255}, out.NRGBAAt(3, 2))
}

func TestFromImageConvertsRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(1, 0, color.RGBA{R: 40, G: 80, B: 120, A: 255})

	buf := FromImage(src)
	r, g, b, a := buf.RGBA(1, 0)
	assert.Equal(t, []uint8{40, 80, 120, 255}, []uint8{r, g, b, a})
}
