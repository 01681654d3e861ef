package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		r, o Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 10, 10}, Rect{5, 5, 15, 15}, Rect{5, 5, 10, 10}},
		{"contained", Rect{2, 2, 4, 4}, Rect{0, 0, 10, 10}, Rect{2, 2, 4, 4}},
		{"touching edges", Rect{0, 0, 5, 5}, Rect{5, 0, 10, 5}, Rect{}},
		{"disjoint", Rect{-10, -10, -5, -5}, Rect{0, 0, 3, 3}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Intersect(tt.o)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, tt.o.Intersect(tt.r))
		})
	}
}

func TestSquareAndBounds(t *testing.T) {
	b := NewBuffer(8, 6)
	brush := Square(1, 5, 3).Intersect(b.Bounds())

	assert.Equal(t, Rect{X1: 0, Y1: 2, X2: 4, Y2: 6}, brush)
	assert.Equal(t, 4, brush.Dx())
	assert.Equal(t, 4, brush.Dy())
	assert.True(t, brush.Contains(0, 2))
	assert.False(t, brush.Contains(4, 2))
	assert.True(t, Rect{}.Empty())
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want ImageFormat
		ok   bool
	}{
		{"a.jpg", FormatJPEG, true},
		{"dir/b.JPEG", FormatJPEG, true},
		{"c.png", FormatPNG, true},
		{"d.webp", FormatWebP, true},
		{"e.bmp", FormatBMP, true},
		{"f.tif", FormatTIFF, true},
		{"g.gif", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatFromPath(tt.path)
		assert.Equal(t, tt.want, got, tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
	}

	assert.Equal(t, ".jpg", FormatJPEG.Extension())
	assert.Equal(t, ".tiff", FormatTIFF.Extension())
}
