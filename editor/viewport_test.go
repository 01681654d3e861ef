package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvr-ai/go-photoedit/images"
)

func TestViewToImage(t *testing.T) {
	img := Size{Width: 100, Height: 50}
	view := Size{Width: 200, Height: 200}

	tests := []struct {
		name   string
		p      images.Point
		mode   ContentMode
		want   images.Point
		inside bool
	}{
		{"fit center", images.Pt(100, 100), AspectFit, images.Pt(50, 25), true},
		{"fit top left of image", images.Pt(0, 50), AspectFit, images.Pt(0, 0), true},
		{"fit letterbox", images.Pt(100, 10), AspectFit, images.Pt(50, -20), false},
		{"fill center", images.Pt(100, 100), AspectFill, images.Pt(50, 25), true},
		{"fill corner", images.Pt(0, 0), AspectFill, images.Pt(25, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, inside := ViewToImage(tt.p, view, img, tt.mode)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.Equal(t, tt.inside, inside)
		})
	}
}

func TestViewToImageEmpty(t *testing.T) {
	_, inside := ViewToImage(images.Pt(1, 1), Size{}, Size{Width: 10, Height: 10}, AspectFit)
	assert.False(t, inside)
	_, inside = ViewToImage(images.Pt(1, 1), Size{Width: 10, Height: 10}, Size{}, AspectFill)
	assert.False(t, inside)
}

func TestViewPointsToImage(t *testing.T) {
	pts := ViewPointsToImage([]images.Point{images.Pt(0, 0), images.Pt(20, 20)},
		Size{Width: 20, Height: 20}, Size{Width: 10, Height: 10}, AspectFit)
	assert.Equal(t, []images.Point{images.Pt(0, 0), images.Pt(10, 10)}, pts)
}
