package editor

import "github.com/nvr-ai/go-photoedit/images"

// Size is a width and height in points or pixels.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// SizeOf returns the pixel size of b.
func SizeOf(b *images.Buffer) Size {
	return Size{Width: float64(b.Width), Height: float64(b.Height)}
}

// ContentMode says how an image is laid out inside a view.
type ContentMode int

const (
	// AspectFit scales the image to fit entirely inside the view (letterboxed).
	AspectFit ContentMode = iota
	// AspectFill scales the image to cover the view, cropping the overflow.
	AspectFill
)

// ViewToImage converts a point in view coordinates to image pixel
// coordinates for an image of size img centered in view with the given mode.
//
// The reported bool is false when the point lands outside the image, or when
// either size is empty.
func ViewToImage(p images.Point, view, img Size, mode ContentMode) (images.Point, bool) {
	if view.Width <= 0 || view.Height <= 0 || img.Width <= 0 || img.Height <= 0 {
		return images.Point{}, false
	}

	sx, sy := view.Width/img.Width, view.Height/img.Height
	scale := min(sx, sy)
	if mode == AspectFill {
		scale = max(sx, sy)
	}

	offX := (view.Width - img.Width*scale) / 2
	offY := (view.Height - img.Height*scale) / 2
	q := images.Point{X: (p.X - offX) / scale, Y: (p.Y - offY) / scale}

	inside := q.X >= 0 && q.Y >= 0 && q.X < img.Width && q.Y < img.Height
	return q, inside
}

// ViewPointsToImage maps every point with ViewToImage, keeping points that
// fall outside the image.
func ViewPointsToImage(pts []images.Point, view, img Size, mode ContentMode) []images.Point {
	out := make([]images.Point, len(pts))
	for i, p := range pts {
		out[i], _ = ViewToImage(p, view, img, mode)
	}
	return out
}
