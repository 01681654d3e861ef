package images

import (
	"image"

	"golang.org/x/image/draw"
)

// FromImage converts any image.Image into a straight-alpha RGBA8 Buffer.
// The result always starts at (0, 0) regardless of the source bounds.
//
// Arguments:
// - img: The decoded source image.
//
// Returns:
// - A new Buffer holding a copy of the pixels.
//
// @example
// buf := FromImage(decoded)
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Fast path: tightly packed NRGBA needs only a copy.
	if n, ok := img.(*image.NRGBA); ok && n.Stride == width*Channels {
		buf := NewBuffer(width, height)
		copy(buf.Pix, n.Pix[n.PixOffset(bounds.Min.X, bounds.Min.Y):])
		return buf
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &Buffer{Width: width, Height: height, Pix: dst.Pix}
}

// ToImage returns the buffer as an *image.NRGBA. The pixel slice is shared,
// so the caller must not modify the result if the buffer is still in use.
func ToImage(b *Buffer) *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
