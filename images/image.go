// Package images - Pixel buffer definition for the filter engine.
package images

import "bytes"

// Channels is the number of interleaved channels per pixel (R, G, B, A).
const Channels = 4

// Buffer represents a decoded RGBA8 image held in a flat byte slice.
//
// Pixels are stored row-major with a stride of Width*4 bytes. Channels are
// straight (not premultiplied) and the filters treat all four independently,
// alpha included. A Buffer is owned by whoever created it; filters never write
// to their input and always allocate a new Buffer for their result.
type Buffer struct {
	// The width of the image in pixels.
	Width int `json:"width" yaml:"width"`
	// The height of the image in pixels.
	Height int `json:"height" yaml:"height"`
	// The pixel data, len(Pix) == Width*Height*4.
	Pix []byte `json:"-" yaml:"-"`
}

// Point is a position in image pixel coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// NewBuffer allocates a zeroed (fully transparent black) buffer.
//
// Arguments:
// - width: The width in pixels.
// - height: The height in pixels.
//
// Returns:
// - A new buffer with width*height*4 zero bytes.
//
// @example
// canvas := NewBuffer(640, 480)
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*Channels),
	}
}

// FromPix wraps an existing RGBA8 byte slice without copying it.
//
// Arguments:
// - width: The width in pixels.
// - height: The height in pixels.
// - pix: Row-major RGBA bytes.
//
// Returns:
// - The buffer, or ErrInvalidDimensions if len(pix) != width*height*4.
func FromPix(width, height int, pix []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*Channels {
		return nil, invalidDimensions(width, height, len(pix))
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.Width * Channels
}

// Empty reports whether the buffer has no pixels.
func (b *Buffer) Empty() bool {
	return b == nil || b.Width <= 0 || b.Height <= 0
}

// Offset returns the index of the first byte (red) of pixel (x, y).
// Coordinates are not checked.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// RGBA returns the four channel values of pixel (x, y). Coordinates are
// clamped to the image like every other neighbour lookup.
func (b *Buffer) RGBA(x, y int) (r, g, bl, a uint8) {
	x, y = ClampIndex(x, y, b.Width, b.Height)
	i := b.Offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA writes pixel (x, y). Out-of-range coordinates are ignored.
func (b *Buffer) SetRGBA(x, y int, r, g, bl, a uint8) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := b.Offset(x, y)
	b.Pix[i+0] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
	b.Pix[i+3] = a
}

// Fill sets every pixel to the same RGBA value.
func (b *Buffer) Fill(r, g, bl, a uint8) {
	for i := 0; i < len(b.Pix); i += Channels {
		b.Pix[i+0] = r
		b.Pix[i+1] = g
		b.Pix[i+2] = bl
		b.Pix[i+3] = a
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Equal reports whether both buffers have the same dimensions and content.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Width == o.Width && b.Height == o.Height && bytes.Equal(b.Pix, o.Pix)
}
