package images

// Rect is a lightweight pixel box.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// Square returns the box [cx-r, cx+r) x [cy-r, cy+r).
func Square(cx, cy, r int) Rect {
	return Rect{X1: cx - r, Y1: cy - r, X2: cx + r, Y2: cy + r}
}

// Bounds returns the box covering every pixel of b.
func (b *Buffer) Bounds() Rect {
	return Rect{X2: b.Width, Y2: b.Height}
}

// Dx returns the width of r.
func (r Rect) Dx() int { return r.X2 - r.X1 }

// Dy returns the height of r.
func (r Rect) Dy() int { return r.Y2 - r.Y1 }

// Empty reports whether r contains no pixels.
func (r Rect) Empty() bool {
	return r.X1 >= r.X2 || r.Y1 >= r.Y2
}

// Intersect returns the overlap of r and o. The result is Empty when they
// do not overlap.
//
// Arguments:
//   - r (receiver Rect): The first box.
//   - o (Rect): The other box.
//
// Returns:
//   - Rect: The shared region, or the zero Rect.
//
// Example Usage:
//
//	brush := Square(2, 2, 5).Intersect(buf.Bounds()) // clipped to the image
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
		X2: min(r.X2, o.X2),
		Y2: min(r.Y2, o.Y2),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Contains reports whether pixel (x, y) lies in r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2
}
