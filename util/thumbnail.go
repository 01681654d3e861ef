package util

import (
	"github.com/nfnt/resize"

	"github.com/nvr-ai/go-photoedit/images"
)

// DefaultThumbnailSize is the longest side of a gallery thumbnail.
const DefaultThumbnailSize = 256

// Thumbnail shrinks b with Lanczos3 so that it fits in maxSide x maxSide,
// keeping its aspect ratio. Images already small enough come back as a copy.
func Thumbnail(b *images.Buffer, maxSide int) *images.Buffer {
	if maxSide < 1 {
		maxSide = DefaultThumbnailSize
	}
	if b.Width <= maxSide && b.Height <= maxSide {
		return b.Clone()
	}

	img := resize.Thumbnail(uint(maxSide), uint(maxSide), images.ToImage(b), resize.Lanczos3)
	return images.FromImage(img)
}
