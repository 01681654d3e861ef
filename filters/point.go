package filters

import "github.com/nvr-ai/go-photoedit/images"

// Negative inverts the color channels: out = 255 - in for R, G and B.
// Alpha is passed through unchanged.
func Negative(src *images.Buffer) *images.Buffer {
	dst := images.NewBuffer(src.Width, src.Height)
	stride := src.Stride()

	images.Parallel(src.Height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			in := src.Pix[y*stride : (y+1)*stride]
			out := dst.Pix[y*stride : (y+1)*stride]
			for i := 0; i < stride; i += images.Channels {
				out[i+0] = 255 - in[i+0]
				out[i+1] = 255 - in[i+1]
				out[i+2] = 255 - in[i+2]
				out[i+3] = in[i+3]
			}
		}
	})

	return dst
}
