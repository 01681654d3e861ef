package kernels

import (
	"sync"

	"github.com/nvr-ai/go-photoedit/images"
)

// Options configures a convolution call.
type Options struct {
	Pool *Pool // Optional scratch pool for the padded copy of the source.
}

// Pool lets callers reuse padded scratch buffers across repeated
// convolutions (for example a recipe that blurs many same-sized images).
type Pool struct {
	bufs sync.Pool // *images.Buffer
}

// Get returns a buffer of exactly width x height, reusing a pooled one when
// the dimensions match.
func (p *Pool) Get(width, height int) *images.Buffer {
	if p == nil {
		return images.NewBuffer(width, height)
	}
	if v := p.bufs.Get(); v != nil {
		b := v.(*images.Buffer)
		if b.Width == width && b.Height == height {
			return b
		}
	}
	return images.NewBuffer(width, height)
}

// Put hands a buffer back. The next user overwrites every byte, so it is not cleared.
func (p *Pool) Put(b *images.Buffer) {
	if p == nil || b == nil {
		return
	}
	p.bufs.Put(b)
}

// Convolve applies k as a full 2D convolution over all four channels.
//
// The source is first extended by the kernel radius with replicated borders,
// so each output pixel is
//
//	sum over ky,kx of k[ky][kx] * extended[y+ky][x+kx]
//
// rounded to nearest and clamped to [0, 255]. Rows are processed in parallel;
// each output row depends only on the read-only extended copy.
func Convolve(src *images.Buffer, k Kernel, opt Options) *images.Buffer {
	r := k.Radius()
	w, h := src.Width, src.Height

	// Padded copy so the kernel never reads outside the buffer.
	ext := opt.Pool.Get(w+2*r, h+2*r)
	images.ExtendInto(ext, src, r)

	dst := images.NewBuffer(w, h)
	extStride := ext.Stride()
	dstStride := dst.Stride()
	size := k.Size

	images.Parallel(h, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			dstRow := dst.Pix[y*dstStride : (y+1)*dstStride]
			for x := 0; x < w; x++ {
				// Per-channel accumulators for this output pixel.
				var sr, sg, sb, sa float64
				for ky := 0; ky < size; ky++ {
					// Output (x, y) lines up with extended (x, y+ky) at kernel column 0.
					rowOff := (y+ky)*extStride + x*images.Channels
					weights := k.Weights[ky*size : (ky+1)*size]
					for kx, weight := range weights {
						// Weighted sum of the four channels.
						p := ext.Pix[rowOff+kx*images.Channels : rowOff+kx*images.Channels+4]
						sr += float64(p[0]) * weight
						sg += float64(p[1]) * weight
						sb += float64(p[2]) * weight
						sa += float64(p[3]) * weight
					}
				}
				// Round and clamp back into bytes.
				off := x * images.Channels
				dstRow[off+0] = images.ToByte(sr)
				dstRow[off+1] = images.ToByte(sg)
				dstRow[off+2] = images.ToByte(sb)
				dstRow[off+3] = images.ToByte(sa)
			}
		}
	})

	// Every row is written; the scratch copy can go back.
	opt.Pool.Put(ext)
	return dst
}
