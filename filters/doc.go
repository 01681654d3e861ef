// Package filters implements the photo editing filters: point filters
// (Negative), block filters (Mosaic, Median), convolution filters
// (GaussianBlur, UnsharpMask), geometric transforms (Rotate, Resize,
// AffineTransform) and the local Retouch blend.
//
// Every filter is a pure function of its arguments. The input buffer is
// never written; the result is a newly allocated buffer, except when a
// required parameter is missing or the geometry is degenerate, in which case
// the input buffer itself is returned unchanged. Filters never return errors
// and hold no state, so they are safe to call concurrently from any number of
// goroutines. Each filter parallelizes its outer row loop with
// images.Parallel and joins before returning.
//
// Usage:
//
//	out := filters.Negative(buf)
//	out = filters.Mosaic(out, 8)
//	out = filters.UnsharpMask(out, 20, 60, 2)
package filters
