package editor

import (
	"fmt"

	"github.com/nvr-ai/go-photoedit/filters"
	"github.com/nvr-ai/go-photoedit/images"
	"github.com/nvr-ai/go-photoedit/images/kernels"
)

// Operation is one configured filter run against the current image.
//
// Apply must not modify its input. Returning the input itself signals that
// nothing changed, and the session then leaves its history alone.
type Operation interface {
	Name() string
	Apply(src *images.Buffer) *images.Buffer
}

// Negative inverts the color channels.
type Negative struct{}

func (Negative) Name() string { return "negative" }

func (Negative) Apply(src *images.Buffer) *images.Buffer {
	return filters.Negative(src)
}

// Mosaic pixelates into BlockSize x BlockSize cells.
type Mosaic struct {
	BlockSize int `json:"block_size" yaml:"block_size"`
}

func (Mosaic) Name() string { return "mosaic" }

func (m Mosaic) Apply(src *images.Buffer) *images.Buffer {
	return filters.Mosaic(src, m.BlockSize)
}

// Median removes noise with a Window x Window median. Zero means the default
// window.
type Median struct {
	Window int `json:"window" yaml:"window"`
}

func (Median) Name() string { return "median" }

func (m Median) Apply(src *images.Buffer) *images.Buffer {
	if m.Window == 0 {
		return filters.Median(src)
	}
	return filters.MedianWindow(src, m.Window)
}

// Blur is a Gaussian blur. Zero Radius and Sigma select the defaults.
// Pool, when set, is shared scratch space for repeated runs.
type Blur struct {
	Radius int           `json:"radius" yaml:"radius"`
	Sigma  float64       `json:"sigma" yaml:"sigma"`
	Pool   *kernels.Pool `json:"-" yaml:"-"`
}

func (Blur) Name() string { return "blur" }

func (b Blur) Apply(src *images.Buffer) *images.Buffer {
	radius, sigma := b.Radius, b.Sigma
	if radius == 0 {
		radius = filters.DefaultBlurRadius
	}
	if sigma == 0 {
		sigma = filters.DefaultBlurSigma
	}
	return filters.GaussianBlurPooled(src, radius, sigma, b.Pool)
}

// Unsharp sharpens with an unsharp mask.
type Unsharp struct {
	Threshold int `json:"threshold" yaml:"threshold"`
	Amount    int `json:"amount" yaml:"amount"`
	Radius    int `json:"radius" yaml:"radius"`
}

func (Unsharp) Name() string { return "unsharp" }

func (u Unsharp) Apply(src *images.Buffer) *images.Buffer {
	return filters.UnsharpMask(src, u.Threshold, u.Amount, u.Radius)
}

// Rotate turns the image by Angle degrees.
type Rotate struct {
	Angle float64 `json:"angle" yaml:"angle"`
}

func (Rotate) Name() string { return "rotate" }

func (r Rotate) Apply(src *images.Buffer) *images.Buffer {
	return filters.Rotate(src, r.Angle)
}

// Resize scales the image.
type Resize struct {
	Scale         float64              `json:"scale" yaml:"scale"`
	Interpolation images.Interpolation `json:"interpolation" yaml:"-"`
}

func (Resize) Name() string { return "resize" }

func (r Resize) Apply(src *images.Buffer) *images.Buffer {
	return filters.ResizeWith(src, r.Scale, r.Interpolation)
}

// Affine warps the image with six points: three sources, then their
// three destinations, in image coordinates.
type Affine struct {
	Points []images.Point `json:"points" yaml:"points"`
}

func (Affine) Name() string { return "affine" }

func (a Affine) Apply(src *images.Buffer) *images.Buffer {
	return filters.AffineFromPoints(src, a.Points)
}

// Retouch blends a circular brush toward its average color.
type Retouch struct {
	CenterX  float64 `json:"center_x" yaml:"center_x"`
	CenterY  float64 `json:"center_y" yaml:"center_y"`
	Radius   float64 `json:"radius" yaml:"radius"`
	Strength float64 `json:"strength" yaml:"strength"`
}

func (Retouch) Name() string { return "retouch" }

func (r Retouch) Apply(src *images.Buffer) *images.Buffer {
	return filters.Retouch(src, r.CenterX, r.CenterY, r.Radius, r.Strength)
}

// Chain runs several operations in order as a single history step.
type Chain []Operation

func (c Chain) Name() string { return fmt.Sprintf("chain(%d)", len(c)) }

func (c Chain) Apply(src *images.Buffer) *images.Buffer {
	out := src
	for _, op := range c {
		out = op.Apply(out)
	}
	return out
}

// SharePool sets pool on every Blur in ops, descending into chains, and
// returns the updated list.
func SharePool(ops []Operation, pool *kernels.Pool) []Operation {
	out := make([]Operation, len(ops))
	for i, op := range ops {
		switch o := op.(type) {
		case Blur:
			o.Pool = pool
			out[i] = o
		case Chain:
			out[i] = Chain(SharePool(o, pool))
		default:
			out[i] = op
		}
	}
	return out
}
