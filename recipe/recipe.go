// Package recipe reads and writes YAML files describing a sequence of
// filter steps, and turns them into editor operations.
package recipe

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-photoedit/editor"
	"github.com/nvr-ai/go-photoedit/images"
)

// Filter names accepted in a step.
const (
	FilterNegative = "negative"
	FilterMosaic   = "mosaic"
	FilterMedian   = "median"
	FilterBlur     = "blur"
	FilterUnsharp  = "unsharp"
	FilterRotate   = "rotate"
	FilterResize   = "resize"
	FilterAffine   = "affine"
	FilterRetouch  = "retouch"
)

// ErrInvalidStep is wrapped by every validation failure.
var ErrInvalidStep = errors.New("recipe: invalid step")

// Recipe is a named list of steps applied in order.
type Recipe struct {
	Name  string `json:"name" yaml:"name"`
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one filter and the parameters it uses. Parameters a filter does
// not use are ignored.
type Step struct {
	Filter        string         `json:"filter" yaml:"filter"`
	BlockSize     int            `json:"block_size,omitempty" yaml:"block_size,omitempty"`
	Window        int            `json:"window,omitempty" yaml:"window,omitempty"`
	Radius        float64        `json:"radius,omitempty" yaml:"radius,omitempty"`
	Sigma         float64        `json:"sigma,omitempty" yaml:"sigma,omitempty"`
	Threshold     int            `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Amount        int            `json:"amount,omitempty" yaml:"amount,omitempty"`
	Angle         float64        `json:"angle,omitempty" yaml:"angle,omitempty"`
	Scale         float64        `json:"scale,omitempty" yaml:"scale,omitempty"`
	Interpolation string         `json:"interpolation,omitempty" yaml:"interpolation,omitempty"`
	CenterX       float64        `json:"center_x,omitempty" yaml:"center_x,omitempty"`
	CenterY       float64        `json:"center_y,omitempty" yaml:"center_y,omitempty"`
	Strength      float64        `json:"strength,omitempty" yaml:"strength,omitempty"`
	Points        []images.Point `json:"points,omitempty" yaml:"points,omitempty"`
}

// Parse decodes and validates a recipe document.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal recipe")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads a recipe from a YAML file.
func Load(filename string) (*Recipe, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read recipe file")
	}

	r, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "recipe %s", filename)
	}
	return r, nil
}

// Save writes the recipe to a YAML file.
func (r *Recipe) Save(filename string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to marshal recipe")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write recipe file")
	}
	return nil
}

// Validate checks every step, reporting the first bad one by index.
func (r *Recipe) Validate() error {
	if len(r.Steps) == 0 {
		return errors.Wrap(ErrInvalidStep, "recipe has no steps")
	}
	for i, s := range r.Steps {
		if err := s.Validate(); err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
	}
	return nil
}

// Validate checks that the step names a known filter with usable values.
func (s Step) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.Wrapf(ErrInvalidStep, format, args...)
	}

	switch s.Filter {
	case FilterNegative:
	case FilterMosaic:
		if s.BlockSize < 1 {
			return invalid("mosaic block_size must be >= 1, got %d", s.BlockSize)
		}
	case FilterMedian:
		if s.Window < 0 {
			return invalid("median window must be >= 0, got %d", s.Window)
		}
	case FilterBlur:
		if s.Radius < 0 || s.Sigma < 0 {
			return invalid("blur radius and sigma must be >= 0")
		}
	case FilterUnsharp:
		if s.Threshold < 1 || s.Threshold > 255 {
			return invalid("unsharp threshold must be in [1,255], got %d", s.Threshold)
		}
		if s.Amount < 1 || s.Amount > 100 {
			return invalid("unsharp amount must be in [1,100], got %d", s.Amount)
		}
		if s.Radius < 1 {
			return invalid("unsharp radius must be >= 1, got %g", s.Radius)
		}
	case FilterRotate:
	case FilterResize:
		if s.Scale <= 0 {
			return invalid("resize scale must be > 0, got %g", s.Scale)
		}
		if _, ok := images.ParseInterpolation(s.Interpolation); !ok {
			return invalid("unknown interpolation %q", s.Interpolation)
		}
	case FilterAffine:
		if len(s.Points) != 6 {
			return invalid("affine needs 6 points, got %d", len(s.Points))
		}
	case FilterRetouch:
		if s.Radius < 1 {
			return invalid("retouch radius must be >= 1, got %g", s.Radius)
		}
		if s.Strength < 0 || s.Strength > 1 {
			return invalid("retouch strength must be in [0,1], got %g", s.Strength)
		}
	case "":
		return invalid("missing filter")
	default:
		return invalid("unknown filter %q", s.Filter)
	}
	return nil
}

// Operation converts a validated step into an editor operation.
func (s Step) Operation() (editor.Operation, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch s.Filter {
	case FilterNegative:
		return editor.Negative{}, nil
	case FilterMosaic:
		return editor.Mosaic{BlockSize: s.BlockSize}, nil
	case FilterMedian:
		return editor.Median{Window: s.Window}, nil
	case FilterBlur:
		return editor.Blur{Radius: int(s.Radius), Sigma: s.Sigma}, nil
	case FilterUnsharp:
		return editor.Unsharp{Threshold: s.Threshold, Amount: s.Amount, Radius: int(s.Radius)}, nil
	case FilterRotate:
		return editor.Rotate{Angle: s.Angle}, nil
	case FilterResize:
		mode, _ := images.ParseInterpolation(s.Interpolation)
		return editor.Resize{Scale: s.Scale, Interpolation: mode}, nil
	case FilterAffine:
		return editor.Affine{Points: s.Points}, nil
	default:
		return editor.Retouch{CenterX: s.CenterX, CenterY: s.CenterY, Radius: s.Radius, Strength: s.Strength}, nil
	}
}

// Operations converts every step.
func (r *Recipe) Operations() ([]editor.Operation, error) {
	ops := make([]editor.Operation, 0, len(r.Steps))
	for i, s := range r.Steps {
		op, err := s.Operation()
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Chain returns the whole recipe as a single operation.
func (r *Recipe) Chain() (editor.Chain, error) {
	ops, err := r.Operations()
	if err != nil {
		return nil, err
	}
	return editor.Chain(ops), nil
}
