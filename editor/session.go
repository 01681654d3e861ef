// Package editor holds the image being edited and runs filters against it
// off the caller's goroutine, one at a time, with undo and redo.
package editor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-photoedit/images"
	"github.com/nvr-ai/go-photoedit/profiler"
)

var (
	// ErrBusy is returned when an operation is already running.
	ErrBusy = errors.New("editor: an operation is already running")
	// ErrNoImage is returned when the session has no image loaded.
	ErrNoImage = errors.New("editor: no image loaded")
	// ErrNothingToUndo is returned by Undo on an empty history.
	ErrNothingToUndo = errors.New("editor: nothing to undo")
	// ErrNothingToRedo is returned by Redo when no undone step remains.
	ErrNothingToRedo = errors.New("editor: nothing to redo")
	// ErrStale is returned by Apply when the current image changed while the
	// operation ran, so its result was not kept.
	ErrStale = errors.New("editor: image changed during the operation")
)

// DefaultHistoryDepth is the number of undo steps kept when none is configured.
const DefaultHistoryDepth = 20

// Option configures a Session.
type Option func(*Session)

// WithHistoryDepth bounds the undo history. Values < 1 keep the default.
func WithHistoryDepth(depth int) Option {
	return func(s *Session) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

// WithProfiler records every operation's duration in p.
func WithProfiler(p *profiler.Profiler) Option {
	return func(s *Session) {
		s.prof = p
	}
}

// Session is the editing state of one image: the original, the current
// result, and the history between them.
//
// At most one operation runs at a time. While it runs Busy reports true and
// any further Apply, Undo, Redo, Reset or Load fails with ErrBusy. The
// Buffers a Session hands out are never written to again, so callers may
// keep and display them freely.
type Session struct {
	mu       sync.Mutex
	original *images.Buffer
	current  *images.Buffer
	undo     []*images.Buffer
	redo     []*images.Buffer
	depth    int

	busy atomic.Bool
	prof *profiler.Profiler
}

// job tracks whether a running operation may still publish its result.
type job struct {
	abandoned bool
	committed bool
}

// outcome is what a finished operation hands back to Apply.
type outcome struct {
	out *images.Buffer
	err error
}

// NewSession creates a session editing img. img may be nil and loaded later.
func NewSession(img *images.Buffer, opts ...Option) *Session {
	s := &Session{
		original: img,
		current:  img,
		depth:    DefaultHistoryDepth,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prof == nil {
		s.prof = profiler.New(profiler.Options{Logger: Logger()})
	}
	return s
}

// Load replaces the image and clears the history.
func (s *Session) Load(img *images.Buffer) error {
	if img.Empty() {
		return ErrNoImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy.Load() {
		return ErrBusy
	}
	s.original, s.current = img, img
	s.undo, s.redo = nil, nil
	Logger().Debug("image loaded", "width", img.Width, "height", img.Height)
	return nil
}

// Busy reports whether an operation is running.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Current returns the image as edited so far.
func (s *Session) Current() *images.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Original returns the image as loaded.
func (s *Session) Original() *images.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// Profiler returns the profiler timing this session's operations.
func (s *Session) Profiler() *profiler.Profiler {
	return s.prof
}

// Apply runs op against the current image on its own goroutine and waits for
// it.
//
// On success the result becomes the current image and the previous one is
// pushed onto the undo history; an operation that returns its input unchanged
// leaves the history alone. If ctx ends first Apply returns ctx's error at
// once and the result, when it arrives, is discarded. The session stays busy
// until the abandoned operation finishes.
//
// Arguments:
// - ctx: Bounds how long the caller waits.
// - op: The operation to run.
//
// Returns:
// - The new current image.
// - ErrBusy if another operation is running, ErrNoImage without an image.
// - ErrStale if the result could not be kept.
func (s *Session) Apply(ctx context.Context, op Operation) (*images.Buffer, error) {
	// The busy flag and the source image are taken together so that Undo,
	// Redo, Reset and Load either finish before this or see ErrBusy.
	s.mu.Lock()
	if !s.busy.CompareAndSwap(false, true) {
		s.mu.Unlock()
		Logger().Warn("operation rejected", "op", op.Name(), "reason", "busy")
		return nil, ErrBusy
	}
	src := s.current
	s.mu.Unlock()
	if src == nil {
		s.busy.Store(false)
		return nil, ErrNoImage
	}

	name := op.Name()
	j := &job{}
	results := make(chan outcome, 1)

	Logger().Debug("operation started", "op", name, "width", src.Width, "height", src.Height)
	go func() {
		start := time.Now()
		out := op.Apply(src)
		elapsed := time.Since(start)
		s.prof.Record(name, elapsed)

		res := outcome{out: out}
		s.mu.Lock()
		discarded := j.abandoned
		if !discarded {
			if !s.commit(src, out) {
				res.err = errors.Wrapf(ErrStale, "editor: %s", name)
			}
			j.committed = true
		}
		s.mu.Unlock()

		Logger().Info("operation finished", "op", name, "duration", elapsed,
			"width", out.Width, "height", out.Height, "discarded", discarded)
		s.busy.Store(false)
		results <- res
	}()

	select {
	case res := <-results:
		return res.result()
	case <-ctx.Done():
		s.mu.Lock()
		committed := j.committed
		if !committed {
			j.abandoned = true
		}
		s.mu.Unlock()

		if committed {
			res := <-results
			return res.result()
		}
		Logger().Warn("operation abandoned", "op", name, "err", ctx.Err())
		return nil, errors.Wrapf(ctx.Err(), "editor: %s", name)
	}
}

func (o outcome) result() (*images.Buffer, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.out, nil
}

// commit makes out the current image and reports whether the session now
// shows it. An unchanged result commits trivially. s.mu must be held.
func (s *Session) commit(src, out *images.Buffer) bool {
	if s.current != src {
		return false
	}
	if out == src {
		return true
	}
	s.undo = append(s.undo, s.current)
	if len(s.undo) > s.depth {
		s.undo = s.undo[len(s.undo)-s.depth:]
	}
	s.redo = nil
	s.current = out
	return true
}

// Undo steps back to the image before the last applied operation.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy.Load() {
		return ErrBusy
	}
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	last := len(s.undo) - 1
	s.redo = append(s.redo, s.current)
	s.current = s.undo[last]
	s.undo = s.undo[:last]

	Logger().Debug("undo", "remaining", len(s.undo))
	return nil
}

// Redo re-applies the most recently undone step.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy.Load() {
		return ErrBusy
	}
	if len(s.redo) == 0 {
		return ErrNothingToRedo
	}
	last := len(s.redo) - 1
	s.undo = append(s.undo, s.current)
	s.current = s.redo[last]
	s.redo = s.redo[:last]

	Logger().Debug("redo", "remaining", len(s.redo))
	return nil
}

// Reset returns to the original image and clears the history.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy.Load() {
		return ErrBusy
	}
	if s.original == nil {
		return ErrNoImage
	}
	s.current = s.original
	s.undo, s.redo = nil, nil
	return nil
}

// RetouchAt runs a Retouch centered on a tap in view coordinates. The image
// is assumed to be shown aspect-fit in a view of size view. A tap outside
// the displayed image is ignored and reports false.
func (s *Session) RetouchAt(ctx context.Context, tap images.Point, view Size, radius, strength float64) (bool, error) {
	cur := s.Current()
	if cur == nil {
		return false, ErrNoImage
	}

	p, inside := ViewToImage(tap, view, SizeOf(cur), AspectFit)
	if !inside {
		Logger().Debug("retouch tap outside image", "x", tap.X, "y", tap.Y)
		return false, nil
	}

	_, err := s.Apply(ctx, Retouch{CenterX: p.X, CenterY: p.Y, Radius: radius, Strength: strength})
	if err != nil {
		return false, err
	}
	return true, nil
}

// AffineFromView warps the image with six points tapped on a view showing it
// aspect-fill: three sources followed by three destinations.
func (s *Session) AffineFromView(ctx context.Context, taps []images.Point, view Size) (*images.Buffer, error) {
	cur := s.Current()
	if cur == nil {
		return nil, ErrNoImage
	}
	pts := ViewPointsToImage(taps, view, SizeOf(cur), AspectFill)
	return s.Apply(ctx, Affine{Points: pts})
}
