package util

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ProcessFiles calls fn for every file with at most limit calls in flight.
// A limit < 1 uses runtime.NumCPU(). The first error cancels the context
// passed to the remaining calls and is returned, wrapped with its path.
func ProcessFiles(ctx context.Context, files []ImageFile, limit int, fn func(ctx context.Context, file ImageFile) error) error {
	if limit < 1 {
		limit = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, file := range files {
		file := file
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, file); err != nil {
				return errors.Wrapf(err, "process %s", file.Path)
			}
			return nil
		})
	}

	return g.Wait()
}
