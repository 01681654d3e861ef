// Command photoedit runs the photo editing filters from the command line.
//
// Usage:
//
//	photoedit apply --filter mosaic --block-size 8 in.jpg out.png
//	photoedit apply --filter affine --points 0,0,100,0,0,100,10,5,110,0,0,95 in.png out.png
//	photoedit recipe vintage.yaml in.jpg out.jpg
//	photoedit batch --jobs 4 --format webp vintage.yaml ./photos ./edited
//	photoedit thumbnail --size 128 in.jpg thumb.jpg
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nvr-ai/go-photoedit/editor"
	"github.com/nvr-ai/go-photoedit/images"
	"github.com/nvr-ai/go-photoedit/images/kernels"
	"github.com/nvr-ai/go-photoedit/profiler"
	"github.com/nvr-ai/go-photoedit/recipe"
	"github.com/nvr-ai/go-photoedit/util"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose bool
	quality int
	profile bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "photoedit",
		Short:         "Apply photo filters to image files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if g.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			editor.SetLogger(logger)
		},
	}

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log every operation at debug level")
	root.PersistentFlags().IntVarP(&g.quality, "quality", "q", util.DefaultQuality, "JPEG/WebP output quality (1-100)")
	root.PersistentFlags().BoolVar(&g.profile, "profile", false, "Print operation timings when done")

	root.AddCommand(
		newApplyCommand(g),
		newRecipeCommand(g),
		newBatchCommand(g),
		newThumbnailCommand(g),
	)
	return root
}

func newApplyCommand(g *globalFlags) *cobra.Command {
	var (
		step   recipe.Step
		points []float64
	)

	cmd := &cobra.Command{
		Use:   "apply <input> <output>",
		Short: "Apply a single filter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pts, err := pairPoints(points)
			if err != nil {
				return err
			}
			step.Points = pts

			r := &recipe.Recipe{Name: step.Filter, Steps: []recipe.Step{step}}
			return runRecipe(cmd, g, r, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&step.Filter, "filter", "f", "", "Filter: negative, mosaic, median, blur, unsharp, rotate, resize, affine, retouch")
	f.IntVar(&step.BlockSize, "block-size", 0, "Mosaic block size")
	f.IntVar(&step.Window, "window", 0, "Median window (default 7)")
	f.Float64Var(&step.Radius, "radius", 0, "Blur, unsharp or retouch radius")
	f.Float64Var(&step.Sigma, "sigma", 0, "Blur sigma")
	f.IntVar(&step.Threshold, "threshold", 0, "Unsharp threshold (1-255)")
	f.IntVar(&step.Amount, "amount", 0, "Unsharp amount (1-100)")
	f.Float64Var(&step.Angle, "angle", 0, "Rotation in degrees")
	f.Float64Var(&step.Scale, "scale", 0, "Resize factor")
	f.StringVar(&step.Interpolation, "interpolation", "", "Resize interpolation: auto, bilinear, bicubic, trilinear")
	f.Float64Var(&step.CenterX, "center-x", 0, "Retouch center x in pixels")
	f.Float64Var(&step.CenterY, "center-y", 0, "Retouch center y in pixels")
	f.Float64Var(&step.Strength, "strength", 0, "Retouch strength (0-1)")
	f.Float64SliceVar(&points, "points", nil, "Affine points as x,y pairs: 3 sources then 3 destinations")
	_ = cmd.MarkFlagRequired("filter")

	return cmd
}

func newRecipeCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "recipe <recipe.yaml> <input> <output>",
		Short: "Apply every step of a recipe file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := recipe.Load(args[0])
			if err != nil {
				return err
			}
			return runRecipe(cmd, g, r, args[1], args[2])
		},
	}
}

func newBatchCommand(g *globalFlags) *cobra.Command {
	var (
		jobs   int
		format string
	)

	cmd := &cobra.Command{
		Use:   "batch <recipe.yaml> <input-dir> <output-dir>",
		Short: "Apply a recipe to every image in a directory",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := recipe.Load(args[0])
			if err != nil {
				return err
			}
			ops, err := r.Operations()
			if err != nil {
				return err
			}
			ops = editor.SharePool(ops, &kernels.Pool{})

			var outFormat images.ImageFormat
			if format != "" {
				var ok bool
				outFormat, ok = images.FormatFromPath("x." + format)
				if !ok {
					return errors.Wrapf(util.ErrUnsupportedFormat, "--format %s", format)
				}
			}

			files, err := util.LoadDirectoryImageFiles(args[1])
			if err != nil {
				return err
			}
			outputs, err := outputPaths(files, args[2], outFormat)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(args[2], 0o755); err != nil {
				return errors.Wrap(err, "failed to create output directory")
			}

			prof := profiler.New(profiler.Options{Logger: slog.Default()})
			if g.verbose {
				prof.Start(cmd.Context())
				defer prof.Stop()
			}

			start := time.Now()
			err = util.ProcessFiles(cmd.Context(), files, jobs, func(ctx context.Context, file util.ImageFile) error {
				return editFile(ctx, prof, ops, file.Path, outputs[file.Path], g.quality)
			})
			if err != nil {
				return err
			}

			slog.Info("batch finished", "files", len(files), "duration", time.Since(start))
			if g.profile {
				return prof.WriteReport(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Images processed at once (default: number of CPUs)")
	cmd.Flags().StringVar(&format, "format", "", "Output format (png, jpg, webp, bmp, tiff); default keeps the input format")
	return cmd
}

func newThumbnailCommand(g *globalFlags) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "thumbnail <input> <output>",
		Short: "Write a gallery thumbnail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := util.Load(args[0])
			if err != nil {
				return err
			}
			thumb := util.Thumbnail(src, size)
			slog.Debug("thumbnail", "from", fmt.Sprintf("%dx%d", src.Width, src.Height),
				"to", fmt.Sprintf("%dx%d", thumb.Width, thumb.Height))
			return util.Save(args[1], thumb, g.quality)
		},
	}

	cmd.Flags().IntVar(&size, "size", util.DefaultThumbnailSize, "Longest side in pixels")
	return cmd
}

// runRecipe edits one file with every step of r.
func runRecipe(cmd *cobra.Command, g *globalFlags, r *recipe.Recipe, in, out string) error {
	ops, err := r.Operations()
	if err != nil {
		return err
	}

	prof := profiler.New(profiler.Options{Logger: slog.Default()})
	if err := editFile(cmd.Context(), prof, ops, in, out, g.quality); err != nil {
		return err
	}
	if g.profile {
		return prof.WriteReport(cmd.OutOrStdout())
	}
	return nil
}

// editFile loads in, applies ops through a session and saves the result to out.
func editFile(ctx context.Context, prof *profiler.Profiler, ops []editor.Operation, in, out string, quality int) error {
	src, err := util.Load(in)
	if err != nil {
		return err
	}

	s := editor.NewSession(src, editor.WithProfiler(prof), editor.WithHistoryDepth(len(ops)))
	for _, op := range ops {
		if _, err := s.Apply(ctx, op); err != nil {
			return errors.Wrapf(err, "%s", in)
		}
	}

	return util.Save(out, s.Current(), quality)
}

// outputPaths maps every input file to its path under dir, switching the
// extension to format when one is given. Two inputs that would write the same
// output (a.png and a.jpg with --format webp) are an error.
func outputPaths(files []util.ImageFile, dir string, format images.ImageFormat) (map[string]string, error) {
	outputs := make(map[string]string, len(files))
	written := make(map[string]string, len(files))
	for _, file := range files {
		out := filepath.Join(dir, filepath.Base(file.Path))
		if format != "" {
			out = strings.TrimSuffix(out, filepath.Ext(out)) + format.Extension()
		}
		if prev, ok := written[out]; ok {
			return nil, errors.Errorf("%s and %s would both be written to %s", prev, file.Path, out)
		}
		written[out] = file.Path
		outputs[file.Path] = out
	}
	return outputs, nil
}

// pairPoints turns a flat x,y list into points.
func pairPoints(vals []float64) ([]images.Point, error) {
	if len(vals)%2 != 0 {
		return nil, errors.Errorf("--points needs x,y pairs, got %d values", len(vals))
	}
	pts := make([]images.Point, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		pts = append(pts, images.Pt(vals[i], vals[i+1]))
	}
	return pts, nil
}
