package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-photoedit/images"
	"github.com/nvr-ai/go-photoedit/util"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeWhite(t *testing.T, path string, w, h int) {
	t.Helper()
	b := images.NewBuffer(w, h)
	b.Fill(255, 255, 255, 255)
	require.NoError(t, util.Save(path, b, 0))
}

func TestApplyNegative(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in.png"), filepath.Join(dir, "out.png")
	writeWhite(t, in, 4, 4)

	_, err := run(t, "apply", "--filter", "negative", in, out)
	require.NoError(t, err)

	got, err := util.Load(out)
	require.NoError(t, err)
	r, g, b, a := got.RGBA(1, 1)
	assert.Equal(t, []uint8{0, 0, 0, 255}, []uint8{r, g, b, a})
}

func TestApplyValidation(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeWhite(t, in, 4, 4)

	_, err := run(t, "apply", "--filter", "mosaic", in, filepath.Join(dir, "o.png"))
	assert.ErrorContains(t, err, "block_size")

	_, err = run(t, "apply", "--filter", "affine", "--points", "0,0,1", in, filepath.Join(dir, "o.png"))
	assert.ErrorContains(t, err, "x,y pairs")
}

func TestRecipeAndProfile(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in.png"), filepath.Join(dir, "out.bmp")
	writeWhite(t, in, 10, 6)

	doc := "name: t\nsteps:\n  - filter: resize\n    scale: 2\n  - filter: rotate\n    angle: 90\n"
	recipePath := filepath.Join(dir, "r.yaml")
	require.NoError(t, os.WriteFile(recipePath, []byte(doc), 0o644))

	report, err := run(t, "--profile", "recipe", recipePath, in, out)
	require.NoError(t, err)
	assert.Contains(t, report, "resize: avg=")

	got, err := util.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Width)
	assert.Equal(t, 20, got.Height)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	inDir, outDir := filepath.Join(dir, "in"), filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(inDir, 0o755))
	writeWhite(t, filepath.Join(inDir, "a.png"), 4, 4)
	writeWhite(t, filepath.Join(inDir, "b.png"), 6, 2)

	recipePath := filepath.Join(dir, "r.yaml")
	require.NoError(t, os.WriteFile(recipePath, []byte("steps:\n  - filter: negative\n"), 0o644))

	_, err := run(t, "batch", "--jobs", "2", "--format", "tiff", recipePath, inDir, outDir)
	require.NoError(t, err)

	files, err := util.LoadDirectoryImageFiles(outDir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(outDir, "a.tiff"), files[0].Path)

	_, err = run(t, "batch", "--format", "gif", recipePath, inDir, outDir)
	assert.ErrorIs(t, err, util.ErrUnsupportedFormat)
}

func TestBatchRejectsCollidingOutputs(t *testing.T) {
	dir := t.TempDir()
	inDir, outDir := filepath.Join(dir, "in"), filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(inDir, 0o755))
	writeWhite(t, filepath.Join(inDir, "a.png"), 4, 4)
	writeWhite(t, filepath.Join(inDir, "a.bmp"), 4, 4)

	recipePath := filepath.Join(dir, "r.yaml")
	require.NoError(t, os.WriteFile(recipePath, []byte("steps:\n  - filter: negative\n"), 0o644))

	_, err := run(t, "batch", "--format", "webp", recipePath, inDir, outDir)
	assert.ErrorContains(t, err, "a.webp")
	assert.NoDirExists(t, outDir)

	// Keeping each input's own format has no collision.
	_, err = run(t, "batch", recipePath, inDir, outDir)
	require.NoError(t, err)
	files, err := util.LoadDirectoryImageFiles(outDir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestOutputPaths(t *testing.T) {
	files := []util.ImageFile{{Path: "in/a.jpg"}, {Path: "in/b.png"}}
	got, err := outputPaths(files, "out", images.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"in/a.jpg": filepath.Join("out", "a.png"),
		"in/b.png": filepath.Join("out", "b.png"),
	}, got)

	_, err = outputPaths(append(files, util.ImageFile{Path: "in/a.png"}), "out", images.FormatPNG)
	assert.Error(t, err)
}

func TestThumbnailCommand(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in.png"), filepath.Join(dir, "thumb.png")
	writeWhite(t, in, 300, 100)

	_, err := run(t, "thumbnail", "--size", "60", in, out)
	require.NoError(t, err)

	got, err := util.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Width)
	assert.Equal(t, 20, got.Height)
}

func TestPairPoints(t *testing.T) {
	pts, err := pairPoints([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []images.Point{images.Pt(1, 2), images.Pt(3, 4)}, pts)
}
