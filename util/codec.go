package util

import (
	"bufio"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/nvr-ai/go-photoedit/images"
)

// DefaultQuality is the lossy encoding quality used when none is given.
const DefaultQuality = 90

// ErrUnsupportedFormat is returned for formats with no codec.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode reads one image of the given format into a Buffer.
//
// Arguments:
// - r: Encoded image bytes.
// - format: The encoding of r.
//
// Returns:
// - The decoded RGBA8 buffer.
// - error: ErrUnsupportedFormat or the codec's error.
func Decode(r io.Reader, format images.ImageFormat) (*images.Buffer, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case images.FormatJPEG:
		img, err = jpeg.Decode(r)
	case images.FormatPNG:
		img, err = png.Decode(r)
	case images.FormatWebP:
		img, err = webp.Decode(r)
	case images.FormatBMP:
		img, err = bmp.Decode(r)
	case images.FormatTIFF:
		img, err = tiff.Decode(r)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "decode %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", format)
	}
	return images.FromImage(img), nil
}

// Encode writes b in the given format. quality applies to JPEG and WebP;
// values outside [1,100] use DefaultQuality.
func Encode(w io.Writer, b *images.Buffer, format images.ImageFormat, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	img := images.ToImage(b)
	var err error
	switch format {
	case images.FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case images.FormatPNG:
		err = png.Encode(w, img)
	case images.FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	case images.FormatBMP:
		err = bmp.Encode(w, img)
	case images.FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "encode %q", format)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", format)
	}
	return nil
}

// Load decodes the image file at path, picking the codec from its extension.
func Load(path string) (*images.Buffer, error) {
	format, ok := images.FormatFromPath(path)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "load %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	b, err := Decode(bufio.NewReader(f), format)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return b, nil
}

// Save encodes b to path, picking the codec from its extension.
func Save(path string, b *images.Buffer, quality int) (err error) {
	format, ok := images.FormatFromPath(path)
	if !ok {
		return errors.Wrapf(ErrUnsupportedFormat, "save %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create image file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "failed to close image file")
		}
	}()

	w := bufio.NewWriter(f)
	if err := Encode(w, b, format, quality); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return errors.Wrap(w.Flush(), "failed to flush image file")
}
