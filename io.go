package ascii

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	// Registered decoders for format auto-detection.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage loads an image file into a Pixmap, auto-detecting the format.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP.
func LoadImage(path string) (*Pixmap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("ascii: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode decodes an image from the given reader into a Pixmap,
// auto-detecting the format.
func Decode(r io.Reader) (*Pixmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("ascii: decode: %w", err)
	}
	return FromImage(img), nil
}

// Resize scales an image to exactly width x height pixels with Catmull-Rom
// interpolation and returns the result as an RGBA image.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// FitColumns computes conversion-ready dimensions for rendering an image at
// the given number of character columns. The width is rounded up to a
// multiple of the packing unit, the height preserves the source aspect
// ratio, and when downsampling is requested the height is rounded up to be
// even — so the returned dimensions always pass Convert's precondition
// checks.
//
// Without downsampling the height is additionally halved to compensate for
// terminal cells being roughly twice as tall as they are wide; with
// downsampling the sampler itself does that halving.
func FitColumns(img image.Image, cols int, packing Packing, downsample bool) (width, height int) {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if cols <= 0 {
		cols = srcW
	}

	unit := packing.CodesPerUnit()
	width = (cols + unit - 1) / unit * unit

	height = srcH * width / srcW
	if height < 1 {
		height = 1
	}
	if downsample {
		if height%2 != 0 {
			height++
		}
	} else {
		height = (height + 1) / 2
	}
	return width, height
}
