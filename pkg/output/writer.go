package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// ErrUnsupportedFormat is returned by Save for unknown file extensions
var ErrUnsupportedFormat = errors.New("output: unsupported image format")

// Quantize converts a channel in [0,1] to an 8-bit value
func Quantize(c float64) uint8 {
	return uint8(256 * max(0, min(0.999, c)))
}

// ToRGBA converts a rendered image to an opaque RGBA image
func ToRGBA(img *renderer.Image) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x, c := range img.Row(y) {
			rgba.SetRGBA(x, y, color.RGBA{
				R: Quantize(c.X),
				G: Quantize(c.Y),
				B: Quantize(c.Z),
				A: 255,
			})
		}
	}
	return rgba
}

// WritePNG encodes the image as PNG
func WritePNG(w io.Writer, img *renderer.Image) error {
	return png.Encode(w, ToRGBA(img))
}

// WritePPM writes the image as plain-text PPM (P3), one image row per line
func WritePPM(w io.Writer, img *renderer.Image) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x, c := range img.Row(y) {
			if x > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%d %d %d", Quantize(c.X), Quantize(c.Y), Quantize(c.Z))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Save writes the image to path, choosing the format from the extension
func Save(path string, img *renderer.Image) (err error) {
	var write func(io.Writer, *renderer.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		write = WritePNG
	case ".ppm":
		write = WritePPM
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	if err := write(file, img); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return nil
}
