package renderer

import "github.com/df07/go-sphere-tracer/pkg/core"

// Image is a row-major grid of gamma-corrected colors. Row 0 is the top of the picture.
type Image struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewImage allocates a black image
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color at column x, row y
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pixels[y*img.Width+x]
}

// Set stores the color at column x, row y
func (img *Image) Set(x, y int, c core.Vec3) {
	img.Pixels[y*img.Width+x] = c
}

// Row returns the slice backing row y
func (img *Image) Row(y int) []core.Vec3 {
	start := y * img.Width
	return img.Pixels[start : start+img.Width : start+img.Width]
}
