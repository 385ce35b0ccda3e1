package renderer

import (
	"fmt"
	"runtime"

	"github.com/df07/go-sphere-tracer/pkg/integrator"
)

// SeedMode selects how worker random generators are seeded
type SeedMode string

const (
	// SeedPerPixel reseeds the generator from the pixel index before every
	// pixel. Output is identical for any number of workers.
	SeedPerPixel SeedMode = "per-pixel"

	// SeedPerWorker seeds each worker generator once from its worker id.
	// Output depends on how rows were distributed.
	SeedPerWorker SeedMode = "per-worker"
)

type Options struct {
	// Frame dims.
	Width  int
	Height int

	// Number of rays traced per pixel.
	SamplesPerPixel int

	// Maximum number of bounces per ray.
	MaxDepth int

	// Number of render goroutines; 0 uses one per CPU.
	NumWorkers int

	// Base seed and seeding strategy for the per-worker generators.
	Seed     uint64
	SeedMode SeedMode

	// Jitter sample positions inside each pixel. Disabling it traces every
	// sample through the pixel corner.
	Jitter bool

	// Name of the light transport integrator.
	Integrator string
}

// DefaultOptions returns the options used when nothing else is configured
func DefaultOptions() Options {
	return Options{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		NumWorkers:      0,
		Seed:            42,
		SeedMode:        SeedPerPixel,
		Jitter:          true,
		Integrator:      integrator.NamePath,
	}
}

// Validate checks the options before a render starts
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, o.Width, o.Height)
	}
	if o.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSamples, o.SamplesPerPixel)
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, o.MaxDepth)
	}
	if o.NumWorkers < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, o.NumWorkers)
	}
	switch o.SeedMode {
	case SeedPerPixel, SeedPerWorker:
	default:
		return fmt.Errorf("%w %q", ErrUnknownSeedMode, o.SeedMode)
	}
	return nil
}

// Workers returns the effective number of render goroutines
func (o Options) Workers() int {
	if o.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return o.NumWorkers
}

// AspectRatio returns width / height
func (o Options) AspectRatio() float64 {
	return float64(o.Width) / float64(o.Height)
}
