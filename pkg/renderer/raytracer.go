package renderer

import (
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Raytracer renders one scene with fixed options. It is read-only while
// rendering and may be shared by every worker.
type Raytracer struct {
	scene      *scene.Scene
	camera     *geometry.Camera
	integrator integrator.Integrator
	options    Options
	logger     core.Logger
}

// NewRaytracer validates the scene and options and prepares the camera and integrator.
// A nil logger discards all messages.
func NewRaytracer(s *scene.Scene, options Options, logger core.Logger) (*Raytracer, error) {
	if s == nil {
		return nil, ErrSceneNotDefined
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	camera, err := s.NewCamera(options.AspectRatio())
	if err != nil {
		return nil, fmt.Errorf("failed to build camera: %w", err)
	}

	integ, err := integrator.New(options.Integrator, s.Background)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = nopLogger{}
	}

	return &Raytracer{
		scene:      s,
		camera:     camera,
		integrator: integ,
		options:    options,
		logger:     logger,
	}, nil
}

// Options returns the options the raytracer was built with
func (rt *Raytracer) Options() Options {
	return rt.options
}

// renderPixel averages SamplesPerPixel radiance samples for pixel (i, j) and
// returns the gamma-corrected color clamped to [0,1]
func (rt *Raytracer) renderPixel(i, j int, sampler core.Sampler) core.Vec3 {
	width, height := rt.options.Width, rt.options.Height
	samples := rt.options.SamplesPerPixel

	var colorAccum core.Vec3
	for k := 0; k < samples; k++ {
		var du, dv float64
		if rt.options.Jitter {
			du = sampler.Get1D()
			dv = sampler.Get1D()
		}

		s := pixelCoordinate(i, du, width)
		t := pixelCoordinate(height-1-j, dv, height)

		ray := rt.camera.GetRay(s, t, sampler)
		colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, rt.scene.World, rt.options.MaxDepth, sampler))
	}

	return colorAccum.Multiply(1.0/float64(samples)).GammaCorrect(2.0).Clamp(0, 1)
}

// PrimaryRay returns the unjittered camera ray through pixel (i, j). Lens
// samples come from a generator seeded by the pixel so repeated calls agree.
func (rt *Raytracer) PrimaryRay(i, j int) core.Ray {
	sampler := core.NewSeededSampler(rt.options.Seed, mix64(uint64(j*rt.options.Width+i)))
	s := pixelCoordinate(i, 0, rt.options.Width)
	t := pixelCoordinate(rt.options.Height-1-j, 0, rt.options.Height)
	return rt.camera.GetRay(s, t, sampler)
}

// pixelCoordinate maps a pixel index plus jitter to [0,1] along an axis of n
// pixels. A single pixel axis samples its center.
func pixelCoordinate(index int, jitter float64, n int) float64 {
	if n <= 1 {
		return 0.5
	}
	return (float64(index) + jitter) / float64(n-1)
}
