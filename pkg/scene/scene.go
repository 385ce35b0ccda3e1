package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
)

var (
	// ErrEmptyScene is returned when a scene has nothing to render
	ErrEmptyScene = errors.New("scene: no primitives")

	// ErrNilMaterial is returned when a primitive has no material
	ErrNilMaterial = errors.New("scene: primitive without material")

	// ErrUnknownScene is returned by ByName for unregistered scene names
	ErrUnknownScene = errors.New("scene: unknown scene")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	World        *geometry.World
	CameraConfig geometry.CameraConfig // AspectRatio 0 means "match the image"
	Background   integrator.Background
}

// NewScene creates an empty scene with the default sky
func NewScene(name string, cameraConfig geometry.CameraConfig) *Scene {
	return &Scene{
		Name:         name,
		World:        geometry.NewWorld(),
		CameraConfig: cameraConfig,
		Background:   integrator.DefaultBackground(),
	}
}

// NewCamera builds the scene camera. The aspect ratio is only used when the
// scene does not fix one itself.
func (s *Scene) NewCamera(aspectRatio float64) (*geometry.Camera, error) {
	config := s.CameraConfig
	if config.AspectRatio <= 0 {
		config.AspectRatio = aspectRatio
	}
	return geometry.NewCamera(config)
}

// Validate checks the scene can be rendered
func (s *Scene) Validate() error {
	if s.World == nil || s.World.Len() == 0 {
		return ErrEmptyScene
	}

	for i := range s.World.Primitives {
		if s.World.Primitives[i].Material() == nil {
			return fmt.Errorf("%w: primitive %d", ErrNilMaterial, i)
		}
	}

	if _, err := s.NewCamera(1); err != nil {
		return fmt.Errorf("scene %q: %w", s.Name, err)
	}

	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	if s.World == nil {
		return 0
	}
	return s.World.Len()
}
