package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// NewDefaultScene creates a default scene with a ground sphere, three spheres and a hollow glass shell
func NewDefaultScene() *Scene {
	s := NewScene("default", geometry.CameraConfig{
		Center:        core.NewVec3(-2, 2, 1), // Above and to the left
		LookAt:        core.NewVec3(0, 0, -1), // Look at the center sphere
		Up:            core.NewVec3(0, 1, 0),  // Standard up direction
		VFov:          40.0,
		Aperture:      0.1,
		FocusDistance: 0.0, // Auto-calculate focus distance
	})

	// Create materials
	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.World.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	s.World.AddSphere(core.NewVec3(0, 0, -1), 0.5, center)

	// Hollow glass sphere: the negative radius inner wall flips the normals
	s.World.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	s.World.AddSphere(core.NewVec3(-1, 0, -1), -0.45, glass)

	s.World.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold)

	return s
}

// NewSingleSphereScene creates one diffuse sphere resting on a large ground sphere, seen by a pinhole camera
func NewSingleSphereScene() *Scene {
	s := NewScene("single", geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   90.0,
	})

	s.World.AddSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	s.World.AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	return s
}
