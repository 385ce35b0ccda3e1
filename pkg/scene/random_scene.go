package scene

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// DefaultRandomSeed is the seed used for the registered "random" scene
const DefaultRandomSeed = 2024

// NewRandomScene creates the random spheres cover scene. The same seed
// always produces the same scene.
func NewRandomScene(seed uint64) *Scene {
	s := NewScene("random", geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
	})

	sampler := core.NewSeededSampler(seed, 0)
	randomRange := func(lo, hi float64) float64 {
		return lo + (hi-lo)*sampler.Get1D()
	}

	s.World.AddSphere(core.NewVec3(0, -1000, 0), 1000, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	glass := material.NewDielectric(1.5)
	clearing := core.NewVec3(4, 0.2, 0)

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := sampler.Get1D()
			center := core.NewVec3(float64(a)+0.9*sampler.Get1D(), 0.2, float64(b)+0.9*sampler.Get1D())

			// Keep the area around the big metal sphere clear
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat *material.Material
			switch {
			case chooseMat < 0.8:
				albedo := sampler.Get3D().MultiplyVec(sampler.Get3D())
				mat = material.NewLambertian(albedo)
			case chooseMat < 0.95:
				albedo := core.NewVec3(randomRange(0.5, 1), randomRange(0.5, 1), randomRange(0.5, 1))
				mat = material.NewMetal(albedo, randomRange(0, 0.5))
			default:
				mat = glass
			}
			s.World.AddSphere(center, 0.2, mat)
		}
	}

	s.World.AddSphere(core.NewVec3(0, 1, 0), 1.0, glass)
	s.World.AddSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1)))
	s.World.AddSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0))

	return s
}
