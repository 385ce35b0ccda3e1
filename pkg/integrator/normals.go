package integrator

import (
	"math"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// NormalIntegrator shades hits by their surface normal, mapped from [-1,1] to [0,1].
// It is a debugging aid and never scatters.
type NormalIntegrator struct {
	background Background
}

// NewNormalIntegrator creates a normal-shading integrator
func NewNormalIntegrator(background Background) *NormalIntegrator {
	return &NormalIntegrator{background: background}
}

// RayColor returns (n+1)/2 for the nearest hit or the background on a miss
func (ni *NormalIntegrator) RayColor(ray core.Ray, world geometry.Hittable, depth int, sampler core.Sampler) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, MinHitDistance, math.Inf(1))
	if !isHit {
		return ni.background.Color(ray)
	}

	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}
