package integrator

import "github.com/df07/go-sphere-tracer/pkg/core"

// Background is a vertical sky gradient seen by rays that leave the scene
type Background struct {
	Top    core.Vec3
	Bottom core.Vec3
}

// DefaultBackground returns the blue-to-white sky
func DefaultBackground() Background {
	return Background{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns the background color along the ray direction
func (b Background) Color(r core.Ray) core.Vec3 {
	// Normalize the ray direction to get consistent results
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return b.Bottom.Multiply(1.0 - t).Add(b.Top.Multiply(t))
}
