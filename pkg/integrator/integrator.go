package integrator

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
)

// MinHitDistance is the lower bound used for every ray query. It keeps
// secondary rays from re-hitting the surface they start on.
const MinHitDistance = 0.001

// Names of the available integrators
const (
	NamePath    = "path"
	NameNormals = "normals"
)

// ErrUnknownIntegrator is returned by New for unrecognised names
var ErrUnknownIntegrator = errors.New("integrator: unknown integrator")

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along ray, recursing at most depth bounces
	RayColor(ray core.Ray, world geometry.Hittable, depth int, sampler core.Sampler) core.Vec3
}

// Names lists the registered integrator names
func Names() []string {
	return []string{NamePath, NameNormals}
}

// New returns the integrator registered under name
func New(name string, background Background) (Integrator, error) {
	switch name {
	case NamePath, "":
		return NewPathTracingIntegrator(background), nil
	case NameNormals:
		return NewNormalIntegrator(background), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownIntegrator, name)
	}
}
