package geometry

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// Kind identifies the shape stored in a Primitive
type Kind int

const (
	KindSphere Kind = iota
)

// Hittable is anything a ray can intersect with
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool)
}

// Primitive is a closed set of analytic shapes dispatched on Kind
type Primitive struct {
	Kind   Kind
	Sphere Sphere
}

// NewSpherePrimitive wraps a sphere as a scene primitive
func NewSpherePrimitive(center core.Vec3, radius float64, mat *material.Material) Primitive {
	return Primitive{Kind: KindSphere, Sphere: NewSphere(center, radius, mat)}
}

// Hit dispatches the intersection test to the concrete shape
func (p *Primitive) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.Hit(ray, tMin, tMax)
	}
	return material.HitRecord{}, false
}

// Material returns the material of the primitive
func (p *Primitive) Material() *material.Material {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.Material
	}
	return nil
}
