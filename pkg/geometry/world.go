package geometry

import (
	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

// World is an ordered collection of primitives
type World struct {
	Primitives []Primitive
}

// NewWorld creates a world holding the given primitives
func NewWorld(primitives ...Primitive) *World {
	return &World{Primitives: primitives}
}

// Add appends primitives to the world
func (w *World) Add(primitives ...Primitive) {
	w.Primitives = append(w.Primitives, primitives...)
}

// AddSphere appends a sphere primitive to the world
func (w *World) AddSphere(center core.Vec3, radius float64, mat *material.Material) {
	w.Add(NewSpherePrimitive(center, radius, mat))
}

// Len returns the number of primitives
func (w *World) Len() int {
	return len(w.Primitives)
}

// Hit returns the nearest intersection across all primitives. Ties keep the
// earliest primitive because the range is narrowed with a strict bound.
func (w *World) Hit(ray core.Ray, tMin, tMax float64) (material.HitRecord, bool) {
	hit, _, isHit := w.HitPrimitive(ray, tMin, tMax)
	return hit, isHit
}

// HitPrimitive is Hit that also reports the index of the primitive hit, or -1 on a miss
func (w *World) HitPrimitive(ray core.Ray, tMin, tMax float64) (material.HitRecord, int, bool) {
	var closestHit material.HitRecord
	closestSoFar := tMax
	closestIndex := -1

	for i := range w.Primitives {
		if hit, isHit := w.Primitives[i].Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
			closestIndex = i
		}
	}

	return closestHit, closestIndex, closestIndex >= 0
}
