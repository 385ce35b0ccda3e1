package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			if hit.Material != testMaterial {
				t.Error("Expected hit record to carry the sphere material")
			}
		})
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test tMax bound
	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// Test tMin bound
	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// Near root excluded, far root accepted
	hit, isHit = sphere.Hit(ray, 1.5, 1000.0)
	if !isHit || math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got hit=%t t=%f", isHit, hit.T)
	}
	if hit.FrontFace {
		t.Error("Expected far root to be a back face hit")
	}
}

func TestSphere_Hit_Degenerate(t *testing.T) {
	zero := NewSphere(core.NewVec3(0, 0, 0), 0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))
	if _, isHit := zero.Hit(ray, 0.001, 1000); isHit {
		t.Error("Expected zero-radius sphere to never be hit")
	}

	sphere := NewSphere(core.NewVec3(0, 0, 0), 1, testMaterial)
	still := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, 0))
	if _, isHit := sphere.Hit(still, 0.001, 1000); isHit {
		t.Error("Expected zero-length ray to never hit")
	}
}

func TestSphere_NegativeRadius(t *testing.T) {
	// A negative radius models the inner wall of a hollow shell
	shell := NewSphere(core.NewVec3(0, 0, 0), -0.5, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := shell.Hit(ray, 0.001, 1000)
	if !isHit {
		t.Fatal("Expected hit on negative radius sphere")
	}
	if math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected t=1.5, got %f", hit.T)
	}
	// Geometric normal points inward, so the ray meets the back face
	if hit.FrontFace {
		t.Error("Expected back face on negative radius sphere")
	}
	if hit.Normal.Dot(ray.Direction) > 0 {
		t.Errorf("Expected normal %v to face the ray", hit.Normal)
	}
}

func TestSphere_TranslateScale(t *testing.T) {
	s := NewSphere(core.NewVec3(1, 2, 3), 2, testMaterial)

	moved := s.Translate(core.NewVec3(1, 0, -1))
	if moved.Center != core.NewVec3(2, 2, 2) || moved.Radius != 2 {
		t.Errorf("Unexpected translated sphere %+v", moved)
	}

	scaled := s.Scale(0.5)
	if scaled.Center != core.NewVec3(0.5, 1, 1.5) || scaled.Radius != 1 {
		t.Errorf("Unexpected scaled sphere %+v", scaled)
	}

	if s.Center != core.NewVec3(1, 2, 3) {
		t.Error("Expected original sphere to be unchanged")
	}
}

// TestSphere_Hit_Properties checks analytic properties over many random rays
func TestSphere_Hit_Properties(t *testing.T) {
	sampler := core.NewSeededSampler(1234, 0)
	const tMin, tMax = 0.001, 100.0

	for i := 0; i < 5000; i++ {
		center := sampler.Get3D().Multiply(4).Subtract(core.NewVec3(2, 2, 2))
		radius := 0.2 + sampler.Get1D()*2
		sphere := NewSphere(center, radius, testMaterial)

		origin := sampler.Get3D().Multiply(10).Subtract(core.NewVec3(5, 5, 5))
		direction := core.RandomUnitVector(sampler).Multiply(0.5 + sampler.Get1D())
		ray := core.NewRay(origin, direction)

		// Independent evaluation with the full quadratic formula
		oc := origin.Subtract(center)
		a := direction.Dot(direction)
		b := 2 * oc.Dot(direction)
		c := oc.Dot(oc) - radius*radius
		disc := b*b - 4*a*c

		hit, isHit := sphere.Hit(ray, tMin, tMax)
		if disc < 0 {
			if isHit {
				t.Fatalf("Negative discriminant but got hit at t=%f", hit.T)
			}
			continue
		}

		roots := []float64{(-b - math.Sqrt(disc)) / (2 * a), (-b + math.Sqrt(disc)) / (2 * a)}
		expected, found := 0.0, false
		for _, r := range roots {
			if r > tMin && r < tMax {
				expected, found = r, true
				break
			}
		}

		if found != isHit {
			t.Fatalf("Expected hit=%t, got %t (roots %v)", found, isHit, roots)
		}
		if !isHit {
			continue
		}
		if math.Abs(hit.T-expected) > 1e-6 {
			t.Fatalf("Expected minimal root %f, got %f", expected, hit.T)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit normal, got length %f", hit.Normal.Length())
		}
		if hit.Normal.Dot(ray.Direction) > 1e-12 {
			t.Fatalf("Normal %v does not face ray direction %v", hit.Normal, ray.Direction)
		}
		// Hit point lies on the sphere surface
		if math.Abs(hit.Point.Subtract(center).Length()-radius) > 1e-6 {
			t.Fatalf("Hit point %v not on sphere surface", hit.Point)
		}
	}
}
