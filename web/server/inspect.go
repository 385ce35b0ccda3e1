package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Index        int                    `json:"index"` // Primitive index in scene order, -1 on a miss
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor formats a color as #rrggbb. Channels are clamped to [0,1].
func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information by kind
func extractMaterialInfo(mat *material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if mat == nil {
		return "none", properties
	}

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = vecArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
	case material.KindMetal:
		properties["albedo"] = vecArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractiveIndex"] = mat.RefractiveIndex
		properties["color"] = "#ffffff" // Clear glass
	}
	return mat.Kind.String(), properties
}

// extractGeometryInfo adds shape specific properties
func extractGeometryInfo(p *geometry.Primitive, properties map[string]interface{}) string {
	switch p.Kind {
	case geometry.KindSphere:
		properties["center"] = vecArray(p.Sphere.Center)
		properties["radius"] = p.Sphere.Radius
		return "sphere"
	}
	return "unknown"
}

// inspectPixel traces the unjittered primary ray through pixel (x, y) and
// describes the first primitive it hits
func inspectPixel(sceneObj *scene.Scene, options renderer.Options, x, y int) (*InspectResponse, error) {
	raytracer, err := renderer.NewRaytracer(sceneObj, options, nil)
	if err != nil {
		return nil, err
	}

	ray := raytracer.PrimaryRay(x, y)
	hit, index, isHit := sceneObj.World.HitPrimitive(ray, integrator.MinHitDistance, math.Inf(1))
	if !isHit {
		return &InspectResponse{Hit: false, Index: -1}, nil
	}

	primitive := &sceneObj.World.Primitives[index]
	materialType, properties := extractMaterialInfo(hit.Material)
	geometryType := extractGeometryInfo(primitive, properties)

	return &InspectResponse{
		Hit:          true,
		Index:        index,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T * ray.Direction.Length(),
		FrontFace:    hit.FrontFace,
		Properties:   properties,
	}, nil
}

// handleInspect reports what the camera sees through a single pixel
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req, err := parseRenderRequest(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	x, err := parseIntParam(query, "x", 0, 0, req.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	y, err := parseIntParam(query, "y", 0, 0, req.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sceneObj, err := scene.Find(s.scenesDir, req.Scene)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	response, err := inspectPixel(sceneObj, req.options(), x, y)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}
