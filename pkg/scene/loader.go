package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/integrator"
	"github.com/df07/go-sphere-tracer/pkg/material"
)

var (
	// ErrInvalidSceneFile is returned for scene files that decode but do not describe a valid scene
	ErrInvalidSceneFile = errors.New("scene: invalid scene file")

	// ErrUnknownMaterial is returned when a sphere references an undefined material
	ErrUnknownMaterial = errors.New("scene: unknown material")
)

// FileDescription is the YAML layout of a scene file
type FileDescription struct {
	Name       string                         `yaml:"name"`
	Camera     CameraDescription              `yaml:"camera"`
	Background *BackgroundDescription         `yaml:"background,omitempty"`
	Materials  map[string]MaterialDescription `yaml:"materials"`
	Spheres    []SphereDescription            `yaml:"spheres"`
}

// CameraDescription mirrors geometry.CameraConfig
type CameraDescription struct {
	LookFrom      []float64 `yaml:"look_from,flow"`
	LookAt        []float64 `yaml:"look_at,flow"`
	Up            []float64 `yaml:"up,flow,omitempty"`
	VFov          float64   `yaml:"vfov"`
	AspectRatio   float64   `yaml:"aspect_ratio,omitempty"`
	Aperture      float64   `yaml:"aperture,omitempty"`
	FocusDistance float64   `yaml:"focus_distance,omitempty"`
}

// BackgroundDescription holds the sky gradient colors
type BackgroundDescription struct {
	Top    []float64 `yaml:"top,flow"`
	Bottom []float64 `yaml:"bottom,flow"`
}

// MaterialDescription describes one named material
type MaterialDescription struct {
	Type            string    `yaml:"type"`
	Albedo          []float64 `yaml:"albedo,flow,omitempty"`
	Fuzz            float64   `yaml:"fuzz,omitempty"`
	RefractiveIndex float64   `yaml:"refractive_index,omitempty"`
}

// SphereDescription places one sphere. Scale is applied before Translate.
type SphereDescription struct {
	Center    []float64 `yaml:"center,flow"`
	Radius    float64   `yaml:"radius"`
	Material  string    `yaml:"material"`
	Translate []float64 `yaml:"translate,flow,omitempty"`
	Scale     float64   `yaml:"scale,omitempty"`
}

// LoadFile reads and parses a YAML scene file
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scene description. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	var desc FileDescription
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSceneFile, err)
	}
	return desc.Build()
}

// Build converts the description into a scene
func (d *FileDescription) Build() (*Scene, error) {
	cameraConfig, err := d.Camera.config()
	if err != nil {
		return nil, err
	}

	name := d.Name
	if name == "" {
		name = "file"
	}
	s := NewScene(name, cameraConfig)

	if d.Background != nil {
		top, err := toVec3("background.top", d.Background.Top)
		if err != nil {
			return nil, err
		}
		bottom, err := toVec3("background.bottom", d.Background.Bottom)
		if err != nil {
			return nil, err
		}
		s.Background = integrator.Background{Top: top, Bottom: bottom}
	}

	materials := make(map[string]*material.Material, len(d.Materials))
	for matName, md := range d.Materials {
		mat, err := md.build(matName)
		if err != nil {
			return nil, err
		}
		materials[matName] = mat
	}

	for i, sd := range d.Spheres {
		sphere, err := sd.build(i, materials)
		if err != nil {
			return nil, err
		}
		s.World.Add(geometry.Primitive{Kind: geometry.KindSphere, Sphere: sphere})
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (c CameraDescription) config() (geometry.CameraConfig, error) {
	from, err := toVec3("camera.look_from", c.LookFrom)
	if err != nil {
		return geometry.CameraConfig{}, err
	}
	at, err := toVec3("camera.look_at", c.LookAt)
	if err != nil {
		return geometry.CameraConfig{}, err
	}
	up := core.NewVec3(0, 1, 0)
	if c.Up != nil {
		if up, err = toVec3("camera.up", c.Up); err != nil {
			return geometry.CameraConfig{}, err
		}
	}

	return geometry.CameraConfig{
		Center:        from,
		LookAt:        at,
		Up:            up,
		VFov:          c.VFov,
		AspectRatio:   c.AspectRatio,
		Aperture:      c.Aperture,
		FocusDistance: c.FocusDistance,
	}, nil
}

func (m MaterialDescription) build(name string) (*material.Material, error) {
	switch m.Type {
	case "lambertian", "metal":
		albedo, err := toVec3("materials."+name+".albedo", m.Albedo)
		if err != nil {
			return nil, err
		}
		if m.Type == "metal" {
			return material.NewMetal(albedo, m.Fuzz), nil
		}
		return material.NewLambertian(albedo), nil
	case "dielectric":
		if m.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("%w: materials.%s: refractive_index must be positive", ErrInvalidSceneFile, name)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("%w: materials.%s: unknown type %q", ErrInvalidSceneFile, name, m.Type)
	}
}

func (sd SphereDescription) build(index int, materials map[string]*material.Material) (geometry.Sphere, error) {
	field := fmt.Sprintf("spheres[%d]", index)

	center, err := toVec3(field+".center", sd.Center)
	if err != nil {
		return geometry.Sphere{}, err
	}
	mat, ok := materials[sd.Material]
	if !ok {
		return geometry.Sphere{}, fmt.Errorf("%w %q in %s", ErrUnknownMaterial, sd.Material, field)
	}

	sphere := geometry.NewSphere(center, sd.Radius, mat)
	if sd.Scale != 0 {
		sphere = sphere.Scale(sd.Scale)
	}
	if sd.Translate != nil {
		offset, err := toVec3(field+".translate", sd.Translate)
		if err != nil {
			return geometry.Sphere{}, err
		}
		sphere = sphere.Translate(offset)
	}
	return sphere, nil
}

func toVec3(field string, v []float64) (core.Vec3, error) {
	if len(v) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s must have 3 components, got %d", ErrInvalidSceneFile, field, len(v))
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

func fromVec3(v core.Vec3) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

// Describe converts a scene back into its file description. Shared
// materials keep a single entry.
func Describe(s *Scene) *FileDescription {
	cfg := s.CameraConfig
	desc := &FileDescription{
		Name: s.Name,
		Camera: CameraDescription{
			LookFrom:      fromVec3(cfg.Center),
			LookAt:        fromVec3(cfg.LookAt),
			Up:            fromVec3(cfg.Up),
			VFov:          cfg.VFov,
			AspectRatio:   cfg.AspectRatio,
			Aperture:      cfg.Aperture,
			FocusDistance: cfg.FocusDistance,
		},
		Background: &BackgroundDescription{
			Top:    fromVec3(s.Background.Top),
			Bottom: fromVec3(s.Background.Bottom),
		},
		Materials: make(map[string]MaterialDescription),
	}

	names := make(map[*material.Material]string)
	for i := range s.World.Primitives {
		p := &s.World.Primitives[i]
		mat := p.Material()
		name, ok := names[mat]
		if !ok {
			name = fmt.Sprintf("%s_%d", mat.Kind, len(names))
			names[mat] = name
			desc.Materials[name] = describeMaterial(mat)
		}
		desc.Spheres = append(desc.Spheres, SphereDescription{
			Center:   fromVec3(p.Sphere.Center),
			Radius:   p.Sphere.Radius,
			Material: name,
		})
	}
	return desc
}

func describeMaterial(m *material.Material) MaterialDescription {
	md := MaterialDescription{Type: m.Kind.String()}
	switch m.Kind {
	case material.KindLambertian:
		md.Albedo = fromVec3(m.Albedo)
	case material.KindMetal:
		md.Albedo = fromVec3(m.Albedo)
		md.Fuzz = m.Fuzz
	case material.KindDielectric:
		md.RefractiveIndex = m.RefractiveIndex
	}
	return md
}

// Marshal encodes a scene as YAML that Parse accepts
func Marshal(s *Scene) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(Describe(s)); err != nil {
		return nil, fmt.Errorf("failed to marshal scene: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal scene: %w", err)
	}
	return buf.Bytes(), nil
}
