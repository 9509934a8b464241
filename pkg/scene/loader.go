package scene

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/loaders"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// SceneFile is the YAML description of a scene
type SceneFile struct {
	Name       string                   `yaml:"name"`
	Background []float64                `yaml:"background,omitempty"`
	Ambient    *AmbientSpec             `yaml:"ambient,omitempty"`
	Camera     CameraSpec               `yaml:"camera"`
	Render     *RenderSpec              `yaml:"render,omitempty"`
	Materials  map[string]*MaterialSpec `yaml:"materials,omitempty"`
	Geometries []GeometrySpec           `yaml:"geometries"`
	Lights     []LightSpec              `yaml:"lights,omitempty"`
}

// AmbientSpec is the ambient light block
type AmbientSpec struct {
	Color []float64 `yaml:"color"`
	Ka    Coeff     `yaml:"ka"`
}

// CameraSpec is the camera block; either focus_point or to/up is required
type CameraSpec struct {
	Location    []float64 `yaml:"location"`
	To          []float64 `yaml:"to,omitempty"`
	Up          []float64 `yaml:"up,omitempty"`
	FocusPoint  []float64 `yaml:"focus_point,omitempty"`
	Rotation    float64   `yaml:"rotation,omitempty"`
	Width       float64   `yaml:"width"`
	Height      float64   `yaml:"height"`
	Distance    float64   `yaml:"distance"`
	Aperture    float64   `yaml:"aperture,omitempty"`
	FocalLength float64   `yaml:"focal_length,omitempty"`
	Samples     int       `yaml:"samples,omitempty"`
}

// RenderSpec overrides the default render configuration; zero fields keep
// their defaults
type RenderSpec struct {
	Width            int     `yaml:"width,omitempty"`
	Height           int     `yaml:"height,omitempty"`
	Threads          int     `yaml:"threads,omitempty"`
	MaxLevel         int     `yaml:"max_level,omitempty"`
	MinK             float64 `yaml:"min_k,omitempty"`
	ProgressInterval float64 `yaml:"progress_interval,omitempty"`
}

// MaterialSpec holds Phong coefficients; each may be a scalar or an RGB list
type MaterialSpec struct {
	Kd        Coeff `yaml:"kd,omitempty"`
	Ks        Coeff `yaml:"ks,omitempty"`
	Kt        Coeff `yaml:"kt,omitempty"`
	Kr        Coeff `yaml:"kr,omitempty"`
	Shininess int   `yaml:"shininess,omitempty"`
}

// MaterialRef is either the name of an entry in the materials table or an
// inline material
type MaterialRef struct {
	Name   string
	Inline *MaterialSpec
}

// UnmarshalYAML accepts a material name or an inline mapping
func (m *MaterialRef) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		m.Name = name
		return nil
	}
	var inline MaterialSpec
	if err := unmarshal(&inline); err != nil {
		return err
	}
	m.Inline = &inline
	return nil
}

// MarshalYAML writes the name when set, otherwise the inline mapping
func (m MaterialRef) MarshalYAML() (interface{}, error) {
	if m.Name != "" {
		return m.Name, nil
	}
	return m.Inline, nil
}

// Coeff is a per-channel coefficient written as a scalar or a 3-element list
type Coeff struct {
	core.Double3
	Set bool
}

// UnmarshalYAML accepts either 0.5 or [0.5, 0, 0.4]
func (c *Coeff) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var k float64
	if err := unmarshal(&k); err == nil {
		*c = Coeff{Double3: core.Uniform(k), Set: true}
		return nil
	}
	var list []float64
	if err := unmarshal(&list); err != nil {
		return err
	}
	if len(list) != 3 {
		return fmt.Errorf("coefficient needs 1 or 3 values, got %d", len(list))
	}
	*c = Coeff{Double3: core.NewDouble3(list[0], list[1], list[2]), Set: true}
	return nil
}

// MarshalYAML writes uniform coefficients as a scalar
func (c Coeff) MarshalYAML() (interface{}, error) {
	if c.R == c.G && c.G == c.B {
		return c.R, nil
	}
	return []float64{c.R, c.G, c.B}, nil
}

// IsZero lets omitempty drop unset coefficients
func (c Coeff) IsZero() bool {
	return !c.Set
}

// GeometrySpec describes one geometry; which fields apply depends on Type
type GeometrySpec struct {
	Type     string       `yaml:"type"`
	Emission []float64    `yaml:"emission,omitempty"`
	Material *MaterialRef `yaml:"material,omitempty"`

	// sphere
	Center []float64 `yaml:"center,omitempty"`
	Radius float64   `yaml:"radius,omitempty"`

	// plane: point and normal, or three points
	Point  []float64   `yaml:"point,omitempty"`
	Normal []float64   `yaml:"normal,omitempty"`
	Points [][]float64 `yaml:"points,omitempty"`

	// cylinder and tube
	Origin    []float64 `yaml:"origin,omitempty"`
	Direction []float64 `yaml:"direction,omitempty"`
	Height    float64   `yaml:"height,omitempty"`

	// mesh
	File     string    `yaml:"file,omitempty"`
	Rotation []float64 `yaml:"rotation,omitempty"` // Degrees around X, Y, Z
	Scale    float64   `yaml:"scale,omitempty"`
	Offset   []float64 `yaml:"offset,omitempty"`
}

// LightSpec describes one light source
type LightSpec struct {
	Type       string    `yaml:"type"`
	Color      []float64 `yaml:"color"`
	Direction  []float64 `yaml:"direction,omitempty"`
	Position   []float64 `yaml:"position,omitempty"`
	Kc         *float64  `yaml:"kc,omitempty"`
	Kl         float64   `yaml:"kl,omitempty"`
	Kq         float64   `yaml:"kq,omitempty"`
	NarrowBeam float64   `yaml:"narrow_beam,omitempty"`
}

// LoadSceneFile reads and builds a YAML scene. Mesh files are resolved
// relative to the scene file's directory.
func LoadSceneFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	sf, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s, err := sf.Build(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSceneFile decodes YAML scene data without building it
func ParseSceneFile(data []byte) (*SceneFile, error) {
	var sf SceneFile
	if err := yaml.UnmarshalStrict(data, &sf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	return &sf, nil
}

// SaveSceneFile writes the description as YAML
func SaveSceneFile(sf *SceneFile, path string) error {
	data, err := yaml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("error serializing scene: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing scene file: %v", err)
	}
	return nil
}

// Build constructs the scene. baseDir resolves relative mesh paths.
func (sf *SceneFile) Build(baseDir string) (*Scene, error) {
	if sf.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidScene)
	}
	s := NewScene(sf.Name)

	var err error
	if sf.Background != nil {
		if s.Background, err = toColor(sf.Background); err != nil {
			return nil, fmt.Errorf("%w: background: %v", ErrInvalidScene, err)
		}
	}
	if sf.Ambient != nil {
		ia, err := toColor(sf.Ambient.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: ambient: %v", ErrInvalidScene, err)
		}
		s.Ambient = lights.NewAmbientLight(ia, sf.Ambient.Ka.Double3)
	}

	if s.CameraConfig, err = sf.Camera.toConfig(); err != nil {
		return nil, fmt.Errorf("%w: camera: %w", ErrInvalidScene, err)
	}
	if sf.Render != nil {
		sf.Render.apply(&s.RenderConfig)
	}

	materials := make(map[string]material.Material, len(sf.Materials))
	for name, spec := range sf.Materials {
		m := spec.toMaterial()
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("%w: material %q: %w", ErrInvalidScene, name, err)
		}
		materials[name] = m
	}

	for i, spec := range sf.Geometries {
		g, err := spec.build(materials, baseDir)
		if err != nil {
			return nil, fmt.Errorf("%w: geometry %d (%s): %w", ErrInvalidScene, i, spec.Type, err)
		}
		s.Add(g)
	}

	for i, spec := range sf.Lights {
		l, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("%w: light %d (%s): %w", ErrInvalidScene, i, spec.Type, err)
		}
		s.AddLight(l)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (c CameraSpec) toConfig() (CameraConfig, error) {
	cfg := CameraConfig{
		Rotation:    c.Rotation,
		Width:       c.Width,
		Height:      c.Height,
		Distance:    c.Distance,
		Aperture:    c.Aperture,
		FocalLength: c.FocalLength,
		Samples:     c.Samples,
	}

	var err error
	if cfg.Location, err = toPoint(c.Location); err != nil {
		return cfg, fmt.Errorf("location: %v", err)
	}
	if c.FocusPoint != nil {
		p, err := toPoint(c.FocusPoint)
		if err != nil {
			return cfg, fmt.Errorf("focus_point: %v", err)
		}
		cfg.FocusPoint = &p
	}
	if c.To != nil || c.Up != nil {
		if cfg.To, err = toVector(c.To); err != nil {
			return cfg, fmt.Errorf("to: %w", err)
		}
		if cfg.Up, err = toVector(c.Up); err != nil {
			return cfg, fmt.Errorf("up: %w", err)
		}
	}
	if cfg.FocusPoint == nil && !cfg.To.IsValid() {
		return cfg, fmt.Errorf("either focus_point or to/up is required")
	}
	return cfg, nil
}

func (r *RenderSpec) apply(rc *RenderConfig) {
	if r.Width > 0 {
		rc.Width = r.Width
	}
	if r.Height > 0 {
		rc.Height = r.Height
	}
	if r.Threads != 0 {
		rc.Threads = r.Threads
	}
	if r.MaxLevel > 0 {
		rc.MaxLevel = r.MaxLevel
	}
	if r.MinK > 0 {
		rc.MinK = r.MinK
	}
	if r.ProgressInterval > 0 {
		rc.ProgressInterval = r.ProgressInterval
	}
}

func (m *MaterialSpec) toMaterial() material.Material {
	return material.Material{
		Kd:        m.Kd.Double3,
		Ks:        m.Ks.Double3,
		Kt:        m.Kt.Double3,
		Kr:        m.Kr.Double3,
		Shininess: m.Shininess,
	}
}

func (g GeometrySpec) options(materials map[string]material.Material) ([]geometry.Option, error) {
	var opts []geometry.Option
	if g.Emission != nil {
		c, err := toColor(g.Emission)
		if err != nil {
			return nil, fmt.Errorf("emission: %v", err)
		}
		opts = append(opts, geometry.WithEmission(c))
	}
	if g.Material != nil {
		var m material.Material
		switch {
		case g.Material.Name != "":
			named, ok := materials[g.Material.Name]
			if !ok {
				return nil, fmt.Errorf("unknown material %q", g.Material.Name)
			}
			m = named
		case g.Material.Inline != nil:
			m = g.Material.Inline.toMaterial()
			if err := m.Validate(); err != nil {
				return nil, err
			}
		}
		opts = append(opts, geometry.WithMaterial(m))
	}
	return opts, nil
}

func (g GeometrySpec) build(materials map[string]material.Material, baseDir string) (geometry.Intersectable, error) {
	opts, err := g.options(materials)
	if err != nil {
		return nil, err
	}

	switch g.Type {
	case "sphere":
		center, err := toPoint(g.Center)
		if err != nil {
			return nil, fmt.Errorf("center: %v", err)
		}
		return geometry.NewSphere(center, g.Radius, opts...)

	case "plane":
		if g.Points != nil {
			pts, err := toPoints(g.Points)
			if err != nil {
				return nil, err
			}
			if len(pts) != 3 {
				return nil, fmt.Errorf("plane needs exactly 3 points, got %d", len(pts))
			}
			return geometry.NewPlaneFromPoints(pts[0], pts[1], pts[2], opts...)
		}
		q, err := toPoint(g.Point)
		if err != nil {
			return nil, fmt.Errorf("point: %v", err)
		}
		n, err := toVector(g.Normal)
		if err != nil {
			return nil, fmt.Errorf("normal: %w", err)
		}
		return geometry.NewPlane(q, n, opts...)

	case "triangle":
		pts, err := toPoints(g.Points)
		if err != nil {
			return nil, err
		}
		if len(pts) != 3 {
			return nil, fmt.Errorf("triangle needs exactly 3 points, got %d", len(pts))
		}
		return geometry.NewTriangle(pts[0], pts[1], pts[2], opts...)

	case "polygon":
		pts, err := toPoints(g.Points)
		if err != nil {
			return nil, err
		}
		return geometry.NewPolygon(pts, opts...)

	case "cylinder":
		axis, err := toAxis(g.Origin, g.Direction)
		if err != nil {
			return nil, err
		}
		return geometry.NewCylinder(axis, g.Radius, g.Height, opts...)

	case "tube":
		return nil, fmt.Errorf("%w: infinite tubes cannot be intersected", geometry.ErrUnsupportedGeometry)

	case "mesh":
		return g.buildMesh(baseDir, opts)

	default:
		return nil, fmt.Errorf("%w: unknown geometry type %q", geometry.ErrUnsupportedGeometry, g.Type)
	}
}

func (g GeometrySpec) buildMesh(baseDir string, opts []geometry.Option) (geometry.Intersectable, error) {
	if g.File == "" {
		return nil, fmt.Errorf("mesh needs a file")
	}
	path := g.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := loaders.LoadPLY(path)
	if err != nil {
		return nil, err
	}

	options := &geometry.TriangleMeshOptions{Scale: g.Scale}
	if g.Center != nil {
		c, err := toPoint(g.Center)
		if err != nil {
			return nil, fmt.Errorf("center: %v", err)
		}
		options.Center = &c
	}
	if g.Rotation != nil {
		r, err := toPoint(g.Rotation)
		if err != nil {
			return nil, fmt.Errorf("rotation: %v", err)
		}
		rad := core.NewPoint(r.X*math.Pi/180, r.Y*math.Pi/180, r.Z*math.Pi/180)
		options.Rotation = &rad
	}
	if g.Offset != nil {
		o, err := toPoint(g.Offset)
		if err != nil {
			return nil, fmt.Errorf("offset: %v", err)
		}
		options.Offset = &o
	}
	return geometry.NewTriangleMesh(data.Vertices, data.Faces, options, opts...)
}

func (l LightSpec) build() (lights.LightSource, error) {
	intensity, err := toColor(l.Color)
	if err != nil {
		return nil, fmt.Errorf("color: %v", err)
	}
	kc := 1.0
	if l.Kc != nil {
		kc = *l.Kc
	}

	switch l.Type {
	case "directional":
		dir, err := toVector(l.Direction)
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		return lights.NewDirectionalLight(intensity, dir)

	case "point":
		pos, err := toPoint(l.Position)
		if err != nil {
			return nil, fmt.Errorf("position: %v", err)
		}
		return lights.NewPointLight(intensity, pos, lights.WithAttenuation(kc, l.Kl, l.Kq))

	case "spot":
		pos, err := toPoint(l.Position)
		if err != nil {
			return nil, fmt.Errorf("position: %v", err)
		}
		dir, err := toVector(l.Direction)
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		opts := []lights.SpotOption{lights.WithSpotAttenuation(kc, l.Kl, l.Kq)}
		if l.NarrowBeam != 0 {
			opts = append(opts, lights.WithNarrowBeam(l.NarrowBeam))
		}
		return lights.NewSpotLight(intensity, pos, dir, opts...)

	default:
		return nil, fmt.Errorf("unknown light type %q", l.Type)
	}
}

func toTriple(v []float64) (x, y, z float64, err error) {
	if len(v) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 values, got %d", len(v))
	}
	return v[0], v[1], v[2], nil
}

func toPoint(v []float64) (core.Point, error) {
	x, y, z, err := toTriple(v)
	return core.NewPoint(x, y, z), err
}

func toPoints(list [][]float64) ([]core.Point, error) {
	pts := make([]core.Point, len(list))
	for i, v := range list {
		p, err := toPoint(v)
		if err != nil {
			return nil, fmt.Errorf("point %d: %v", i, err)
		}
		pts[i] = p
	}
	return pts, nil
}

func toVector(v []float64) (core.Vector, error) {
	x, y, z, err := toTriple(v)
	if err != nil {
		return core.Vector{}, err
	}
	return core.NewVector(x, y, z)
}

func toColor(v []float64) (core.Color, error) {
	r, g, b, err := toTriple(v)
	return core.NewColor(r, g, b), err
}

func toAxis(origin, direction []float64) (core.Ray, error) {
	o, err := toPoint(origin)
	if err != nil {
		return core.Ray{}, fmt.Errorf("origin: %v", err)
	}
	d, err := toVector(direction)
	if err != nil {
		return core.Ray{}, fmt.Errorf("direction: %w", err)
	}
	return core.NewRay(o, d)
}
