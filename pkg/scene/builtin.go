package scene

import (
	"fmt"
	"sort"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
)

// Named colors used by the built-in scenes
var (
	white = core.NewColor(255, 255, 255)
	red   = core.NewColor(255, 0, 0)
	blue  = core.NewColor(0, 0, 255)
)

// BuiltinScene describes a scene constructed in code
type BuiltinScene struct {
	ID          string
	Name        string
	Description string
	New         func() (*Scene, error)
}

var builtins = map[string]BuiltinScene{
	"red-sphere": {
		ID:          "red-sphere",
		Name:        "Red Sphere",
		Description: "Diffuse red sphere under a directional light",
		New:         NewRedSphereScene,
	},
	"two-spheres": {
		ID:          "two-spheres",
		Name:        "Two Spheres",
		Description: "Transparent sphere around an opaque one, lit by a spot light",
		New:         NewTwoSpheresScene,
	},
	"mirrors": {
		ID:          "mirrors",
		Name:        "Spheres on Mirrors",
		Description: "Nested spheres reflected in two triangular mirrors",
		New:         NewMirrorsScene,
	},
	"transparent-shadow": {
		ID:          "transparent-shadow",
		Name:        "Transparent Shadow",
		Description: "Partially transparent sphere casting a partial shadow on two triangles",
		New:         NewTransparentShadowScene,
	},
	"reflection-shadow": {
		ID:          "reflection-shadow",
		Name:        "Reflection and Shadow",
		Description: "Transparent reflective sphere, a mirror triangle and nested spheres",
		New:         NewReflectionShadowScene,
	},
	"triangle-mesh": {
		ID:          "triangle-mesh",
		Name:        "Triangle Meshes",
		Description: "Box, pyramid and icosahedron meshes on a ground plane",
		New:         NewTriangleMeshScene,
	},
}

// Builtins returns the built-in scenes sorted by ID
func Builtins() []BuiltinScene {
	list := make([]BuiltinScene, 0, len(builtins))
	for _, b := range builtins {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// NewBuiltin constructs the built-in scene with the given ID
func NewBuiltin(id string) (*Scene, error) {
	b, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown built-in scene %q", ErrInvalidScene, id)
	}
	return b.New()
}

// collector adds constructor results to a scene, keeping the first error
type collector struct {
	scene *Scene
	err   error
}

func (c *collector) add(g geometry.Intersectable, err error) {
	if c.err != nil {
		return
	}
	if err != nil {
		c.err = err
		return
	}
	c.scene.Add(g)
}

func (c *collector) light(l lights.LightSource, err error) {
	if c.err != nil {
		return
	}
	if err != nil {
		c.err = err
		return
	}
	c.scene.AddLight(l)
}

func (c *collector) result() (*Scene, error) {
	if c.err != nil {
		return nil, fmt.Errorf("building scene %q: %w", c.scene.Name, c.err)
	}
	return c.scene, nil
}

// frontCamera looks down -z from (0, 0, distance) at a square view plane
func frontCamera(distance, size float64) CameraConfig {
	return CameraConfig{
		Location: core.NewPoint(0, 0, distance),
		To:       core.MustVector(0, 0, -1),
		Up:       core.AxisY,
		Width:    size,
		Height:   size,
		Distance: distance,
	}
}
