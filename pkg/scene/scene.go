package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
)

// ErrInvalidScene is returned for scene descriptions that cannot be built
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name         string
	Background   core.Color
	Ambient      lights.AmbientLight
	Geometries   *geometry.Geometries
	Lights       []lights.LightSource
	CameraConfig CameraConfig
	RenderConfig RenderConfig
}

// CameraConfig describes how a scene wants to be viewed.
// Either FocusPoint or To/Up must be set.
type CameraConfig struct {
	Location   core.Point
	To         core.Vector // Unset when !To.IsValid()
	Up         core.Vector
	FocusPoint *core.Point
	Rotation   float64 // Degrees around the view direction

	Width    float64 // View plane size
	Height   float64
	Distance float64 // Location to view plane

	// Depth of field; disabled when Aperture is 0
	Aperture    float64
	FocalLength float64 // 0 means distance to FocusPoint
	Samples     int
}

// RenderConfig contains the output and tracing settings
type RenderConfig struct {
	Width            int     // Image width in pixels
	Height           int     // Image height in pixels
	Threads          int     // Worker count; <= 0 uses every CPU
	MaxLevel         int     // Recursion depth for reflection and refraction
	MinK             float64 // Smallest contribution worth tracing
	ProgressInterval float64 // Percent between progress log lines; 0 disables
}

// DefaultRenderConfig returns the settings scenes start from
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:            500,
		Height:           500,
		MaxLevel:         10,
		MinK:             0.001,
		ProgressInterval: 10,
	}
}

// NewScene creates an empty scene with a black background and no ambient light
func NewScene(name string) *Scene {
	return &Scene{
		Name:         name,
		Background:   core.Black,
		Ambient:      lights.NoAmbient,
		Geometries:   geometry.NewGeometries(),
		RenderConfig: DefaultRenderConfig(),
	}
}

// Add appends geometries to the scene
func (s *Scene) Add(children ...geometry.Intersectable) {
	s.Geometries.Add(children...)
}

// AddLight appends light sources; lights are shaded in insertion order
func (s *Scene) AddLight(ls ...lights.LightSource) {
	s.Lights = append(s.Lights, ls...)
}

// PrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) PrimitiveCount() int {
	return countPrimitives(s.Geometries)
}

// countPrimitives counts primitives in a single intersectable, handling composites
func countPrimitives(i geometry.Intersectable) int {
	switch obj := i.(type) {
	case *geometry.TriangleMesh:
		return obj.TriangleCount()
	case *geometry.Geometries:
		count := 0
		for _, child := range obj.Children() {
			count += countPrimitives(child)
		}
		return count
	default:
		return 1
	}
}

// Validate checks that the scene can be rendered
func (s *Scene) Validate() error {
	if s.Geometries == nil {
		return fmt.Errorf("%w: %q has no geometry container", ErrInvalidScene, s.Name)
	}
	rc := s.RenderConfig
	if rc.Width <= 0 || rc.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidScene, rc.Width, rc.Height)
	}
	if rc.MaxLevel < 1 {
		return fmt.Errorf("%w: max level must be at least 1, got %d", ErrInvalidScene, rc.MaxLevel)
	}
	if rc.MinK <= 0 || rc.MinK >= 1 {
		return fmt.Errorf("%w: min k must be in (0, 1), got %g", ErrInvalidScene, rc.MinK)
	}
	return nil
}
