package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// ErrInvalidTracer is returned for unusable tracer settings
var ErrInvalidTracer = errors.New("invalid tracer configuration")

// Tracer computes the color seen along rays
type Tracer interface {
	TraceRay(ray core.Ray) (core.Color, error)
	TraceRays(rays []core.Ray) (core.Color, error)
}

// TracerConfig bounds the recursion of a Raytracer
type TracerConfig struct {
	MaxLevel int     // Maximum recursion depth, 1 means local effects only
	MinK     float64 // Attenuation below which a contribution is ignored
}

// DefaultTracerConfig returns the standard recursion limits
func DefaultTracerConfig() TracerConfig {
	return TracerConfig{
		MaxLevel: 10,
		MinK:     0.001,
	}
}

// Validate checks that the limits can terminate a trace
func (c TracerConfig) Validate() error {
	if c.MaxLevel < 1 {
		return fmt.Errorf("%w: max level %d must be at least 1", ErrInvalidTracer, c.MaxLevel)
	}
	if c.MinK <= 0 || c.MinK >= 1 {
		return fmt.Errorf("%w: min k %g must be in (0, 1)", ErrInvalidTracer, c.MinK)
	}
	return nil
}

// Raytracer is a recursive Phong ray tracer. It only reads the scene, so a
// single instance can be shared by every render worker.
type Raytracer struct {
	scene  *scene.Scene
	config TracerConfig
}

// NewRaytracer creates a ray tracer for the scene
func NewRaytracer(s *scene.Scene, config TracerConfig) (*Raytracer, error) {
	if s == nil || s.Geometries == nil {
		return nil, fmt.Errorf("%w: scene has no geometry container", ErrInvalidTracer)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Raytracer{scene: s, config: config}, nil
}

// NewRaytracerFromScene creates a ray tracer using the scene's render settings
func NewRaytracerFromScene(s *scene.Scene) (*Raytracer, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrInvalidTracer)
	}
	return NewRaytracer(s, TracerConfig{
		MaxLevel: s.RenderConfig.MaxLevel,
		MinK:     s.RenderConfig.MinK,
	})
}

// Config returns the recursion limits
func (rt *Raytracer) Config() TracerConfig { return rt.config }

// Scene returns the traced scene
func (rt *Raytracer) Scene() *scene.Scene { return rt.scene }

// TraceRay returns the color seen along the ray, or the background on a miss
func (rt *Raytracer) TraceRay(ray core.Ray) (core.Color, error) {
	gp, ok := rt.closest(ray)
	if !ok {
		return rt.scene.Background, nil
	}
	color, err := rt.calcColor(gp, ray, rt.config.MaxLevel, core.One3)
	if err != nil {
		return core.Black, err
	}
	return rt.scene.Ambient.Intensity().Add(color), nil
}

// TraceRays returns the mean color of the rays
func (rt *Raytracer) TraceRays(rays []core.Ray) (core.Color, error) {
	if len(rays) == 0 {
		return core.Black, fmt.Errorf("%w: no rays to trace", ErrInvalidTracer)
	}
	var sum core.Color
	for _, ray := range rays {
		c, err := rt.TraceRay(ray)
		if err != nil {
			return core.Black, err
		}
		sum = sum.Add(c)
	}
	return sum.Reduce(len(rays)), nil
}

func (rt *Raytracer) closest(ray core.Ray) (geometry.GeoPoint, bool) {
	return geometry.Closest(ray, geometry.FindGeoIntersections(rt.scene.Geometries, ray))
}

// calcColor combines local lighting with reflection and refraction while
// recursion levels remain
func (rt *Raytracer) calcColor(gp geometry.GeoPoint, ray core.Ray, level int, k core.Double3) (core.Color, error) {
	n, err := gp.Geometry.Normal(gp.Point)
	if err != nil {
		return core.Black, fmt.Errorf("normal at %v: %w", gp.Point, err)
	}
	v := ray.Direction()

	color := rt.localEffects(gp, v, n, k)
	if level == 1 {
		return color, nil
	}

	global, err := rt.globalEffects(gp, v, n, level, k)
	if err != nil {
		return core.Black, err
	}
	return color.Add(global), nil
}

func (rt *Raytracer) localEffects(gp geometry.GeoPoint, v, n core.Vector, k core.Double3) core.Color {
	color := gp.Geometry.Emission()
	nv := core.AlignZero(n.Dot(v))
	if nv == 0 {
		return color
	}

	mat := gp.Geometry.Material()
	for _, light := range rt.scene.Lights {
		l, err := light.Direction(gp.Point)
		if err != nil {
			// The point sits on the light itself
			continue
		}
		nl := core.AlignZero(n.Dot(l))
		if nl*nv <= 0 {
			continue
		}

		ktr := rt.transparency(gp, light, l, n)
		if ktr.Product(k).LowerThan(rt.config.MinK) {
			continue
		}

		iL := light.Intensity(gp.Point).ScaleBy(ktr)
		color = color.Add(
			iL.ScaleBy(diffusive(mat, nl)),
			iL.ScaleBy(specular(mat, n, l, nl, v)),
		)
	}
	return color
}

func diffusive(mat material.Material, nl float64) core.Double3 {
	return mat.Kd.Scale(math.Abs(nl))
}

func specular(mat material.Material, n, l core.Vector, nl float64, v core.Vector) core.Double3 {
	r, err := l.Reflect(n)
	if err != nil {
		return core.Zero3
	}
	minusVR := -core.AlignZero(r.Dot(v))
	if minusVR <= 0 {
		return core.Zero3
	}
	return mat.Ks.Scale(math.Pow(minusVR, float64(mat.Shininess)))
}

// transparency returns how much of the light reaches the point through
// the geometries between them: One3 when unobstructed, Zero3 when opaque
func (rt *Raytracer) transparency(gp geometry.GeoPoint, light lights.LightSource, l, n core.Vector) core.Double3 {
	lightRay, err := core.NewOffsetRay(gp.Point, l.Negate(), n)
	if err != nil {
		return core.Zero3
	}

	hits := rt.scene.Geometries.Intersect(lightRay, light.Distance(gp.Point))
	ktr := core.One3
	for _, hit := range hits {
		ktr = ktr.Product(hit.Geometry.Material().Kt)
		if ktr.LowerThan(rt.config.MinK) {
			return core.Zero3
		}
	}
	return ktr
}

func (rt *Raytracer) globalEffects(gp geometry.GeoPoint, v, n core.Vector, level int, k core.Double3) (core.Color, error) {
	mat := gp.Geometry.Material()
	var color core.Color

	if kkr := k.Product(mat.Kr); !kkr.LowerThan(rt.config.MinK) {
		reflected, err := v.Reflect(n)
		if err != nil {
			return core.Black, fmt.Errorf("reflected ray: %w", err)
		}
		ray, err := core.NewOffsetRay(gp.Point, reflected, n)
		if err != nil {
			return core.Black, fmt.Errorf("reflected ray: %w", err)
		}
		c, err := rt.globalEffect(ray, level, mat.Kr, kkr)
		if err != nil {
			return core.Black, err
		}
		color = color.Add(c)
	}

	if kkt := k.Product(mat.Kt); !kkt.LowerThan(rt.config.MinK) {
		ray, err := core.NewOffsetRay(gp.Point, v, n)
		if err != nil {
			return core.Black, fmt.Errorf("refracted ray: %w", err)
		}
		c, err := rt.globalEffect(ray, level, mat.Kt, kkt)
		if err != nil {
			return core.Black, err
		}
		color = color.Add(c)
	}

	return color, nil
}

func (rt *Raytracer) globalEffect(ray core.Ray, level int, kx, kkx core.Double3) (core.Color, error) {
	gp, ok := rt.closest(ray)
	if !ok {
		return rt.scene.Background.ScaleBy(kx), nil
	}
	c, err := rt.calcColor(gp, ray, level-1, kkx)
	if err != nil {
		return core.Black, err
	}
	return c.ScaleBy(kx), nil
}
