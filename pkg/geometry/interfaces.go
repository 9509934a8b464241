package geometry

import (
	"errors"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// Construction errors
var (
	ErrInvalidGeometry     = errors.New("invalid geometry")
	ErrInvalidPolygon      = errors.New("invalid polygon")
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
)

// Intersectable is anything a ray can be intersected with.
// Intersect returns the hits along the ray up to maxDistance, nearest first
// for a single shape. A nil result means no hit; a non-nil result is never
// empty.
type Intersectable interface {
	Intersect(ray core.Ray, maxDistance float64) []GeoPoint
}

// Geometry is an intersectable shape with surface properties
type Geometry interface {
	Intersectable
	Normal(p core.Point) (core.Vector, error)
	Emission() core.Color
	Material() material.Material
}

// GeoPoint is a point on a specific geometry
type GeoPoint struct {
	Geometry Geometry
	Point    core.Point
}

// Equal requires the same geometry instance and the same point
func (gp GeoPoint) Equal(other GeoPoint) bool {
	return gp.Geometry == other.Geometry && gp.Point == other.Point
}

// FindGeoIntersections intersects with no distance limit
func FindGeoIntersections(i Intersectable, ray core.Ray) []GeoPoint {
	return i.Intersect(ray, math.Inf(1))
}

// FindIntersections returns just the points of an unbounded intersection
func FindIntersections(i Intersectable, ray core.Ray) []core.Point {
	gps := FindGeoIntersections(i, ray)
	if gps == nil {
		return nil
	}
	points := make([]core.Point, len(gps))
	for idx, gp := range gps {
		points[idx] = gp.Point
	}
	return points
}

// Closest returns the GeoPoint nearest to the ray origin
func Closest(ray core.Ray, gps []GeoPoint) (GeoPoint, bool) {
	if len(gps) == 0 {
		return GeoPoint{}, false
	}
	origin := ray.Origin()
	closest := gps[0]
	minDistance := origin.DistanceSquared(closest.Point)
	for _, gp := range gps[1:] {
		if d := origin.DistanceSquared(gp.Point); d < minDistance {
			minDistance = d
			closest = gp
		}
	}
	return closest, true
}

// Option configures the surface properties of a geometry
type Option func(*surface)

// WithEmission sets the color the surface emits
func WithEmission(c core.Color) Option {
	return func(s *surface) { s.emission = c }
}

// WithMaterial sets the surface material
func WithMaterial(m material.Material) Option {
	return func(s *surface) { s.material = m }
}

// surface holds the properties shared by every geometry
type surface struct {
	emission core.Color
	material material.Material
}

func newSurface(opts []Option) surface {
	var s surface
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Emission returns the emitted color
func (s *surface) Emission() core.Color { return s.emission }

// Material returns the surface material
func (s *surface) Material() material.Material { return s.material }

// withinRange reports whether a ray parameter is in front of the origin and
// not beyond maxDistance
func withinRange(t, maxDistance float64) bool {
	return t > 0 && core.AlignZero(t-maxDistance) <= 0
}
