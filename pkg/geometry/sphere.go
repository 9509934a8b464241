package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	surface
	Center core.Point
	Radius float64
}

// NewSphere creates a new sphere; the radius must be positive
func NewSphere(center core.Point, radius float64, opts ...Option) (*Sphere, error) {
	if radius <= 0 || core.IsZero(radius) {
		return nil, fmt.Errorf("%w: sphere radius must be positive, got %g", ErrInvalidGeometry, radius)
	}
	return &Sphere{surface: newSurface(opts), Center: center, Radius: radius}, nil
}

// Normal returns the outward unit normal at p
func (s *Sphere) Normal(p core.Point) (core.Vector, error) {
	v, err := p.Subtract(s.Center)
	if err != nil {
		return core.Vector{}, fmt.Errorf("sphere normal at center: %w", err)
	}
	return v.Normalize()
}

// Intersect tests the ray against the sphere, nearest hit first
func (s *Sphere) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	origin := ray.Origin()
	if origin == s.Center {
		if !withinRange(s.Radius, maxDistance) {
			return nil
		}
		return []GeoPoint{{Geometry: s, Point: ray.PointAt(s.Radius)}}
	}

	u, err := s.Center.Subtract(origin)
	if err != nil {
		return nil
	}
	tm := core.AlignZero(ray.Direction().Dot(u))
	d := core.AlignZero(math.Sqrt(max(0, u.LengthSquared()-tm*tm)))
	if d >= s.Radius {
		return nil
	}

	th := core.AlignZero(math.Sqrt(s.Radius*s.Radius - d*d))
	var hits []GeoPoint
	for _, t := range [2]float64{core.AlignZero(tm - th), core.AlignZero(tm + th)} {
		if withinRange(t, maxDistance) {
			hits = append(hits, GeoPoint{Geometry: s, Point: ray.PointAt(t)})
		}
	}
	return hits
}
