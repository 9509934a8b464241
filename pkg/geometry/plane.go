package geometry

import (
	"fmt"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Plane represents an infinite plane through a point with a unit normal
type Plane struct {
	surface
	q      core.Point
	normal core.Vector
}

// NewPlane creates a plane from a point and a normal; the normal is normalized
func NewPlane(q core.Point, normal core.Vector, opts ...Option) (*Plane, error) {
	n, err := normal.Normalize()
	if err != nil {
		return nil, fmt.Errorf("plane normal: %w", err)
	}
	return &Plane{surface: newSurface(opts), q: q, normal: n}, nil
}

// NewPlaneFromPoints creates the plane through three points.
// Coincident or collinear points fail with ErrZeroVector.
func NewPlaneFromPoints(p1, p2, p3 core.Point, opts ...Option) (*Plane, error) {
	v1, err := p1.Subtract(p2)
	if err != nil {
		return nil, fmt.Errorf("plane points: %w", err)
	}
	v2, err := p1.Subtract(p3)
	if err != nil {
		return nil, fmt.Errorf("plane points: %w", err)
	}
	cross, err := v1.Cross(v2)
	if err != nil {
		return nil, fmt.Errorf("plane points are collinear: %w", err)
	}
	return NewPlane(p1, cross, opts...)
}

// Point returns the reference point of the plane
func (p *Plane) Point() core.Point { return p.q }

// PlaneNormal returns the plane's unit normal
func (p *Plane) PlaneNormal() core.Vector { return p.normal }

// Normal returns the plane normal, which is the same everywhere
func (p *Plane) Normal(core.Point) (core.Vector, error) {
	return p.normal, nil
}

// Intersect tests the ray against the plane
func (p *Plane) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	hit, ok := p.hitPoint(ray, maxDistance)
	if !ok {
		return nil
	}
	return []GeoPoint{{Geometry: p, Point: hit}}
}

// hitPoint computes the single plane crossing. Rays starting on the plane or
// running parallel to it never hit.
func (p *Plane) hitPoint(ray core.Ray, maxDistance float64) (core.Point, bool) {
	origin := ray.Origin()
	if origin == p.q {
		return core.Point{}, false
	}

	nv := p.normal.Dot(ray.Direction())
	if core.IsZero(nv) {
		return core.Point{}, false
	}

	qo, err := p.q.Subtract(origin)
	if err != nil {
		return core.Point{}, false
	}
	nqo := core.AlignZero(p.normal.Dot(qo))
	if nqo == 0 {
		return core.Point{}, false
	}

	t := core.AlignZero(nqo / nv)
	if !withinRange(t, maxDistance) {
		return core.Point{}, false
	}
	return ray.PointAt(t), true
}
