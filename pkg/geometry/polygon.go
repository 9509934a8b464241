package geometry

import (
	"fmt"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// convexPolygon is the shared validation and hit test of Polygon and
// Triangle. It does not report GeoPoints itself so each wrapper can report
// its own identity.
type convexPolygon struct {
	vertices []core.Point
	plane    *Plane
}

// newConvexPolygon validates that the vertices are coplanar, ordered along
// the edge path, and form a convex polygon with no duplicate points and no
// vertex lying on an adjacent edge.
func newConvexPolygon(vertices []core.Point) (convexPolygon, error) {
	if len(vertices) < 3 {
		return convexPolygon{}, fmt.Errorf("%w: need at least 3 vertices, got %d", ErrInvalidPolygon, len(vertices))
	}

	plane, err := NewPlaneFromPoints(vertices[0], vertices[1], vertices[2])
	if err != nil {
		return convexPolygon{}, fmt.Errorf("%w: %w", ErrInvalidPolygon, err)
	}
	poly := convexPolygon{
		vertices: append([]core.Point(nil), vertices...),
		plane:    plane,
	}
	if len(vertices) == 3 {
		return poly, nil
	}

	n := plane.normal
	size := len(vertices)
	edge1, err := vertices[size-1].Subtract(vertices[size-2])
	if err != nil {
		return convexPolygon{}, fmt.Errorf("%w: duplicate vertices: %w", ErrInvalidPolygon, err)
	}
	edge2, err := vertices[0].Subtract(vertices[size-1])
	if err != nil {
		return convexPolygon{}, fmt.Errorf("%w: duplicate vertices: %w", ErrInvalidPolygon, err)
	}

	// The turn between the last and first edge sets the winding; every other
	// turn must agree with it for the polygon to be convex.
	turn, err := edge1.Cross(edge2)
	if err != nil {
		return convexPolygon{}, fmt.Errorf("%w: vertex on a side: %w", ErrInvalidPolygon, err)
	}
	positive := turn.Dot(n) > 0

	for i := 1; i < size; i++ {
		fromFirst, err := vertices[i].Subtract(vertices[0])
		if err != nil {
			return convexPolygon{}, fmt.Errorf("%w: duplicate vertices: %w", ErrInvalidPolygon, err)
		}
		if !core.IsZero(fromFirst.Dot(n)) {
			return convexPolygon{}, fmt.Errorf("%w: vertices are not coplanar", ErrInvalidPolygon)
		}

		edge1 = edge2
		edge2, err = vertices[i].Subtract(vertices[i-1])
		if err != nil {
			return convexPolygon{}, fmt.Errorf("%w: duplicate vertices: %w", ErrInvalidPolygon, err)
		}
		turn, err = edge1.Cross(edge2)
		if err != nil {
			return convexPolygon{}, fmt.Errorf("%w: vertex on a side: %w", ErrInvalidPolygon, err)
		}
		if positive != (turn.Dot(n) > 0) {
			return convexPolygon{}, fmt.Errorf("%w: vertices must be ordered and the polygon convex", ErrInvalidPolygon)
		}
	}
	return poly, nil
}

// hitPoint intersects the supporting plane and keeps the hit only when it
// falls strictly inside the polygon. Hits on an edge or a vertex are misses.
func (p convexPolygon) hitPoint(ray core.Ray, maxDistance float64) (core.Point, bool) {
	hit, ok := p.plane.hitPoint(ray, maxDistance)
	if !ok {
		return core.Point{}, false
	}
	for _, v := range p.vertices {
		if v == hit {
			return core.Point{}, false
		}
	}

	origin := ray.Origin()
	dir := ray.Direction()
	size := len(p.vertices)
	sign := 0.0
	for i := 0; i < size; i++ {
		vi, err := p.vertices[i].Subtract(origin)
		if err != nil {
			return core.Point{}, false
		}
		next, err := p.vertices[(i+1)%size].Subtract(origin)
		if err != nil {
			return core.Point{}, false
		}
		next, err = next.Normalize()
		if err != nil {
			return core.Point{}, false
		}
		ni, err := vi.Cross(next)
		if err != nil {
			return core.Point{}, false
		}

		dn := core.AlignZero(dir.Dot(ni))
		if dn == 0 {
			return core.Point{}, false
		}
		if i == 0 {
			sign = dn
		} else if (dn > 0) != (sign > 0) {
			return core.Point{}, false
		}
	}
	return hit, true
}

func (p convexPolygon) normal() core.Vector {
	return p.plane.normal
}

// Polygon is a convex planar polygon
type Polygon struct {
	surface
	convexPolygon
}

// NewPolygon creates a polygon from ordered, coplanar vertices forming a
// convex shape. Invalid input fails with ErrInvalidPolygon.
func NewPolygon(vertices []core.Point, opts ...Option) (*Polygon, error) {
	poly, err := newConvexPolygon(vertices)
	if err != nil {
		return nil, err
	}
	return &Polygon{surface: newSurface(opts), convexPolygon: poly}, nil
}

// Vertices returns a copy of the polygon's vertices
func (p *Polygon) Vertices() []core.Point {
	return append([]core.Point(nil), p.vertices...)
}

// Normal returns the polygon's plane normal
func (p *Polygon) Normal(core.Point) (core.Vector, error) {
	return p.normal(), nil
}

// Intersect tests the ray against the polygon
func (p *Polygon) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	hit, ok := p.hitPoint(ray, maxDistance)
	if !ok {
		return nil
	}
	return []GeoPoint{{Geometry: p, Point: hit}}
}
