package geometry

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Triangle is a three-vertex polygon
type Triangle struct {
	surface
	convexPolygon
}

// NewTriangle creates a new triangle. Coincident or collinear vertices fail
// with ErrInvalidPolygon.
func NewTriangle(v0, v1, v2 core.Point, opts ...Option) (*Triangle, error) {
	poly, err := newConvexPolygon([]core.Point{v0, v1, v2})
	if err != nil {
		return nil, err
	}
	return &Triangle{surface: newSurface(opts), convexPolygon: poly}, nil
}

// Vertices returns the three vertices in order
func (t *Triangle) Vertices() (core.Point, core.Point, core.Point) {
	return t.vertices[0], t.vertices[1], t.vertices[2]
}

// Normal returns the triangle's plane normal
func (t *Triangle) Normal(core.Point) (core.Vector, error) {
	return t.normal(), nil
}

// Intersect tests the ray against the triangle
func (t *Triangle) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	hit, ok := t.hitPoint(ray, maxDistance)
	if !ok {
		return nil
	}
	return []GeoPoint{{Geometry: t, Point: hit}}
}
