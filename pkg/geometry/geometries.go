package geometry

import "github.com/df07/go-recursive-raytracer/pkg/core"

// Geometries is a composite of intersectables scanned linearly
type Geometries struct {
	children []Intersectable
}

// NewGeometries creates a composite holding the given children
func NewGeometries(children ...Intersectable) *Geometries {
	g := &Geometries{}
	g.Add(children...)
	return g
}

// Add appends children to the composite
func (g *Geometries) Add(children ...Intersectable) {
	g.children = append(g.children, children...)
}

// Len returns the number of direct children
func (g *Geometries) Len() int {
	return len(g.children)
}

// Children returns the direct children
func (g *Geometries) Children() []Intersectable {
	return g.children
}

// Intersect concatenates the hits of every child. The result is nil only
// when no child was hit, and is not sorted across children.
func (g *Geometries) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	var hits []GeoPoint
	for _, child := range g.children {
		if childHits := child.Intersect(ray, maxDistance); childHits != nil {
			hits = append(hits, childHits...)
		}
	}
	return hits
}
