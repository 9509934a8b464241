package geometry

import (
	"fmt"
	"math"
	"slices"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Cylinder is a finite, capped cylinder: a tube cut to a height along its
// axis, starting at the axis origin
type Cylinder struct {
	surface
	Axis   core.Ray
	Radius float64
	Height float64

	// Cached derived values
	top core.Point // Center of the top cap
}

// NewCylinder creates a new cylinder; radius and height must be positive
func NewCylinder(axis core.Ray, radius, height float64, opts ...Option) (*Cylinder, error) {
	if radius <= 0 || core.IsZero(radius) {
		return nil, fmt.Errorf("%w: cylinder radius must be positive, got %g", ErrInvalidGeometry, radius)
	}
	if height <= 0 || core.IsZero(height) {
		return nil, fmt.Errorf("%w: cylinder height must be positive, got %g", ErrInvalidGeometry, height)
	}
	return &Cylinder{
		surface: newSurface(opts),
		Axis:    axis,
		Radius:  radius,
		Height:  height,
		top:     axis.PointAt(height),
	}, nil
}

// Normal returns -axis on the base cap, +axis on the top cap and the radial
// direction on the side
func (c *Cylinder) Normal(p core.Point) (core.Vector, error) {
	dir := c.Axis.Direction()
	if onCap(p, c.Axis.Origin(), dir) {
		return dir.Negate(), nil
	}
	if onCap(p, c.top, dir) {
		return dir, nil
	}
	return tubeNormal(c.Axis, p)
}

// onCap reports whether p lies in the cap plane through center
func onCap(p, center core.Point, dir core.Vector) bool {
	v, err := p.Subtract(center)
	if err != nil {
		return true
	}
	return core.IsZero(v.Dot(dir))
}

// Intersect tests the ray against the side and both caps, nearest first
func (c *Cylinder) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	ts := append(c.sideHits(ray), c.capHits(ray)...)
	var hits []GeoPoint
	for _, t := range sortedUnique(ts) {
		if withinRange(t, maxDistance) {
			hits = append(hits, GeoPoint{Geometry: c, Point: ray.PointAt(t)})
		}
	}
	return hits
}

// sideHits solves the quadratic for the infinite tube and keeps roots whose
// height along the axis lies strictly between the caps
func (c *Cylinder) sideHits(ray core.Ray) []float64 {
	axis := c.Axis.Direction()
	base := c.Axis.Origin()
	dir := ray.Direction()

	dv := dir.Dot(axis)
	a := core.AlignZero(1 - dv*dv)
	if a == 0 {
		// Parallel to the axis: only the caps can be hit
		return nil
	}

	origin := ray.Origin()
	deltaDir := offsetDot(origin, base, dir)
	deltaAxis := offsetDot(origin, base, axis)
	deltaSq := origin.DistanceSquared(base)

	b := 2 * (deltaDir - deltaAxis*dv)
	cc := deltaSq - deltaAxis*deltaAxis - c.Radius*c.Radius

	discriminant := core.AlignZero(b*b - 4*a*cc)
	if discriminant <= 0 {
		return nil
	}
	sqrtD := math.Sqrt(discriminant)

	var ts []float64
	for _, t := range [2]float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
		t = core.AlignZero(t)
		h := core.AlignZero(deltaAxis + t*dv)
		if h > 0 && core.AlignZero(h-c.Height) < 0 {
			ts = append(ts, t)
		}
	}
	return ts
}

// capHits intersects the two cap planes and keeps hits strictly inside the
// radius
func (c *Cylinder) capHits(ray core.Ray) []float64 {
	axis := c.Axis.Direction()
	dv := ray.Direction().Dot(axis)
	if core.IsZero(dv) {
		return nil
	}

	origin := ray.Origin()
	var ts []float64
	for _, center := range [2]core.Point{c.Axis.Origin(), c.top} {
		t := core.AlignZero(offsetDot(center, origin, axis) / dv)
		if t <= 0 {
			continue
		}
		if core.AlignZero(ray.PointAt(t).Distance(center)-c.Radius) < 0 {
			ts = append(ts, t)
		}
	}
	return ts
}

// offsetDot returns (p-q)·v without building the offset vector, which may
// legitimately be zero
func offsetDot(p, q core.Point, v core.Vector) float64 {
	return (p.X-q.X)*v.X() + (p.Y-q.Y)*v.Y() + (p.Z-q.Z)*v.Z()
}

// sortedUnique sorts ray parameters and drops near-duplicates, which occur
// where the side meets a cap
func sortedUnique(ts []float64) []float64 {
	slices.Sort(ts)
	out := ts[:0]
	for i, t := range ts {
		if i == 0 || !core.IsZero(t-out[len(out)-1]) {
			out = append(out, t)
		}
	}
	return out
}
