package core

import (
	"fmt"
	"math"
)

// RayOffset is how far secondary rays are pushed off the surface they leave,
// so that they do not hit that same surface again ("shadow acne")
const RayOffset = 0.1

// Ray represents a ray with an origin and a unit direction
type Ray struct {
	origin    Point
	direction Vector
}

// NewRay creates a new ray; the direction is normalized
func NewRay(origin Point, direction Vector) (Ray, error) {
	dir, err := direction.Normalize()
	if err != nil {
		return Ray{}, fmt.Errorf("ray direction: %w", err)
	}
	return Ray{origin: origin, direction: dir}, nil
}

// NewOffsetRay creates a ray leaving a surface at point with the given normal.
// The origin is moved by RayOffset along the normal, towards the side the
// direction points to.
func NewOffsetRay(point Point, direction, normal Vector) (Ray, error) {
	nd := normal.Dot(direction)
	offset := RayOffset
	if nd <= 0 {
		offset = -RayOffset
	}
	return NewRay(point.AddScaled(normal, offset), direction)
}

// Origin returns the ray's starting point
func (r Ray) Origin() Point { return r.origin }

// Direction returns the ray's unit direction
func (r Ray) Direction() Vector { return r.direction }

// PointAt returns the point at distance t along the ray
func (r Ray) PointAt(t float64) Point {
	if IsZero(t) {
		return r.origin
	}
	return r.origin.AddScaled(r.direction, t)
}

// ClosestPoint returns the point nearest to the ray origin
func (r Ray) ClosestPoint(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	closest := points[0]
	minDistance := math.Inf(1)
	for _, p := range points {
		if d := r.origin.DistanceSquared(p); d < minDistance {
			minDistance = d
			closest = p
		}
	}
	return closest, true
}

func (r Ray) String() string {
	return fmt.Sprintf("Ray{origin=%v, direction=%v}", r.origin, r.direction)
}
