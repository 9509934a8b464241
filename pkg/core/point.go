package core

import (
	"fmt"
	"math"
)

// Point represents a location in 3D space
type Point struct {
	X, Y, Z float64
}

// Origin is the point (0, 0, 0)
var Origin = Point{}

// NewPoint creates a new Point
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Subtract returns the vector from other to p.
// Coincident points fail with ErrZeroVector.
func (p Point) Subtract(other Point) (Vector, error) {
	return NewVector(p.X-other.X, p.Y-other.Y, p.Z-other.Z)
}

// Add moves the point along a vector
func (p Point) Add(v Vector) Point {
	return Point{p.X + v.x, p.Y + v.y, p.Z + v.z}
}

// AddScaled moves the point along v scaled by s. Unlike v.Scale(s) this never
// fails, so it is safe for offsets that may legitimately be zero.
func (p Point) AddScaled(v Vector, s float64) Point {
	return Point{p.X + v.x*s, p.Y + v.y*s, p.Z + v.z*s}
}

// DistanceSquared returns the squared distance between two points
func (p Point) DistanceSquared(other Point) float64 {
	dx := other.X - p.X
	dy := other.Y - p.Y
	dz := other.Z - p.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the distance between two points
func (p Point) Distance(other Point) float64 {
	return math.Sqrt(p.DistanceSquared(other))
}

func (p Point) String() string {
	return fmt.Sprintf("Point(%g, %g, %g)", p.X, p.Y, p.Z)
}
