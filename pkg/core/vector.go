package core

import (
	"fmt"
	"math"
)

// Vector represents a non-zero 3D vector.
// The components are unexported so that every Vector in circulation went
// through NewVector; the Go zero value is not a valid Vector and is rejected
// by every method that can notice it.
type Vector struct {
	x, y, z float64
}

// Axis unit vectors
var (
	AxisX = Vector{1, 0, 0}
	AxisY = Vector{0, 1, 0}
	AxisZ = Vector{0, 0, 1}
)

// NewVector creates a new Vector, failing for the zero vector
func NewVector(x, y, z float64) (Vector, error) {
	if x == 0 && y == 0 && z == 0 {
		return Vector{}, ErrZeroVector
	}
	return Vector{x, y, z}, nil
}

// MustVector is like NewVector but panics on the zero vector.
// Intended for literals in scene construction and tests.
func MustVector(x, y, z float64) Vector {
	v, err := NewVector(x, y, z)
	if err != nil {
		panic(err)
	}
	return v
}

// X returns the x component
func (v Vector) X() float64 { return v.x }

// Y returns the y component
func (v Vector) Y() float64 { return v.y }

// Z returns the z component
func (v Vector) Z() float64 { return v.z }

// IsValid reports whether v is a non-zero vector
func (v Vector) IsValid() bool {
	return v.x != 0 || v.y != 0 || v.z != 0
}

// Add returns the sum of two vectors
func (v Vector) Add(other Vector) (Vector, error) {
	return NewVector(v.x+other.x, v.y+other.y, v.z+other.z)
}

// Subtract returns the difference of two vectors
func (v Vector) Subtract(other Vector) (Vector, error) {
	return NewVector(v.x-other.x, v.y-other.y, v.z-other.z)
}

// Scale returns the vector multiplied by a scalar
func (v Vector) Scale(scalar float64) (Vector, error) {
	return NewVector(v.x*scalar, v.y*scalar, v.z*scalar)
}

// Negate returns the opposite vector
func (v Vector) Negate() Vector {
	return Vector{-v.x, -v.y, -v.z}
}

// Dot returns the dot product of two vectors
func (v Vector) Dot(other Vector) float64 {
	return v.x*other.x + v.y*other.y + v.z*other.z
}

// Cross returns the cross product of two vectors.
// Parallel vectors yield the zero vector and therefore fail.
func (v Vector) Cross(other Vector) (Vector, error) {
	return NewVector(
		v.y*other.z-v.z*other.y,
		v.z*other.x-v.x*other.z,
		v.x*other.y-v.y*other.x,
	)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vector) LengthSquared() float64 {
	return v.x*v.x + v.y*v.y + v.z*v.z
}

// Length returns the magnitude of the vector
func (v Vector) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns a unit vector in the same direction
func (v Vector) Normalize() (Vector, error) {
	length := v.Length()
	if length == 0 {
		return Vector{}, fmt.Errorf("normalize: %w", ErrZeroVector)
	}
	return NewVector(v.x/length, v.y/length, v.z/length)
}

// Reflect mirrors v around the unit normal n: v - 2(v·n)n
func (v Vector) Reflect(n Vector) (Vector, error) {
	vn := AlignZero(v.Dot(n))
	return NewVector(v.x-2*vn*n.x, v.y-2*vn*n.y, v.z-2*vn*n.z)
}

func (v Vector) String() string {
	return fmt.Sprintf("Vector(%g, %g, %g)", v.x, v.y, v.z)
}
