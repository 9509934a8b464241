package core

import "math"

// Epsilon is the shared tolerance for every zero test in the renderer.
// Intersection, shading and camera code must all go through IsZero and
// AlignZero so that results stay bit-stable across shapes.
const Epsilon = 1e-10

// IsZero reports whether x is within Epsilon of zero
func IsZero(x float64) bool {
	return math.Abs(x) < Epsilon
}

// AlignZero snaps values within Epsilon of zero to exactly zero
func AlignZero(x float64) float64 {
	if IsZero(x) {
		return 0
	}
	return x
}
