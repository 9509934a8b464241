package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

const tolerance = 1e-9

func pointsNear(a, b core.Point) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance && math.Abs(a.Z-b.Z) < tolerance
}

func vectorsNear(a, b core.Vector) bool {
	return math.Abs(a.X()-b.X()) < tolerance && math.Abs(a.Y()-b.Y()) < tolerance && math.Abs(a.Z()-b.Z()) < tolerance
}

func mustRay(t *testing.T, origin core.Point, dir core.Vector) core.Ray {
	t.Helper()
	ray, err := core.NewRay(origin, dir)
	if err != nil {
		t.Fatalf("Failed to create ray: %v", err)
	}
	return ray
}

// assertPoints checks that an intersection result matches the expected
// points in order; a nil expectation requires a nil result
func assertPoints(t *testing.T, got []core.Point, expected []core.Point) {
	t.Helper()
	if expected == nil {
		if got != nil {
			t.Errorf("Expected no intersections, got %v", got)
		}
		return
	}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d intersections, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if !pointsNear(got[i], expected[i]) {
			t.Errorf("Intersection %d: expected %v, got %v", i, expected[i], got[i])
		}
	}
}
