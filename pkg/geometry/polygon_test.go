package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

func TestNewPolygon_Validation(t *testing.T) {
	p001 := core.NewPoint(0, 0, 1)
	p100 := core.NewPoint(1, 0, 0)
	p010 := core.NewPoint(0, 1, 0)

	if _, err := NewPolygon([]core.Point{p001, p100, p010, core.NewPoint(-1, 1, 1)}); err != nil {
		t.Fatalf("Unexpected error for a valid quadrangle: %v", err)
	}

	tests := []struct {
		name     string
		vertices []core.Point
	}{
		{"too few vertices", []core.Point{p001, p100}},
		{"wrong vertex order", []core.Point{p001, p010, p100, core.NewPoint(-1, 1, 1)}},
		{"not in the same plane", []core.Point{p001, p100, p010, core.NewPoint(0, 2, 2)}},
		{"concave quadrangle", []core.Point{p001, p100, p010, core.NewPoint(0.5, 0.25, 0.5)}},
		{"vertex on a side", []core.Point{p001, p100, p010, core.NewPoint(0, 0.5, 0.5)}},
		{"last point equals first", []core.Point{p001, p100, p010, p001}},
		{"co-located points", []core.Point{p001, p100, p010, p010}},
		{"collinear first three", []core.Point{p100, core.NewPoint(2, 0, 0), core.NewPoint(3, 0, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPolygon(tt.vertices); !errors.Is(err, ErrInvalidPolygon) {
				t.Errorf("Expected ErrInvalidPolygon, got %v", err)
			}
		})
	}
}

func TestPolygon_Normal(t *testing.T) {
	pts := []core.Point{core.NewPoint(0, 0, 1), core.NewPoint(1, 0, 0), core.NewPoint(0, 1, 0), core.NewPoint(-1, 1, 1)}
	poly, err := NewPolygon(pts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	n, err := poly.Normal(core.NewPoint(0, 0, 1))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(n.Length()-1) > tolerance {
		t.Errorf("Expected unit normal, got length %f", n.Length())
	}
	for i := range pts {
		prev := pts[(i+len(pts)-1)%len(pts)]
		edge, _ := pts[i].Subtract(prev)
		if math.Abs(n.Dot(edge)) > tolerance {
			t.Errorf("Normal is not orthogonal to edge %d", i)
		}
	}
}

func TestPolygon_Intersect(t *testing.T) {
	poly, err := NewPolygon([]core.Point{
		core.NewPoint(-1, -2, 4),
		core.NewPoint(-1, 5, -3),
		core.NewPoint(4, 2, -5),
		core.NewPoint(4, -2, -1),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		origin   core.Point
		dir      core.Vector
		expected []core.Point
	}{
		{"inside polygon", core.NewPoint(1, 2, 3), core.MustVector(2.5, -3.55, -3.95), []core.Point{core.NewPoint(3.5, -1.55, -0.95)}},
		{"outside against edge", core.NewPoint(1, 2, 3), core.MustVector(6, -12, -3), nil},
		{"outside against vertex", core.NewPoint(3, 2, 8), core.MustVector(-10, -9, -6), nil},
		{"on edge", core.NewPoint(3, 2, 8), core.MustVector(1, -2, -11), nil},
		{"in vertex", core.NewPoint(3, 2, 8), core.MustVector(1, 0, -13), nil},
		{"on edge continuation", core.NewPoint(3, 2, 8), core.MustVector(-8, -4, 0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := mustRay(t, tt.origin, tt.dir)
			assertPoints(t, FindIntersections(poly, ray), tt.expected)
		})
	}
}

func TestTriangle_Intersect(t *testing.T) {
	tri, err := NewTriangle(core.NewPoint(0, 1, 0), core.NewPoint(-6, 6, 1), core.NewPoint(-7, 3, 5))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		origin   core.Point
		dir      core.Vector
		expected []core.Point
	}{
		{"inside triangle", core.NewPoint(1, 2, 3), core.MustVector(-5, 2, -2), []core.Point{core.NewPoint(-4, 4, 1)}},
		{"outside against edge", core.NewPoint(1, 2, 3), core.MustVector(-9, 3, 0), nil},
		{"outside against vertex", core.NewPoint(1, 2, 3), core.MustVector(-11, 1.86, 4.14), nil},
		{"in vertex", core.NewPoint(1, 2, 3), core.MustVector(-1, -1, -3), nil},
		{"on edge continuation", core.NewPoint(3, 0, 0), core.MustVector(3, -4, -1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := mustRay(t, tt.origin, tt.dir)
			hits := FindGeoIntersections(tri, ray)
			var points []core.Point
			for _, gp := range hits {
				if gp.Geometry != tri {
					t.Errorf("Expected GeoPoint to reference the triangle")
				}
				points = append(points, gp.Point)
			}
			assertPoints(t, points, tt.expected)
		})
	}
}

func TestTriangle_Degenerate(t *testing.T) {
	_, err := NewTriangle(core.NewPoint(0, 0, 0), core.NewPoint(1, 1, 1), core.NewPoint(2, 2, 2))
	if !errors.Is(err, ErrInvalidPolygon) {
		t.Errorf("Expected ErrInvalidPolygon for collinear vertices, got %v", err)
	}
}
