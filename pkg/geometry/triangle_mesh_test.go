package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

func quadVertices() []core.Point {
	return []core.Point{
		core.NewPoint(0, 0, 0), // 0
		core.NewPoint(1, 0, 0), // 1
		core.NewPoint(1, 1, 0), // 2
		core.NewPoint(0, 1, 0), // 3
	}
}

func TestTriangleMesh_Creation(t *testing.T) {
	faces := []int{
		0, 1, 2, // first triangle
		0, 2, 3, // second triangle
	}

	mesh, err := NewTriangleMesh(quadVertices(), faces, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}
}

func TestTriangleMesh_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		faces []int
	}{
		{"not a multiple of 3", []int{0, 1}},
		{"index out of bounds", []int{0, 1, 7}},
		{"negative index", []int{0, -1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTriangleMesh(quadVertices(), tt.faces, nil); !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("Expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestTriangleMesh_SkipsDegenerateFaces(t *testing.T) {
	vertices := append(quadVertices(), core.NewPoint(2, 0, 0))
	mesh, err := NewTriangleMesh(vertices, []int{0, 1, 2, 0, 1, 4}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mesh.TriangleCount() != 1 || mesh.SkippedCount() != 1 {
		t.Errorf("Expected 1 triangle and 1 skipped, got %d and %d", mesh.TriangleCount(), mesh.SkippedCount())
	}
}

func TestTriangleMesh_Intersect(t *testing.T) {
	red := material.NewLambertian(0.8)
	mesh, err := NewTriangleMesh(quadVertices(), []int{0, 1, 2, 0, 2, 3}, nil, WithMaterial(red))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		origin    core.Point
		shouldHit bool
	}{
		{"first triangle", core.NewPoint(0.75, 0.25, -1), true},
		{"second triangle", core.NewPoint(0.25, 0.75, -1), true},
		{"outside the quad", core.NewPoint(1.5, 0.5, -1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := mustRay(t, tt.origin, core.AxisZ)
			hits := FindGeoIntersections(mesh, ray)
			if (hits != nil) != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, hits)
			}
			if tt.shouldHit && hits[0].Geometry.Material() != red {
				t.Errorf("Expected triangle to carry the mesh material")
			}
		})
	}
}

func TestTriangleMesh_Transform(t *testing.T) {
	offset := core.NewPoint(0, 0, 5)
	rotation := core.NewPoint(0, 0, math.Pi/2)
	mesh, err := NewTriangleMesh(quadVertices(), []int{0, 1, 2}, &TriangleMeshOptions{
		Rotation: &rotation,
		Scale:    2,
		Offset:   &offset,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tri := mesh.Triangles()[0].(*Triangle)
	_, v1, v2 := tri.Vertices()
	if !pointsNear(v1, core.NewPoint(0, 2, 5)) {
		t.Errorf("Expected (0,2,5), got %v", v1)
	}
	if !pointsNear(v2, core.NewPoint(-2, 2, 5)) {
		t.Errorf("Expected (-2,2,5), got %v", v2)
	}
}
