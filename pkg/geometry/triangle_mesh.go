package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// TriangleMesh represents a collection of triangles sharing a vertex table.
// Each triangle is its own Geometry so hits report the triangle that was hit.
type TriangleMesh struct {
	triangles *Geometries
	count     int
	skipped   int
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Materials []material.Material // Optional per-triangle materials
	Rotation  *core.Point         // Optional rotation in radians around X, Y, Z
	Center    *core.Point         // Optional center for rotation and scaling
	Scale     float64             // Optional uniform scale, 0 means 1
	Offset    *core.Point         // Optional translation applied last
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices.
// Every group of 3 indices forms a triangle. Degenerate faces, which are
// common in scanned models, are skipped and counted.
func NewTriangleMesh(vertices []core.Point, faces []int, options *TriangleMeshOptions, opts ...Option) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: face indices must be a multiple of 3, got %d", ErrInvalidGeometry, len(faces))
	}
	numTriangles := len(faces) / 3
	if options != nil && options.Materials != nil && len(options.Materials) != numTriangles {
		return nil, fmt.Errorf("%w: %d materials for %d triangles", ErrInvalidGeometry, len(options.Materials), numTriangles)
	}

	workingVertices := transformVertices(vertices, options)

	mesh := &TriangleMesh{triangles: NewGeometries()}
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		if i0 < 0 || i1 < 0 || i2 < 0 ||
			i0 >= len(workingVertices) || i1 >= len(workingVertices) || i2 >= len(workingVertices) {
			return nil, fmt.Errorf("%w: face %d index out of bounds", ErrInvalidGeometry, i)
		}

		triOpts := opts
		if options != nil && options.Materials != nil {
			triOpts = append(append([]Option(nil), opts...), WithMaterial(options.Materials[i]))
		}

		tri, err := NewTriangle(workingVertices[i0], workingVertices[i1], workingVertices[i2], triOpts...)
		if errors.Is(err, ErrInvalidPolygon) {
			mesh.skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		mesh.triangles.Add(tri)
		mesh.count++
	}
	return mesh, nil
}

// Intersect tests the ray against every triangle in the mesh
func (tm *TriangleMesh) Intersect(ray core.Ray, maxDistance float64) []GeoPoint {
	return tm.triangles.Intersect(ray, maxDistance)
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return tm.count
}

// SkippedCount returns how many degenerate faces were dropped
func (tm *TriangleMesh) SkippedCount() int {
	return tm.skipped
}

// Triangles returns the individual triangles
func (tm *TriangleMesh) Triangles() []Intersectable {
	return tm.triangles.Children()
}

func transformVertices(vertices []core.Point, options *TriangleMeshOptions) []core.Point {
	if options == nil || (options.Rotation == nil && options.Scale == 0 && options.Offset == nil) {
		return vertices
	}
	center := core.Origin
	if options.Center != nil {
		center = *options.Center
	}
	scale := options.Scale
	if scale == 0 {
		scale = 1
	}

	out := make([]core.Point, len(vertices))
	for i, v := range vertices {
		v = core.NewPoint(v.X-center.X, v.Y-center.Y, v.Z-center.Z)
		if options.Rotation != nil {
			v = rotateVertex(v, *options.Rotation)
		}
		v = core.NewPoint(v.X*scale+center.X, v.Y*scale+center.Y, v.Z*scale+center.Z)
		if options.Offset != nil {
			v = core.NewPoint(v.X+options.Offset.X, v.Y+options.Offset.Y, v.Z+options.Offset.Z)
		}
		out[i] = v
	}
	return out
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Point) core.Point {
	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		vertex = core.NewPoint(vertex.X, vertex.Y*cos-vertex.Z*sin, vertex.Y*sin+vertex.Z*cos)
	}
	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		vertex = core.NewPoint(vertex.X*cos+vertex.Z*sin, vertex.Y, -vertex.X*sin+vertex.Z*cos)
	}
	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		vertex = core.NewPoint(vertex.X*cos-vertex.Y*sin, vertex.X*sin+vertex.Y*cos, vertex.Z)
	}
	return vertex
}
