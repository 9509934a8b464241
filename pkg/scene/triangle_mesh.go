package scene

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// NewTriangleMeshScene creates a scene showcasing triangle meshes: a box,
// a pyramid and an icosahedron standing on a ground plane
func NewTriangleMeshScene() (*Scene, error) {
	s := NewScene("Triangle Meshes")
	s.Background = core.NewColor(128, 178, 255)
	s.Ambient = lights.NewAmbientLight(white, core.Uniform(0.1))

	focus := core.NewPoint(0, 1, 0)
	s.CameraConfig = CameraConfig{
		Location:   core.NewPoint(0, 2, 6),
		FocusPoint: &focus,
		Width:      1.6,
		Height:     0.9,
		Distance:   1.1,
	}
	s.RenderConfig.Width, s.RenderConfig.Height = 640, 360

	c := &collector{scene: s}
	addTriangleMeshLighting(c)
	c.add(geometry.NewPlane(core.Origin, core.AxisY,
		geometry.WithEmission(core.NewColor(20, 20, 20)),
		geometry.WithMaterial(material.NewPlastic(0.6, 0.2, 10))))

	c.add(createBoxMesh(core.NewPoint(-2, 0.5, 0), 1, core.NewPoint(0, math.Pi/6, 0),
		geometry.WithEmission(core.NewColor(60, 10, 10)),
		geometry.WithMaterial(material.NewMetal(0.4, 0.4, 80))))
	c.add(createPyramidMesh(core.NewPoint(0, 1, 0), 1.5, 2, core.NewPoint(0, math.Pi/4, 0),
		geometry.WithEmission(core.NewColor(10, 20, 60)),
		geometry.WithMaterial(material.NewPlastic(0.7, 0.3, 30))))
	c.add(createIcosahedronMesh(core.NewPoint(2, 0.8, 0), 0.8, core.NewPoint(0, math.Pi/3, 0),
		geometry.WithEmission(core.NewColor(50, 40, 5)),
		geometry.WithMaterial(material.NewDielectric(0.5))))
	return c.result()
}

func addTriangleMeshLighting(c *collector) {
	// Warm key light
	c.light(lights.NewPointLight(core.NewColor(255, 235, 210), core.NewPoint(2, 6, 3),
		lights.WithAttenuation(1, 0.05, 0.01)))

	// Cool fill light
	c.light(lights.NewPointLight(core.NewColor(120, 140, 170), core.NewPoint(-3, 4, 2),
		lights.WithAttenuation(1, 0.1, 0.02)))
}

func rotated(center, rotation core.Point) *geometry.TriangleMeshOptions {
	if rotation == core.Origin {
		return nil
	}
	return &geometry.TriangleMeshOptions{Center: &center, Rotation: &rotation}
}

func createBoxMesh(center core.Point, size float64, rotation core.Point, opts ...geometry.Option) (*geometry.TriangleMesh, error) {
	h := size / 2
	vertices := []core.Point{
		core.NewPoint(center.X-h, center.Y-h, center.Z-h), // 0: left-bottom-back
		core.NewPoint(center.X+h, center.Y-h, center.Z-h), // 1: right-bottom-back
		core.NewPoint(center.X+h, center.Y+h, center.Z-h), // 2: right-top-back
		core.NewPoint(center.X-h, center.Y+h, center.Z-h), // 3: left-top-back
		core.NewPoint(center.X-h, center.Y-h, center.Z+h), // 4: left-bottom-front
		core.NewPoint(center.X+h, center.Y-h, center.Z+h), // 5: right-bottom-front
		core.NewPoint(center.X+h, center.Y+h, center.Z+h), // 6: right-top-front
		core.NewPoint(center.X-h, center.Y+h, center.Z+h), // 7: left-top-front
	}

	faces := []int{
		0, 1, 2, 0, 2, 3, // back
		4, 6, 5, 4, 7, 6, // front
		0, 3, 7, 0, 7, 4, // left
		1, 5, 6, 1, 6, 2, // right
		0, 4, 5, 0, 5, 1, // bottom
		3, 2, 6, 3, 6, 7, // top
	}

	return geometry.NewTriangleMesh(vertices, faces, rotated(center, rotation), opts...)
}

func createPyramidMesh(center core.Point, baseSize, height float64, rotation core.Point, opts ...geometry.Option) (*geometry.TriangleMesh, error) {
	b := baseSize / 2
	h := height / 2
	vertices := []core.Point{
		core.NewPoint(center.X-b, center.Y-h, center.Z-b), // 0: left-back
		core.NewPoint(center.X+b, center.Y-h, center.Z-b), // 1: right-back
		core.NewPoint(center.X+b, center.Y-h, center.Z+b), // 2: right-front
		core.NewPoint(center.X-b, center.Y-h, center.Z+b), // 3: left-front
		core.NewPoint(center.X, center.Y+h, center.Z),     // 4: apex
	}

	faces := []int{
		0, 2, 1, 0, 3, 2, // base
		0, 1, 4,
		1, 2, 4,
		2, 3, 4,
		3, 0, 4,
	}

	return geometry.NewTriangleMesh(vertices, faces, rotated(center, rotation), opts...)
}

func createIcosahedronMesh(center core.Point, radius float64, rotation core.Point, opts ...geometry.Option) (*geometry.TriangleMesh, error) {
	phi := (1 + math.Sqrt(5)) / 2
	scale := radius / math.Sqrt(1+phi*phi)

	unit := [][3]float64{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	vertices := make([]core.Point, len(unit))
	for i, u := range unit {
		vertices[i] = core.NewPoint(center.X+u[0]*scale, center.Y+u[1]*scale, center.Z+u[2]*scale)
	}

	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return geometry.NewTriangleMesh(vertices, faces, rotated(center, rotation), opts...)
}
