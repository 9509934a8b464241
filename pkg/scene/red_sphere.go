package scene

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// NewRedSphereScene creates the smallest useful scene: one diffuse sphere
// facing the camera under a white directional light
func NewRedSphereScene() (*Scene, error) {
	s := NewScene("Red Sphere")
	s.CameraConfig = frontCamera(1000, 150)

	c := &collector{scene: s}
	c.add(geometry.NewSphere(core.NewPoint(0, 0, -50), 25,
		geometry.WithMaterial(material.Material{Kd: core.NewDouble3(0.8, 0, 0)})))
	c.light(lights.NewDirectionalLight(white, core.MustVector(0, 0, -1)))
	return c.result()
}
