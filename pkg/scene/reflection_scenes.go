package scene

import (
	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/lights"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// NewTwoSpheresScene creates a transparent blue sphere around a smaller red one
func NewTwoSpheresScene() (*Scene, error) {
	s := NewScene("Two Spheres")
	s.CameraConfig = frontCamera(1000, 150)

	c := &collector{scene: s}
	c.add(geometry.NewSphere(core.NewPoint(0, 0, -50), 50,
		geometry.WithEmission(blue),
		geometry.WithMaterial(material.Material{
			Kd: core.Uniform(0.4), Ks: core.Uniform(0.3), Shininess: 100, Kt: core.Uniform(0.3),
		})))
	c.add(geometry.NewSphere(core.NewPoint(0, 0, -50), 25,
		geometry.WithEmission(red),
		geometry.WithMaterial(material.NewPlastic(0.5, 0.5, 100))))
	c.light(lights.NewSpotLight(core.NewColor(1000, 600, 0), core.NewPoint(-100, -100, 500), core.MustVector(-1, -1, -2),
		lights.WithSpotAttenuation(1, 0.0004, 0.0000006)))
	return c.result()
}

// NewMirrorsScene creates nested spheres reflected in two large triangles
func NewMirrorsScene() (*Scene, error) {
	s := NewScene("Spheres on Mirrors")
	s.Ambient = lights.NewAmbientLight(white, core.Uniform(0.1))
	s.CameraConfig = frontCamera(10000, 2500)

	c := &collector{scene: s}
	c.add(geometry.NewSphere(core.NewPoint(-950, -900, -1000), 400,
		geometry.WithEmission(core.NewColor(0, 50, 100)),
		geometry.WithMaterial(material.Material{
			Kd: core.Uniform(0.25), Ks: core.Uniform(0.25), Shininess: 20, Kt: core.NewDouble3(0.5, 0, 0),
		})))
	c.add(geometry.NewSphere(core.NewPoint(-950, -900, -1000), 200,
		geometry.WithEmission(core.NewColor(100, 50, 20)),
		geometry.WithMaterial(material.NewPlastic(0.25, 0.25, 20))))
	c.add(geometry.NewTriangle(
		core.NewPoint(1500, -1500, -1500), core.NewPoint(-1500, 1500, -1500), core.NewPoint(670, 670, 3000),
		geometry.WithEmission(core.NewColor(20, 20, 20)),
		geometry.WithMaterial(material.Material{Kr: core.One3})))
	c.add(geometry.NewTriangle(
		core.NewPoint(1500, -1500, -1500), core.NewPoint(-1500, 1500, -1500), core.NewPoint(-1500, -1500, -2000),
		geometry.WithEmission(core.NewColor(20, 20, 20)),
		geometry.WithMaterial(material.Material{Kr: core.NewDouble3(0.5, 0, 0.4)})))
	c.light(lights.NewSpotLight(core.NewColor(1020, 400, 400), core.NewPoint(-750, -750, -150), core.MustVector(-1, -1, -4),
		lights.WithSpotAttenuation(1, 0.00001, 0.000005)))
	return c.result()
}

// NewTransparentShadowScene creates two triangles partly shadowed by a
// transparent sphere
func NewTransparentShadowScene() (*Scene, error) {
	s := NewScene("Transparent Shadow")
	s.Ambient = lights.NewAmbientLight(white, core.Uniform(0.15))
	s.CameraConfig = frontCamera(1000, 200)
	s.RenderConfig.Width, s.RenderConfig.Height = 600, 600

	c := &collector{scene: s}
	c.add(geometry.NewTriangle(
		core.NewPoint(-150, -150, -115), core.NewPoint(150, -150, -135), core.NewPoint(75, 75, -150),
		geometry.WithMaterial(material.NewPlastic(0.5, 0.5, 60))))
	c.add(geometry.NewTriangle(
		core.NewPoint(-150, -150, -115), core.NewPoint(-70, 70, -140), core.NewPoint(75, 75, -150),
		geometry.WithMaterial(material.NewPlastic(0.5, 0.5, 60))))
	c.add(geometry.NewSphere(core.NewPoint(60, 50, -50), 30,
		geometry.WithEmission(blue),
		geometry.WithMaterial(material.Material{
			Kd: core.Uniform(0.2), Ks: core.Uniform(0.2), Shininess: 30, Kt: core.Uniform(0.6),
		})))
	c.light(lights.NewSpotLight(core.NewColor(700, 400, 400), core.NewPoint(60, 50, 0), core.MustVector(0, 0, -1),
		lights.WithSpotAttenuation(1, 4e-5, 2e-7)))
	return c.result()
}

// NewReflectionShadowScene extends the transparent shadow scene with a
// reflective sphere, a mirror triangle and a second pair of nested spheres
func NewReflectionShadowScene() (*Scene, error) {
	s := NewScene("Reflection and Shadow")
	s.Ambient = lights.NewAmbientLight(white, core.Uniform(0.15))
	s.CameraConfig = frontCamera(1000, 200)
	s.RenderConfig.Width, s.RenderConfig.Height = 600, 600

	c := &collector{scene: s}
	c.add(geometry.NewTriangle(
		core.NewPoint(-200, -200, -115), core.NewPoint(150, -150, -135), core.NewPoint(150, 150, -150),
		geometry.WithMaterial(material.NewPlastic(0.5, 0.5, 60))))
	c.add(geometry.NewTriangle(
		core.NewPoint(-200, -200, -115), core.NewPoint(-70, 70, -140), core.NewPoint(150, 150, -150),
		geometry.WithMaterial(material.NewPlastic(0.5, 0.5, 60))))
	c.add(geometry.NewSphere(core.NewPoint(60, 50, -70), 30,
		geometry.WithEmission(blue),
		geometry.WithMaterial(material.Material{
			Kd: core.Uniform(0.2), Ks: core.Uniform(0.2), Shininess: 30, Kt: core.Uniform(0.6), Kr: core.Uniform(0.3),
		})))
	c.add(geometry.NewTriangle(
		core.NewPoint(-45, -50, -150), core.NewPoint(-30, 80, -20), core.NewPoint(46.5, 45, -165),
		geometry.WithEmission(core.NewColor(80, 50, 30)),
		geometry.WithMaterial(material.Material{Kr: core.One3})))
	c.add(geometry.NewSphere(core.NewPoint(45, 0, -105), 20,
		geometry.WithEmission(core.NewColor(5, 22, 40)),
		geometry.WithMaterial(material.Material{
			Kd: core.Uniform(0.25), Ks: core.Uniform(0.25), Shininess: 20, Kt: core.Uniform(0.5),
		})))
	c.add(geometry.NewSphere(core.NewPoint(45, 0, -105), 10,
		geometry.WithEmission(core.NewColor(30, 10, 12)),
		geometry.WithMaterial(material.NewPlastic(0.25, 0.25, 20))))
	c.light(lights.NewSpotLight(core.NewColor(700, 400, 400), core.NewPoint(50, 60, 0), core.MustVector(-0.3, -0.3, -1),
		lights.WithSpotAttenuation(1, 4e-5, 2e-7)))
	return c.result()
}
