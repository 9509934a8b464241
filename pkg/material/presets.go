package material

import "github.com/df07/go-recursive-raytracer/pkg/core"

// NewLambertian creates a purely diffuse material
func NewLambertian(kd float64) Material {
	return Material{Kd: core.Uniform(kd)}
}

// NewPlastic creates a diffuse material with a specular highlight
func NewPlastic(kd, ks float64, shininess int) Material {
	return Material{
		Kd:        core.Uniform(kd),
		Ks:        core.Uniform(ks),
		Shininess: shininess,
	}
}

// NewMetal creates a mirror-like material; kr controls how much of the
// environment is reflected
func NewMetal(ks, kr float64, shininess int) Material {
	return Material{
		Kd:        core.Uniform(1 - kr),
		Ks:        core.Uniform(ks),
		Kr:        core.Uniform(kr),
		Shininess: shininess,
	}
}

// NewDielectric creates a transparent material; kt is the fraction of light
// passing through the surface
func NewDielectric(kt float64) Material {
	return Material{
		Kd:        core.Uniform(0.2),
		Ks:        core.Uniform(0.2),
		Kt:        core.Uniform(kt),
		Shininess: 30,
	}
}
