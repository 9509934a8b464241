package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned by Validate for out-of-range coefficients
var ErrInvalidMaterial = errors.New("invalid material")

// Material holds the Phong coefficients of a surface.
// The zero value is a black, opaque, non-reflective material.
type Material struct {
	Kd        core.Double3 // Diffuse coefficient
	Ks        core.Double3 // Specular coefficient
	Kt        core.Double3 // Transparency coefficient
	Kr        core.Double3 // Reflection coefficient
	Shininess int          // Specular exponent
}

// Validate checks that shininess and all coefficients are non-negative
func (m Material) Validate() error {
	if m.Shininess < 0 {
		return fmt.Errorf("%w: negative shininess %d", ErrInvalidMaterial, m.Shininess)
	}
	for name, k := range map[string]core.Double3{"kd": m.Kd, "ks": m.Ks, "kt": m.Kt, "kr": m.Kr} {
		if k.R < 0 || k.G < 0 || k.B < 0 {
			return fmt.Errorf("%w: negative %s %v", ErrInvalidMaterial, name, k)
		}
	}
	return nil
}

// IsReflective reports whether any reflection channel is non-zero
func (m Material) IsReflective() bool {
	return m.Kr != core.Zero3
}

// IsTransparent reports whether any transparency channel is non-zero
func (m Material) IsTransparent() bool {
	return m.Kt != core.Zero3
}
