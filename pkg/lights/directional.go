package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// DirectionalLight is a light at infinity shining along a fixed direction
type DirectionalLight struct {
	intensity core.Color
	direction core.Vector
}

// NewDirectionalLight creates a directional light; the direction is normalized
func NewDirectionalLight(intensity core.Color, direction core.Vector) (*DirectionalLight, error) {
	dir, err := direction.Normalize()
	if err != nil {
		return nil, fmt.Errorf("directional light: %w", err)
	}
	return &DirectionalLight{intensity: intensity, direction: dir}, nil
}

func (d *DirectionalLight) Type() LightType { return LightTypeDirectional }

// Intensity is the same everywhere
func (d *DirectionalLight) Intensity(core.Point) core.Color {
	return d.intensity
}

// Direction is the same everywhere
func (d *DirectionalLight) Direction(core.Point) (core.Vector, error) {
	return d.direction, nil
}

// Distance is infinite
func (d *DirectionalLight) Distance(core.Point) float64 {
	return math.Inf(1)
}
