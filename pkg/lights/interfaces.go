package lights

import (
	"errors"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// ErrInvalidLight is returned for light parameters that cannot produce light
var ErrInvalidLight = errors.New("invalid light")

type LightType string

const (
	LightTypeDirectional LightType = "directional"
	LightTypePoint       LightType = "point"
	LightTypeSpot        LightType = "spot"
)

// LightSource is a light that illuminates surface points
type LightSource interface {
	Type() LightType

	// Intensity returns the light arriving at p, including attenuation
	Intensity(p core.Point) core.Color

	// Direction returns the unit vector FROM the light TO p
	Direction(p core.Point) (core.Vector, error)

	// Distance returns how far the light is from p; +Inf for lights at infinity
	Distance(p core.Point) float64
}

// AmbientLight is the uniform background illumination of a scene
type AmbientLight struct {
	intensity core.Color
}

// NoAmbient is the black ambient light
var NoAmbient = AmbientLight{}

// NewAmbientLight creates an ambient light of intensity ia attenuated by ka
func NewAmbientLight(ia core.Color, ka core.Double3) AmbientLight {
	return AmbientLight{intensity: ia.ScaleBy(ka)}
}

// Intensity returns the effective ambient intensity
func (a AmbientLight) Intensity() core.Color {
	return a.intensity
}
