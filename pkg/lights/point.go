package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// attenuation holds the constant, linear and quadratic falloff factors
type attenuation struct {
	kC, kL, kQ float64
}

var defaultAttenuation = attenuation{kC: 1}

func (a attenuation) factor(d float64) float64 {
	return 1 / (a.kC + a.kL*d + a.kQ*d*d)
}

// PointOption configures a point or spot light
type PointOption func(*PointLight)

// WithAttenuation sets the falloff I0 / (kC + kL·d + kQ·d²)
func WithAttenuation(kC, kL, kQ float64) PointOption {
	return func(p *PointLight) { p.attenuation = attenuation{kC: kC, kL: kL, kQ: kQ} }
}

// PointLight radiates equally in all directions from a position
type PointLight struct {
	intensity core.Color
	position  core.Point
	attenuation
}

// NewPointLight creates a point light with no falloff unless configured
func NewPointLight(intensity core.Color, position core.Point, opts ...PointOption) (*PointLight, error) {
	p := &PointLight{intensity: intensity, position: position, attenuation: defaultAttenuation}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PointLight) validate() error {
	if p.kC < 0 || p.kL < 0 || p.kQ < 0 {
		return fmt.Errorf("%w: negative attenuation factor (%g, %g, %g)", ErrInvalidLight, p.kC, p.kL, p.kQ)
	}
	if p.kC == 0 && p.kL == 0 && p.kQ == 0 {
		return fmt.Errorf("%w: attenuation factors are all zero", ErrInvalidLight)
	}
	return nil
}

func (p *PointLight) Type() LightType { return LightTypePoint }

// Position returns the light's location
func (p *PointLight) Position() core.Point { return p.position }

// Intensity returns the attenuated intensity at pt
func (p *PointLight) Intensity(pt core.Point) core.Color {
	return p.intensity.Scale(p.factor(p.position.Distance(pt)))
}

// Direction returns the unit vector from the light to pt.
// A point at the light's position has no direction.
func (p *PointLight) Direction(pt core.Point) (core.Vector, error) {
	v, err := pt.Subtract(p.position)
	if err != nil {
		return core.Vector{}, fmt.Errorf("point light direction: %w", err)
	}
	return v.Normalize()
}

// Distance returns the distance from the light to pt
func (p *PointLight) Distance(pt core.Point) float64 {
	return p.position.Distance(pt)
}

// SpotLight is a point light that only shines around a direction.
// Its intensity is scaled by max(0, dir·l)^narrowBeam.
type SpotLight struct {
	PointLight
	direction  core.Vector
	narrowBeam float64
}

// SpotOption configures a spot light
type SpotOption func(*SpotLight)

// WithSpotAttenuation sets the spot light's falloff factors
func WithSpotAttenuation(kC, kL, kQ float64) SpotOption {
	return func(s *SpotLight) { WithAttenuation(kC, kL, kQ)(&s.PointLight) }
}

// WithNarrowBeam sets the beam exponent; larger values focus the beam
func WithNarrowBeam(n float64) SpotOption {
	return func(s *SpotLight) { s.narrowBeam = n }
}

// NewSpotLight creates a spot light; the direction is normalized
func NewSpotLight(intensity core.Color, position core.Point, direction core.Vector, opts ...SpotOption) (*SpotLight, error) {
	dir, err := direction.Normalize()
	if err != nil {
		return nil, fmt.Errorf("spot light: %w", err)
	}
	s := &SpotLight{
		PointLight: PointLight{intensity: intensity, position: position, attenuation: defaultAttenuation},
		direction:  dir,
		narrowBeam: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.narrowBeam < 1 {
		return nil, fmt.Errorf("%w: narrow beam exponent must be at least 1, got %g", ErrInvalidLight, s.narrowBeam)
	}
	return s, nil
}

func (s *SpotLight) Type() LightType { return LightTypeSpot }

// Intensity returns the attenuated intensity at pt, scaled by the beam
func (s *SpotLight) Intensity(pt core.Point) core.Color {
	l, err := s.Direction(pt)
	if err != nil {
		return core.Black
	}
	cos := max(0, s.direction.Dot(l))
	if cos == 0 {
		return core.Black
	}
	return s.PointLight.Intensity(pt).Scale(math.Pow(cos, s.narrowBeam))
}
