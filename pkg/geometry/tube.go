package geometry

import (
	"fmt"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Tube is an infinite cylinder around an axis ray.
// Only its normal is defined; ray intersection is not supported and always
// reports no hit. Scene loaders reject tubes with ErrUnsupportedGeometry.
type Tube struct {
	surface
	Axis   core.Ray
	Radius float64
}

// NewTube creates a new tube; the radius must be positive
func NewTube(axis core.Ray, radius float64, opts ...Option) (*Tube, error) {
	if radius <= 0 || core.IsZero(radius) {
		return nil, fmt.Errorf("%w: tube radius must be positive, got %g", ErrInvalidGeometry, radius)
	}
	return &Tube{surface: newSurface(opts), Axis: axis, Radius: radius}, nil
}

// Normal returns the unit vector from the nearest axis point to p
func (t *Tube) Normal(p core.Point) (core.Vector, error) {
	return tubeNormal(t.Axis, p)
}

// Intersect is not supported for tubes
func (t *Tube) Intersect(core.Ray, float64) []GeoPoint {
	return nil
}

func tubeNormal(axis core.Ray, p core.Point) (core.Vector, error) {
	offset, err := p.Subtract(axis.Origin())
	if err != nil {
		return core.Vector{}, fmt.Errorf("tube normal on axis: %w", err)
	}
	proj := core.AlignZero(axis.Direction().Dot(offset))
	if proj == 0 {
		return offset.Normalize()
	}
	radial, err := p.Subtract(axis.PointAt(proj))
	if err != nil {
		return core.Vector{}, fmt.Errorf("tube normal on axis: %w", err)
	}
	return radial.Normalize()
}
