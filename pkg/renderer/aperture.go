package renderer

import (
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// AperturePoints returns jittered lens sample points on the disk of the
// given radius around center, spanned by the up and right unit vectors.
// The center itself is always the first point. Roughly samples points are
// placed along each axis of the grid, so the disk holds about
// pi/4 * samples^2 points.
func AperturePoints(center core.Point, up, right core.Vector, radius float64, samples int, rng *rand.Rand) []core.Point {
	points := []core.Point{center}
	if radius <= 0 || samples <= 0 {
		return points
	}

	step := 2 * radius / float64(samples+1)
	jitter := step / 3

	for i := -radius + jitter; i < radius-jitter; i += step {
		for j := -radius + jitter; j < radius-jitter; j += step {
			if core.IsZero(i) || core.IsZero(j) {
				continue
			}
			p := center.
				AddScaled(right, i+rng.Float64()*jitter).
				AddScaled(up, j+rng.Float64()*jitter)
			if p.Distance(center) <= radius {
				points = append(points, p)
			}
		}
	}
	return points
}

// pixelRand returns the deterministic random source for one pixel, so a
// render does not depend on which worker traced which pixel
func pixelRand(nx, col, row int) *rand.Rand {
	return rand.New(rand.NewSource(int64(row*nx+col) + 42))
}
