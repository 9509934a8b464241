package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// Camera errors
var (
	ErrMissingResource = errors.New("missing resource")
	ErrInvalidCamera   = errors.New("invalid camera")
)

// MissingResourceError names the mandatory camera setting that was never set
type MissingResourceError struct {
	Field string
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingResource, e.Field)
}

func (e *MissingResourceError) Unwrap() error { return ErrMissingResource }

// Camera casts rays through a view plane and renders them into a PixelSink.
// A built Camera is never modified, so it can be shared by every worker.
type Camera struct {
	p0               core.Point
	to, up, right    core.Vector
	width, height    float64
	distance         float64
	pCenter          core.Point      // center of the view plane
	aperture         float64
	focalLength      float64
	samples          int
	focalPlane       *geometry.Plane // nil without depth of field
	threads          int
	progressInterval float64
	sink             PixelSink
	tracer           Tracer
	logger           core.Logger
}

// Location returns the camera position
func (c *Camera) Location() core.Point { return c.p0 }

// To returns the forward unit vector
func (c *Camera) To() core.Vector { return c.to }

// Up returns the upward unit vector
func (c *Camera) Up() core.Vector { return c.up }

// Right returns the rightward unit vector
func (c *Camera) Right() core.Vector { return c.right }

// ViewPlaneSize returns the view plane width and height
func (c *Camera) ViewPlaneSize() (width, height float64) { return c.width, c.height }

// Distance returns the distance from the camera to the view plane
func (c *Camera) Distance() float64 { return c.distance }

// DepthOfField reports whether pixels are traced through an aperture
func (c *Camera) DepthOfField() bool { return c.focalPlane != nil }

// Aperture returns the lens radius, 0 without depth of field
func (c *Camera) Aperture() float64 { return c.aperture }

// FocalLength returns the distance to the plane in focus, 0 without depth of field
func (c *Camera) FocalLength() float64 { return c.focalLength }

// Samples returns the aperture grid density, 0 without depth of field
func (c *Camera) Samples() int { return c.samples }

// Threads returns the configured worker count, 0 meaning one per CPU
func (c *Camera) Threads() int { return c.threads }

// Sink returns the pixel sink the camera renders into
func (c *Camera) Sink() PixelSink { return c.sink }

// ConstructRay returns the ray from the camera through the center of
// pixel (col, row) of an nx by ny grid laid over the view plane.
// Row 0 is the top of the image.
func (c *Camera) ConstructRay(nx, ny, col, row int) (core.Ray, error) {
	if nx <= 0 || ny <= 0 {
		return core.Ray{}, fmt.Errorf("%w: resolution %dx%d", ErrInvalidCamera, nx, ny)
	}

	xJ := (float64(col) - float64(nx-1)/2) * c.width / float64(nx)
	yI := -(float64(row) - float64(ny-1)/2) * c.height / float64(ny)

	pij := c.pCenter
	if !core.IsZero(xJ) {
		pij = pij.AddScaled(c.right, xJ)
	}
	if !core.IsZero(yI) {
		pij = pij.AddScaled(c.up, yI)
	}

	dir, err := pij.Subtract(c.p0)
	if err != nil {
		return core.Ray{}, err
	}
	return core.NewRay(c.p0, dir)
}

// CastPixel traces pixel (col, row) and writes its color to the sink.
// It returns the number of primary rays that were traced.
func (c *Camera) CastPixel(col, row int) (int, error) {
	nx, ny := c.sink.Nx(), c.sink.Ny()
	ray, err := c.ConstructRay(nx, ny, col, row)
	if err != nil {
		return 0, fmt.Errorf("pixel (%d, %d): %w", col, row, err)
	}

	var color core.Color
	rays := 1
	if c.focalPlane == nil {
		color, err = c.tracer.TraceRay(ray)
	} else {
		color, rays, err = c.castThroughAperture(ray, nx, col, row)
	}
	if err != nil {
		return 0, fmt.Errorf("pixel (%d, %d): %w", col, row, err)
	}

	c.sink.WritePixel(col, row, color)
	return rays, nil
}

// castThroughAperture averages rays from jittered lens points that all
// converge where the primary ray meets the focal plane
func (c *Camera) castThroughAperture(ray core.Ray, nx, col, row int) (core.Color, int, error) {
	hits := c.focalPlane.Intersect(ray, math.Inf(1))
	if len(hits) == 0 {
		color, err := c.tracer.TraceRay(ray)
		return color, 1, err
	}
	focalPoint := hits[0].Point

	points := AperturePoints(c.p0, c.up, c.right, c.aperture, c.samples, pixelRand(nx, col, row))
	rays := make([]core.Ray, 0, len(points))
	for _, p := range points {
		dir, err := focalPoint.Subtract(p)
		if err != nil {
			continue
		}
		r, err := core.NewRay(p, dir)
		if err != nil {
			continue
		}
		rays = append(rays, r)
	}

	color, err := c.tracer.TraceRays(rays)
	return color, len(rays), err
}

// Render traces every pixel of the sink using a pool of workers. The sink
// is not flushed; call WriteToImage for that.
func (c *Camera) Render(ctx context.Context) (RenderStats, error) {
	start := time.Now()
	nx, ny := c.sink.Nx(), c.sink.Ny()

	dispenser := NewPixelDispenser(nx, ny, c.progressInterval, c.logger)
	pool := NewWorkerPool(c.threads)
	c.logger.Printf("Rendering %dx%d image with %d workers\n", nx, ny, pool.GetNumWorkers())

	stats, err := pool.Run(ctx, dispenser, c.CastPixel)
	stats.Elapsed = time.Since(start)
	if err != nil {
		return stats, fmt.Errorf("render: %w", err)
	}

	c.logger.Printf("Rendered %d pixels with %d rays (%.2f per pixel) in %v\n",
		stats.TotalPixels, stats.TotalRays, stats.AverageRays, stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}

// PrintGrid draws grid lines every interval pixels over the image
func (c *Camera) PrintGrid(interval int, color core.Color) error {
	if interval <= 0 {
		return fmt.Errorf("%w: grid interval %d must be positive", ErrInvalidCamera, interval)
	}
	nx, ny := c.sink.Nx(), c.sink.Ny()
	for row := 0; row < ny; row++ {
		for col := 0; col < nx; col++ {
			if col%interval == 0 || row%interval == 0 {
				c.sink.WritePixel(col, row, color)
			}
		}
	}
	return nil
}

// WriteToImage flushes the sink
func (c *Camera) WriteToImage() error {
	return c.sink.Flush()
}

// CameraBuilder accumulates camera settings by value. Every With method
// returns an updated copy; the first invalid setting is kept and reported
// by Build.
type CameraBuilder struct {
	location    *core.Point
	to, up      core.Vector
	focusPoint  *core.Point
	width       float64
	height      float64
	distance    float64
	rotation    float64
	aperture    float64
	focalLength float64
	samples     int
	threads     int
	progress    float64
	sink        PixelSink
	tracer      Tracer
	logger      core.Logger
	err         error
}

// NewCameraBuilder returns an empty builder
func NewCameraBuilder() CameraBuilder {
	return CameraBuilder{}
}

// NewCameraBuilderFromConfig starts a builder from a scene camera description.
// Zero-valued optional settings are left unset.
func NewCameraBuilderFromConfig(cc scene.CameraConfig) CameraBuilder {
	b := NewCameraBuilder().WithLocation(cc.Location)
	if cc.FocusPoint != nil {
		b = b.WithFocusPoint(*cc.FocusPoint)
	} else if cc.To.IsValid() || cc.Up.IsValid() {
		b = b.WithDirection(cc.To, cc.Up)
	}
	if cc.Width != 0 || cc.Height != 0 {
		b = b.WithVpSize(cc.Width, cc.Height)
	}
	if cc.Distance != 0 {
		b = b.WithVpDistance(cc.Distance)
	}
	if cc.Rotation != 0 {
		b = b.WithRotation(cc.Rotation)
	}
	if cc.Aperture != 0 {
		b = b.WithAperture(cc.Aperture)
	}
	if cc.FocalLength != 0 {
		b = b.WithFocalLength(cc.FocalLength)
	}
	if cc.Samples != 0 {
		b = b.WithSamples(cc.Samples)
	}
	return b
}

func (b CameraBuilder) fail(err error) CameraBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// WithLocation sets the camera position
func (b CameraBuilder) WithLocation(p core.Point) CameraBuilder {
	b.location = &p
	return b
}

// WithDirection sets the forward and up vectors, which must be orthogonal
func (b CameraBuilder) WithDirection(to, up core.Vector) CameraBuilder {
	nTo, err := to.Normalize()
	if err != nil {
		return b.fail(fmt.Errorf("%w: forward vector: %w", ErrInvalidCamera, err))
	}
	nUp, err := up.Normalize()
	if err != nil {
		return b.fail(fmt.Errorf("%w: up vector: %w", ErrInvalidCamera, err))
	}
	if !core.IsZero(nTo.Dot(nUp)) {
		return b.fail(fmt.Errorf("%w: forward %v and up %v are not orthogonal", ErrInvalidCamera, to, up))
	}
	b.to, b.up = nTo, nUp
	b.focusPoint = nil
	return b
}

// WithFocusPoint aims the camera at a target; forward and up are derived
// from the location when the camera is built
func (b CameraBuilder) WithFocusPoint(target core.Point) CameraBuilder {
	b.focusPoint = &target
	b.to, b.up = core.Vector{}, core.Vector{}
	return b
}

// WithVpSize sets the view plane width and height
func (b CameraBuilder) WithVpSize(width, height float64) CameraBuilder {
	if width <= 0 || height <= 0 {
		return b.fail(fmt.Errorf("%w: view plane size %gx%g must be positive", ErrInvalidCamera, width, height))
	}
	b.width, b.height = width, height
	return b
}

// WithVpDistance sets the distance from the camera to the view plane
func (b CameraBuilder) WithVpDistance(distance float64) CameraBuilder {
	if distance <= 0 {
		return b.fail(fmt.Errorf("%w: view plane distance %g must be positive", ErrInvalidCamera, distance))
	}
	b.distance = distance
	return b
}

// WithRotation rolls up and right around the forward axis by degrees
func (b CameraBuilder) WithRotation(degrees float64) CameraBuilder {
	b.rotation = degrees
	return b
}

// WithAperture enables depth of field with the given lens radius
func (b CameraBuilder) WithAperture(radius float64) CameraBuilder {
	if radius <= 0 {
		return b.fail(fmt.Errorf("%w: aperture %g must be positive", ErrInvalidCamera, radius))
	}
	b.aperture = radius
	return b
}

// WithFocalLength sets the distance from the camera to the plane in focus
func (b CameraBuilder) WithFocalLength(length float64) CameraBuilder {
	if length <= 0 {
		return b.fail(fmt.Errorf("%w: focal length %g must be positive", ErrInvalidCamera, length))
	}
	b.focalLength = length
	return b
}

// WithSamples sets the aperture grid density used for depth of field
func (b CameraBuilder) WithSamples(n int) CameraBuilder {
	if n <= 0 {
		return b.fail(fmt.Errorf("%w: sample count %d must be positive", ErrInvalidCamera, n))
	}
	b.samples = n
	return b
}

// WithThreads sets the number of render workers; 0 uses one per CPU
func (b CameraBuilder) WithThreads(n int) CameraBuilder {
	if n < 0 {
		return b.fail(fmt.Errorf("%w: thread count %d must not be negative", ErrInvalidCamera, n))
	}
	b.threads = n
	return b
}

// WithDebugPrint logs progress every interval percent of the image
func (b CameraBuilder) WithDebugPrint(interval float64) CameraBuilder {
	if interval < 0 {
		return b.fail(fmt.Errorf("%w: progress interval %g must not be negative", ErrInvalidCamera, interval))
	}
	b.progress = interval
	return b
}

// WithImageWriter sets the sink pixels are written to
func (b CameraBuilder) WithImageWriter(sink PixelSink) CameraBuilder {
	b.sink = sink
	return b
}

// WithRayTracer sets the tracer that colors rays
func (b CameraBuilder) WithRayTracer(tracer Tracer) CameraBuilder {
	b.tracer = tracer
	return b
}

// WithLogger sets the progress logger; the default discards output
func (b CameraBuilder) WithLogger(logger core.Logger) CameraBuilder {
	b.logger = logger
	return b
}

// Build validates the settings and returns an independent camera
func (b CameraBuilder) Build() (*Camera, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.location == nil {
		return nil, &MissingResourceError{Field: "location"}
	}
	c := &Camera{p0: *b.location}

	if b.focusPoint != nil {
		to, up, err := lookAt(c.p0, *b.focusPoint)
		if err != nil {
			return nil, err
		}
		c.to, c.up = to, up
	} else {
		if !b.to.IsValid() || !b.up.IsValid() {
			return nil, &MissingResourceError{Field: "direction"}
		}
		c.to, c.up = b.to, b.up
	}

	if b.rotation != 0 {
		up, err := rotate(c.up, c.to, b.rotation)
		if err != nil {
			return nil, fmt.Errorf("%w: rotation: %w", ErrInvalidCamera, err)
		}
		c.up = up
	}

	right, err := c.to.Cross(c.up)
	if err != nil {
		return nil, fmt.Errorf("%w: right vector: %w", ErrInvalidCamera, err)
	}
	if c.right, err = right.Normalize(); err != nil {
		return nil, fmt.Errorf("%w: right vector: %w", ErrInvalidCamera, err)
	}

	if b.width == 0 || b.height == 0 {
		return nil, &MissingResourceError{Field: "view plane size"}
	}
	c.width, c.height = b.width, b.height

	if b.distance == 0 {
		return nil, &MissingResourceError{Field: "view plane distance"}
	}
	c.distance = b.distance
	c.pCenter = c.p0.AddScaled(c.to, c.distance)

	if b.sink == nil {
		return nil, &MissingResourceError{Field: "image writer"}
	}
	if b.tracer == nil {
		return nil, &MissingResourceError{Field: "ray tracer"}
	}
	c.sink, c.tracer = b.sink, b.tracer

	if err := b.buildDepthOfField(c); err != nil {
		return nil, err
	}

	c.threads = b.threads
	c.progressInterval = b.progress
	c.logger = b.logger
	if c.logger == nil {
		c.logger = nopLogger{}
	}
	return c, nil
}

// buildDepthOfField sets up the focal plane when an aperture was given.
// A focus point doubles as the default focal length.
func (b CameraBuilder) buildDepthOfField(c *Camera) error {
	focalLength := b.focalLength
	if b.aperture == 0 {
		if focalLength != 0 || b.samples != 0 {
			return &MissingResourceError{Field: "aperture"}
		}
		return nil
	}

	if focalLength == 0 && b.focusPoint != nil {
		focalLength = c.p0.Distance(*b.focusPoint)
	}
	if focalLength == 0 {
		return &MissingResourceError{Field: "focal length"}
	}
	if b.samples == 0 {
		return &MissingResourceError{Field: "samples"}
	}

	plane, err := geometry.NewPlane(c.p0.AddScaled(c.to, focalLength), c.to)
	if err != nil {
		return fmt.Errorf("%w: focal plane: %w", ErrInvalidCamera, err)
	}
	c.aperture = b.aperture
	c.focalLength = focalLength
	c.samples = b.samples
	c.focalPlane = plane
	return nil
}

// lookAt derives forward and up vectors for a camera at p0 aimed at target.
// A level target uses the world z axis as up; a target straight along the
// z axis uses the y axis.
func lookAt(p0, target core.Point) (to, up core.Vector, err error) {
	diff, err := target.Subtract(p0)
	if err != nil {
		return to, up, fmt.Errorf("%w: focus point equals camera location", ErrInvalidCamera)
	}
	if to, err = diff.Normalize(); err != nil {
		return to, up, fmt.Errorf("%w: %w", ErrInvalidCamera, err)
	}

	switch {
	case core.IsZero(target.Z - p0.Z):
		return to, core.AxisZ, nil
	case core.IsZero(to.X()) && core.IsZero(to.Y()) && to.Z() > 0:
		return to, core.AxisY, nil
	case core.IsZero(to.X()) && core.IsZero(to.Y()):
		return to, core.AxisY.Negate(), nil
	}

	plane, err := geometry.NewPlaneFromPoints(p0, target, core.NewPoint(target.X, target.Y, p0.Z))
	if err != nil {
		return to, up, fmt.Errorf("%w: focus point: %w", ErrInvalidCamera, err)
	}
	if up, err = to.Cross(plane.PlaneNormal()); err != nil {
		return to, up, fmt.Errorf("%w: focus point: %w", ErrInvalidCamera, err)
	}
	if up, err = up.Normalize(); err != nil {
		return to, up, fmt.Errorf("%w: focus point: %w", ErrInvalidCamera, err)
	}
	return to, up, nil
}

// rotate turns v around the unit axis by degrees using the axis-angle
// rotation matrix
func rotate(v, axis core.Vector, degrees float64) (core.Vector, error) {
	theta := degrees * math.Pi / 180
	c, s := math.Cos(theta), math.Sin(theta)
	t := 1 - c
	x, y, z := axis.X(), axis.Y(), axis.Z()

	m := [3][3]float64{
		{c + x*x*t, x*y*t - z*s, x*z*t + y*s},
		{y*x*t + z*s, c + y*y*t, y*z*t - x*s},
		{z*x*t - y*s, z*y*t + x*s, c + z*z*t},
	}
	in := [3]float64{v.X(), v.Y(), v.Z()}
	var out [3]float64
	for i := range m {
		out[i] = core.AlignZero(m[i][0]*in[0] + m[i][1]*in[1] + m[i][2]*in[2])
	}

	r, err := core.NewVector(out[0], out[1], out[2])
	if err != nil {
		return core.Vector{}, err
	}
	return r.Normalize()
}
