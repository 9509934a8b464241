package renderer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

func TestConstructRay(t *testing.T) {
	camera4, err := baseBuilder(t).WithVpSize(8, 8).Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	camera3, err := baseBuilder(t).WithVpSize(6, 6).Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}

	tests := []struct {
		name     string
		camera   *Camera
		n        int
		col, row int
		expected core.Vector
	}{
		{"4x4 inside", camera4, 4, 1, 1, core.MustVector(1, -1, -10)},
		{"4x4 corner", camera4, 4, 0, 0, core.MustVector(3, -3, -10)},
		{"4x4 side", camera4, 4, 1, 0, core.MustVector(1, -3, -10)},
		{"3x3 center", camera3, 3, 1, 1, core.MustVector(0, 0, -10)},
		{"3x3 upper side", camera3, 3, 1, 0, core.MustVector(0, -2, -10)},
		{"3x3 left side", camera3, 3, 0, 1, core.MustVector(2, 0, -10)},
		{"3x3 corner", camera3, 3, 0, 0, core.MustVector(2, -2, -10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray, err := tt.camera.ConstructRay(tt.n, tt.n, tt.col, tt.row)
			if err != nil {
				t.Fatalf("ConstructRay() error: %v", err)
			}
			expected, _ := tt.expected.Normalize()
			if ray.Origin() != core.Origin {
				t.Errorf("Expected ray from the camera location, got %v", ray.Origin())
			}
			if !vectorNear(ray.Direction(), expected) {
				t.Errorf("Expected direction %v, got %v", expected, ray.Direction())
			}
		})
	}

	if _, err := camera3.ConstructRay(0, 3, 0, 0); !errors.Is(err, ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera for an empty grid, got %v", err)
	}
}

func TestCameraBuilder_FocusPoint(t *testing.T) {
	tests := []struct {
		name          string
		target        core.Point
		to, up, right core.Vector
	}{
		{"different height", core.NewPoint(3, 0, 4),
			core.MustVector(0.6, 0, 0.8), core.MustVector(-0.8, 0, 0.6), core.MustVector(0, -1, 0)},
		{"level target", core.NewPoint(3, 4, 0),
			core.MustVector(0.6, 0.8, 0), core.MustVector(0, 0, 1), core.MustVector(0.8, -0.6, 0)},
		{"straight below", core.NewPoint(0, 0, -3),
			core.MustVector(0, 0, -1), core.MustVector(0, -1, 0), core.MustVector(-1, 0, 0)},
		{"straight above", core.NewPoint(0, 0, 3),
			core.MustVector(0, 0, 1), core.MustVector(0, 1, 0), core.MustVector(-1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera, err := baseBuilder(t).WithVpSize(6, 6).WithFocusPoint(tt.target).Build()
			if err != nil {
				t.Fatalf("Failed to build camera: %v", err)
			}
			if !vectorNear(camera.To(), tt.to) {
				t.Errorf("Expected to %v, got %v", tt.to, camera.To())
			}
			if !vectorNear(camera.Up(), tt.up) {
				t.Errorf("Expected up %v, got %v", tt.up, camera.Up())
			}
			if !vectorNear(camera.Right(), tt.right) {
				t.Errorf("Expected right %v, got %v", tt.right, camera.Right())
			}
		})
	}

	_, err := baseBuilder(t).WithVpSize(6, 6).WithFocusPoint(core.Origin).Build()
	if !errors.Is(err, ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera when focusing on the camera location, got %v", err)
	}
}

func TestCameraBuilder_Rotation(t *testing.T) {
	tests := []struct {
		degrees   float64
		up, right core.Vector
	}{
		{0, core.MustVector(0, -1, 0), core.MustVector(-1, 0, 0)},
		{90, core.MustVector(-1, 0, 0), core.MustVector(0, 1, 0)},
		{180, core.MustVector(0, 1, 0), core.MustVector(1, 0, 0)},
		{270, core.MustVector(1, 0, 0), core.MustVector(0, -1, 0)},
		{360, core.MustVector(0, -1, 0), core.MustVector(-1, 0, 0)},
	}

	for _, tt := range tests {
		camera, err := baseBuilder(t).WithVpSize(6, 6).WithRotation(tt.degrees).Build()
		if err != nil {
			t.Fatalf("Failed to build camera rotated by %g: %v", tt.degrees, err)
		}
		if !vectorNear(camera.To(), core.MustVector(0, 0, -1)) {
			t.Errorf("Rotation %g changed the forward vector to %v", tt.degrees, camera.To())
		}
		if !vectorNear(camera.Up(), tt.up) {
			t.Errorf("Rotation %g: expected up %v, got %v", tt.degrees, tt.up, camera.Up())
		}
		if !vectorNear(camera.Right(), tt.right) {
			t.Errorf("Rotation %g: expected right %v, got %v", tt.degrees, tt.right, camera.Right())
		}
	}
}

func TestCameraBuilder_MissingResources(t *testing.T) {
	to, up := core.MustVector(0, 0, -1), core.AxisY
	complete := func() CameraBuilder {
		return NewCameraBuilder().
			WithLocation(core.Origin).
			WithDirection(to, up).
			WithVpSize(1, 1).
			WithVpDistance(1).
			WithImageWriter(newRecordingSink(1, 1)).
			WithRayTracer(constantTracer{})
	}

	tests := []struct {
		field   string
		builder CameraBuilder
	}{
		{"location", NewCameraBuilder().WithDirection(to, up)},
		{"direction", NewCameraBuilder().WithLocation(core.Origin).WithVpSize(1, 1)},
		{"view plane size", NewCameraBuilder().WithLocation(core.Origin).WithDirection(to, up).WithVpDistance(1)},
		{"view plane distance", NewCameraBuilder().WithLocation(core.Origin).WithDirection(to, up).WithVpSize(1, 1)},
		{"image writer", complete().WithImageWriter(nil)},
		{"ray tracer", complete().WithRayTracer(nil)},
		{"aperture", complete().WithSamples(4)},
		{"focal length", complete().WithAperture(1).WithSamples(4)},
		{"samples", complete().WithAperture(1).WithFocalLength(10)},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := tt.builder.Build()
			if !errors.Is(err, ErrMissingResource) {
				t.Fatalf("Expected ErrMissingResource, got %v", err)
			}
			var missing *MissingResourceError
			if !errors.As(err, &missing) || missing.Field != tt.field {
				t.Errorf("Expected missing %q, got %v", tt.field, err)
			}
		})
	}

	if _, err := complete().Build(); err != nil {
		t.Errorf("Expected complete builder to succeed, got %v", err)
	}
}

func TestCameraBuilder_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		builder CameraBuilder
	}{
		{"not orthogonal", baseBuilder(t).WithDirection(core.MustVector(0, 0, -1), core.MustVector(0, 1, 1))},
		{"zero width", baseBuilder(t).WithVpSize(0, 1)},
		{"negative height", baseBuilder(t).WithVpSize(1, -1)},
		{"zero distance", baseBuilder(t).WithVpDistance(0)},
		{"negative aperture", baseBuilder(t).WithAperture(-1)},
		{"zero focal length", baseBuilder(t).WithFocalLength(0)},
		{"zero samples", baseBuilder(t).WithSamples(0)},
		{"negative threads", baseBuilder(t).WithThreads(-2)},
		{"negative progress interval", baseBuilder(t).WithDebugPrint(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The first error wins even when later settings are valid
			_, err := tt.builder.WithVpSize(1, 1).Build()
			if !errors.Is(err, ErrInvalidCamera) {
				t.Errorf("Expected ErrInvalidCamera, got %v", err)
			}
		})
	}
}

func TestCameraBuilder_ValueSemantics(t *testing.T) {
	base := baseBuilder(t).WithVpSize(6, 6)
	narrow := base.WithVpSize(2, 2)

	wide, err := base.Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	if w, h := wide.ViewPlaneSize(); w != 6 || h != 6 {
		t.Errorf("Derived builder changed the original: %gx%g", w, h)
	}

	small, err := narrow.Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	if w, _ := small.ViewPlaneSize(); w != 2 {
		t.Errorf("Expected derived width 2, got %g", w)
	}
	if wide == small {
		t.Error("Expected every Build to return an independent camera")
	}
}

func TestCameraBuilder_DepthOfField(t *testing.T) {
	camera, err := baseBuilder(t).WithVpSize(6, 6).
		WithFocusPoint(core.NewPoint(0, 0, -50)).
		WithAperture(2).
		WithSamples(5).
		Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	if !camera.DepthOfField() {
		t.Fatal("Expected depth of field to be enabled")
	}
	if camera.FocalLength() != 50 {
		t.Errorf("Expected focal length from focus point 50, got %g", camera.FocalLength())
	}

	explicit, err := baseBuilder(t).WithVpSize(6, 6).
		WithFocusPoint(core.NewPoint(0, 0, -50)).
		WithAperture(2).
		WithFocalLength(20).
		WithSamples(5).
		Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	if explicit.FocalLength() != 20 {
		t.Errorf("Expected explicit focal length 20, got %g", explicit.FocalLength())
	}

	plain, err := baseBuilder(t).WithVpSize(6, 6).Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	if plain.DepthOfField() || plain.Aperture() != 0 {
		t.Error("Expected depth of field to be off without an aperture")
	}
}

func TestNewCameraBuilderFromConfig_Builtins(t *testing.T) {
	for _, b := range scene.Builtins() {
		t.Run(b.ID, func(t *testing.T) {
			s, err := b.New()
			if err != nil {
				t.Fatalf("Failed to build scene: %v", err)
			}
			tracer, err := NewRaytracerFromScene(s)
			if err != nil {
				t.Fatalf("Failed to create tracer: %v", err)
			}
			_, err = NewCameraBuilderFromConfig(s.CameraConfig).
				WithImageWriter(newRecordingSink(s.RenderConfig.Width, s.RenderConfig.Height)).
				WithRayTracer(tracer).
				Build()
			if err != nil {
				t.Errorf("Failed to build camera: %v", err)
			}
		})
	}
}

// redSphereCamera renders the red sphere scene into sink
func redSphereCamera(t *testing.T, sink PixelSink, b func(CameraBuilder) CameraBuilder) *Camera {
	t.Helper()
	s, err := scene.NewRedSphereScene()
	if err != nil {
		t.Fatalf("Failed to build scene: %v", err)
	}
	tracer, err := NewRaytracerFromScene(s)
	if err != nil {
		t.Fatalf("Failed to create tracer: %v", err)
	}
	builder := NewCameraBuilderFromConfig(s.CameraConfig).
		WithImageWriter(sink).
		WithRayTracer(tracer)
	if b != nil {
		builder = b(builder)
	}
	camera, err := builder.Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	return camera
}

func TestCamera_RenderRedSphere(t *testing.T) {
	render := func() (*ImageWriter, RenderStats) {
		writer, err := NewImageWriter("", 500, 500)
		if err != nil {
			t.Fatalf("Failed to create image writer: %v", err)
		}
		camera := redSphereCamera(t, writer, nil)
		stats, err := camera.Render(context.Background())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		return writer, stats
	}

	writer, stats := render()
	if stats.TotalPixels != 500*500 || stats.TotalRays != 500*500 {
		t.Errorf("Expected one ray for each of 250000 pixels, got %+v", stats)
	}
	if stats.MinRays != 1 || stats.MaxRays != 1 || stats.AverageRays != 1 {
		t.Errorf("Expected exactly one ray per pixel, got %+v", stats)
	}

	img := writer.Image()
	r, g, b, _ := img.At(250, 250).RGBA()
	if r>>8 < 203 || g != 0 || b != 0 {
		t.Errorf("Expected red (204, 0, 0) at the image center, got (%d, %d, %d)", r>>8, g>>8, b>>8)
	}
	for _, p := range [][2]int{{0, 0}, {499, 0}, {0, 499}, {499, 499}, {250, 10}} {
		if r, g, b, _ := img.At(p[0], p[1]).RGBA(); r != 0 || g != 0 || b != 0 {
			t.Errorf("Expected background at %v, got (%d, %d, %d)", p, r>>8, g>>8, b>>8)
		}
	}

	// Without depth of field the image is fully deterministic
	again, _ := render()
	var first, second bytes.Buffer
	if err := writer.EncodePNG(&first); err != nil {
		t.Fatal(err)
	}
	if err := again.EncodePNG(&second); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("Expected two renders of the same scene to be identical")
	}
}

func TestCamera_RenderWritesEveryPixelOnce(t *testing.T) {
	sink := newRecordingSink(37, 23)
	camera, err := baseBuilder(t).
		WithVpSize(6, 6).
		WithImageWriter(sink).
		WithRayTracer(constantTracer{color: core.NewColor(1, 2, 3)}).
		WithThreads(8).
		Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}

	stats, err := camera.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", stats.Workers)
	}
	if len(sink.writes) != 37*23 {
		t.Fatalf("Expected %d pixels written, got %d", 37*23, len(sink.writes))
	}
	for p, n := range sink.writes {
		if n != 1 {
			t.Errorf("Pixel %v written %d times", p, n)
		}
	}
	if sink.flushes != 0 {
		t.Error("Render must not flush the sink")
	}
	if err := camera.WriteToImage(); err != nil || sink.flushes != 1 {
		t.Errorf("Expected WriteToImage to flush once, got %d flushes, err %v", sink.flushes, err)
	}
}

func TestCamera_RenderErrors(t *testing.T) {
	errTrace := errors.New("trace failed")
	camera, err := baseBuilder(t).
		WithVpSize(6, 6).
		WithImageWriter(newRecordingSink(20, 20)).
		WithRayTracer(constantTracer{err: errTrace}).
		Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	if _, err := camera.Render(context.Background()); !errors.Is(err, errTrace) {
		t.Errorf("Expected tracer error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := newRecordingSink(20, 20)
	cancelled, err := baseBuilder(t).WithVpSize(6, 6).WithImageWriter(sink).Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}
	stats, err := cancelled.Render(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if stats.TotalPixels != 0 || len(sink.writes) != 0 {
		t.Errorf("Expected no pixels after cancellation, got %d", stats.TotalPixels)
	}
}

func TestCamera_DepthOfFieldMatchesSingleRay(t *testing.T) {
	plainSink := newRecordingSink(50, 50)
	plain := redSphereCamera(t, plainSink, nil)

	dofSink := newRecordingSink(50, 50)
	dof := redSphereCamera(t, dofSink, func(b CameraBuilder) CameraBuilder {
		return b.WithAperture(1e-9).WithFocalLength(1050).WithSamples(1)
	})

	for _, p := range [][2]int{{25, 25}, {24, 27}, {0, 0}, {49, 10}} {
		if _, err := plain.CastPixel(p[0], p[1]); err != nil {
			t.Fatalf("CastPixel failed: %v", err)
		}
		if _, err := dof.CastPixel(p[0], p[1]); err != nil {
			t.Fatalf("CastPixel failed: %v", err)
		}
		if a, b := plainSink.at(p[0], p[1]), dofSink.at(p[0], p[1]); !colorNear(a, b, 1e-6) {
			t.Errorf("Pixel %v: single ray %v, depth of field %v", p, a, b)
		}
	}
}

func TestCamera_DepthOfFieldSampling(t *testing.T) {
	sink := newRecordingSink(20, 20)
	camera := redSphereCamera(t, sink, func(b CameraBuilder) CameraBuilder {
		return b.WithAperture(3).WithFocalLength(1050).WithSamples(10)
	})

	first, err := camera.CastPixel(10, 10)
	if err != nil {
		t.Fatalf("CastPixel failed: %v", err)
	}
	if first <= 1 {
		t.Errorf("Expected several aperture rays, got %d", first)
	}
	color := sink.at(10, 10)

	second, err := camera.CastPixel(10, 10)
	if err != nil {
		t.Fatalf("CastPixel failed: %v", err)
	}
	if second != first || sink.at(10, 10) != color {
		t.Error("Expected the same pixel to be sampled identically every time")
	}
}

func TestCamera_PrintGrid(t *testing.T) {
	sink := newRecordingSink(50, 50)
	camera, err := baseBuilder(t).WithVpSize(6, 6).WithImageWriter(sink).Build()
	if err != nil {
		t.Fatalf("Failed to build camera: %v", err)
	}

	yellow := core.NewColor(255, 255, 0)
	if err := camera.PrintGrid(10, yellow); err != nil {
		t.Fatalf("PrintGrid failed: %v", err)
	}
	if got := len(sink.writes); got != 50*50-45*45 {
		t.Errorf("Expected %d grid pixels, got %d", 50*50-45*45, got)
	}
	if sink.at(20, 33) != yellow || sink.at(33, 40) != yellow {
		t.Error("Expected grid lines on multiples of the interval")
	}
	if _, ok := sink.colors[[2]int{33, 33}]; ok {
		t.Error("Expected pixels between grid lines to be untouched")
	}

	if err := camera.PrintGrid(0, yellow); !errors.Is(err, ErrInvalidCamera) {
		t.Errorf("Expected ErrInvalidCamera for zero interval, got %v", err)
	}
}
