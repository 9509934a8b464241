package renderer

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

const tolerance = 1e-9

func floatNear(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func vectorNear(a, b core.Vector) bool {
	return floatNear(a.X(), b.X()) && floatNear(a.Y(), b.Y()) && floatNear(a.Z(), b.Z())
}

func colorNear(a, b core.Color, eps float64) bool {
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps && math.Abs(a.B-b.B) < eps
}

// recordingSink keeps every written color and counts writes per pixel
type recordingSink struct {
	mu      sync.Mutex
	nx, ny  int
	colors  map[[2]int]core.Color
	writes  map[[2]int]int
	flushes int
}

func newRecordingSink(nx, ny int) *recordingSink {
	return &recordingSink{
		nx:     nx,
		ny:     ny,
		colors: make(map[[2]int]core.Color),
		writes: make(map[[2]int]int),
	}
}

func (s *recordingSink) Nx() int { return s.nx }
func (s *recordingSink) Ny() int { return s.ny }

func (s *recordingSink) WritePixel(col, row int, c core.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors[[2]int{col, row}] = c
	s.writes[[2]int{col, row}]++
}

func (s *recordingSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

func (s *recordingSink) at(col, row int) core.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colors[[2]int{col, row}]
}

// testLogger collects log lines
type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// constantTracer colors every ray the same
type constantTracer struct {
	color core.Color
	err   error
}

func (t constantTracer) TraceRay(core.Ray) (core.Color, error) { return t.color, t.err }

func (t constantTracer) TraceRays(rays []core.Ray) (core.Color, error) {
	return t.color, t.err
}

// baseBuilder has every mandatory setting of a camera at the origin
// looking down -z with up along -y
func baseBuilder(t *testing.T) CameraBuilder {
	t.Helper()
	return NewCameraBuilder().
		WithRayTracer(constantTracer{}).
		WithImageWriter(newRecordingSink(1, 1)).
		WithLocation(core.Origin).
		WithDirection(core.MustVector(0, 0, -1), core.MustVector(0, -1, 0)).
		WithVpDistance(10)
}
