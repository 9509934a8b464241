package renderer

import (
	"sync"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// PixelDispenser hands out the pixels of an nx by ny image, row by row.
// Every pixel is returned by Next exactly once across all callers.
type PixelDispenser struct {
	mu sync.Mutex

	nx, ny int
	next   int // linear index of the next pixel to hand out
	done   int

	interval     float64 // percent between progress reports, 0 disables them
	lastReported float64
	logger       core.Logger
}

// NewPixelDispenser creates a dispenser. A positive interval logs progress
// every time that many percent of the pixels are done.
func NewPixelDispenser(nx, ny int, interval float64, logger core.Logger) *PixelDispenser {
	if logger == nil {
		logger = nopLogger{}
	}
	return &PixelDispenser{
		nx:       max(nx, 0),
		ny:       max(ny, 0),
		interval: interval,
		logger:   logger,
	}
}

// Total returns the number of pixels in the image
func (d *PixelDispenser) Total() int {
	return d.nx * d.ny
}

// Next claims the next pixel; ok is false once every pixel was handed out
func (d *PixelDispenser) Next() (col, row int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.next >= d.Total() {
		return 0, 0, false
	}
	col, row = d.next%d.nx, d.next/d.nx
	d.next++
	return col, row, true
}

// PixelDone records a finished pixel and reports progress when due
func (d *PixelDispenser) PixelDone() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.done++
	if d.interval <= 0 {
		return
	}
	percent := float64(d.done) * 100 / float64(d.Total())
	if percent-d.lastReported >= d.interval || d.done == d.Total() {
		d.lastReported = percent
		d.logger.Printf("Progress: %5.1f%% (%d/%d pixels)\n", percent, d.done, d.Total())
	}
}

// Done returns how many pixels were reported finished
func (d *PixelDispenser) Done() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}
