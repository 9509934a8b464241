package renderer

import (
	"context"
	"runtime"
	"sync"
)

// PixelFunc renders one pixel and returns the number of primary rays it cast
type PixelFunc func(col, row int) (int, error)

// WorkerPool renders the pixels of a dispenser in parallel
type WorkerPool struct {
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup

	errOnce sync.Once
	err     error
}

// Worker repeatedly claims a pixel and renders it
type Worker struct {
	ID        int
	dispenser *PixelDispenser
	render    PixelFunc
	stats     RenderStats
	pool      *WorkerPool // Reference to parent pool for error reporting
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// A non-positive count uses one worker per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every pixel of the dispenser and blocks until the workers
// stop. The first pixel error cancels the remaining work and is returned.
// Cancellation is only observed between pixels.
func (wp *WorkerPool) Run(ctx context.Context, dispenser *PixelDispenser, render PixelFunc) (RenderStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp.err = nil
	wp.errOnce = sync.Once{}
	wp.workers = wp.workers[:0]
	for i := 0; i < wp.numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:        i,
			dispenser: dispenser,
			render:    render,
			pool:      wp,
		})
	}

	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, cancel, &wp.wg)
	}
	wp.wg.Wait()

	stats := RenderStats{Workers: wp.numWorkers}
	for _, worker := range wp.workers {
		stats.merge(worker.stats)
	}
	stats.finalize()

	if wp.err != nil {
		return stats, wp.err
	}
	return stats, ctx.Err()
}

func (wp *WorkerPool) fail(err error, cancel context.CancelFunc) {
	wp.errOnce.Do(func() {
		wp.err = err
		cancel()
	})
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, cancel context.CancelFunc, wg *sync.WaitGroup) {
	defer wg.Done()

	for ctx.Err() == nil {
		col, row, ok := w.dispenser.Next()
		if !ok {
			return
		}
		rays, err := w.render(col, row)
		if err != nil {
			w.pool.fail(err, cancel)
			return
		}
		w.stats.addPixel(rays)
		w.dispenser.PixelDone()
	}
}
