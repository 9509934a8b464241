package renderer

import (
	"sync"
	"testing"
)

func TestPixelDispenser_RowOrder(t *testing.T) {
	d := NewPixelDispenser(3, 2, 0, nil)
	expected := [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	for _, e := range expected {
		col, row, ok := d.Next()
		if !ok || col != e[0] || row != e[1] {
			t.Fatalf("Expected pixel %v, got (%d, %d, %v)", e, col, row, ok)
		}
	}
	if _, _, ok := d.Next(); ok {
		t.Error("Expected the dispenser to be exhausted")
	}
}

func TestPixelDispenser_Empty(t *testing.T) {
	for _, size := range [][2]int{{0, 5}, {5, 0}, {-1, 3}} {
		d := NewPixelDispenser(size[0], size[1], 0, nil)
		if _, _, ok := d.Next(); ok {
			t.Errorf("Expected no pixels for %dx%d", size[0], size[1])
		}
	}
}

func TestPixelDispenser_ExactlyOnceConcurrent(t *testing.T) {
	const nx, ny, workers = 61, 47, 16
	d := NewPixelDispenser(nx, ny, 0, nil)

	var mu sync.Mutex
	claimed := make(map[[2]int]int, nx*ny)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				col, row, ok := d.Next()
				if !ok {
					return
				}
				mu.Lock()
				claimed[[2]int{col, row}]++
				mu.Unlock()
				d.PixelDone()
			}
		}()
	}
	wg.Wait()

	if len(claimed) != nx*ny {
		t.Fatalf("Expected %d distinct pixels, got %d", nx*ny, len(claimed))
	}
	for p, n := range claimed {
		if n != 1 {
			t.Errorf("Pixel %v handed out %d times", p, n)
		}
		if p[0] < 0 || p[0] >= nx || p[1] < 0 || p[1] >= ny {
			t.Errorf("Pixel %v out of range", p)
		}
	}
	if d.Done() != nx*ny {
		t.Errorf("Expected %d pixels done, got %d", nx*ny, d.Done())
	}
}

func TestPixelDispenser_Progress(t *testing.T) {
	tests := []struct {
		interval float64
		lines    int
	}{
		{0, 0},
		{25, 4},
		{10, 10},
		{100, 1},
	}

	for _, tt := range tests {
		logger := &testLogger{}
		d := NewPixelDispenser(10, 10, tt.interval, logger)
		for {
			if _, _, ok := d.Next(); !ok {
				break
			}
			d.PixelDone()
		}
		if len(logger.lines) != tt.lines {
			t.Errorf("Interval %g: expected %d progress lines, got %d: %v", tt.interval, tt.lines, len(logger.lines), logger.lines)
		}
	}
}
