package renderer

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// ErrInvalidImage is returned for an image writer that cannot hold pixels
var ErrInvalidImage = errors.New("invalid image")

// PixelSink receives the rendered pixels of an Nx by Ny image. WritePixel
// may be called from several goroutines and in any order.
type PixelSink interface {
	Nx() int
	Ny() int
	WritePixel(col, row int, c core.Color)
	Flush() error
}

// ImageWriter is a PixelSink backed by an in-memory canvas that is saved
// as PNG on Flush
type ImageWriter struct {
	mu     sync.Mutex
	path   string
	nx, ny int
	dc     *gg.Context
}

// NewImageWriter creates an nx by ny canvas. An empty path keeps the image
// in memory only.
func NewImageWriter(path string, nx, ny int) (*ImageWriter, error) {
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("%w: resolution %dx%d", ErrInvalidImage, nx, ny)
	}
	return &ImageWriter{
		path: path,
		nx:   nx,
		ny:   ny,
		dc:   gg.NewContext(nx, ny),
	}, nil
}

// Nx returns the number of columns
func (w *ImageWriter) Nx() int { return w.nx }

// Ny returns the number of rows
func (w *ImageWriter) Ny() int { return w.ny }

// Path returns where Flush saves the image
func (w *ImageWriter) Path() string { return w.path }

// WritePixel sets one pixel, clamping the color to 8 bits per channel.
// Pixels outside the canvas are ignored.
func (w *ImageWriter) WritePixel(col, row int, c core.Color) {
	rgba := c.RGBA()
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dc.SetRGB255(int(rgba.R), int(rgba.G), int(rgba.B))
	w.dc.SetPixel(col, row)
}

// Flush saves the image as PNG, creating the parent directory if needed
func (w *ImageWriter) Flush() error {
	if w.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.dc.SavePNG(w.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", w.path, err)
	}
	return nil
}

// EncodePNG writes the current image as PNG
func (w *ImageWriter) EncodePNG(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dc.EncodePNG(out)
}

// Image returns the canvas backing the writer
func (w *ImageWriter) Image() image.Image {
	return w.dc.Image()
}
