package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels int           // Total number of pixels rendered
	TotalRays   int           // Total number of primary rays traced
	AverageRays float64       // Average primary rays per pixel
	MinRays     int           // Fewest rays traced for a single pixel
	MaxRays     int           // Most rays traced for a single pixel
	Workers     int           // Number of workers that took part
	Elapsed     time.Duration // Wall time of the render
}

// addPixel records one finished pixel
func (s *RenderStats) addPixel(rays int) {
	if s.TotalPixels == 0 || rays < s.MinRays {
		s.MinRays = rays
	}
	if rays > s.MaxRays {
		s.MaxRays = rays
	}
	s.TotalPixels++
	s.TotalRays += rays
}

// merge folds the counts of another worker into s
func (s *RenderStats) merge(other RenderStats) {
	if other.TotalPixels == 0 {
		return
	}
	if s.TotalPixels == 0 || other.MinRays < s.MinRays {
		s.MinRays = other.MinRays
	}
	if other.MaxRays > s.MaxRays {
		s.MaxRays = other.MaxRays
	}
	s.TotalPixels += other.TotalPixels
	s.TotalRays += other.TotalRays
}

func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageRays = float64(s.TotalRays) / float64(s.TotalPixels)
	}
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of the
// image on a 0-1 scale
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}
	return total / float64(pixels)
}
