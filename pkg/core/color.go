package core

import (
	"image/color"
	"math"
)

// Double3 is a per-channel coefficient triple (diffuse, specular,
// transparency and reflection factors, attenuation)
type Double3 struct {
	R, G, B float64
}

// Common coefficient triples
var (
	Zero3 = Double3{0, 0, 0}
	One3  = Double3{1, 1, 1}
)

// NewDouble3 creates a new Double3
func NewDouble3(r, g, b float64) Double3 {
	return Double3{R: r, G: g, B: b}
}

// Uniform returns a triple with the same value in every channel
func Uniform(k float64) Double3 {
	return Double3{k, k, k}
}

// Add returns the channel-wise sum
func (d Double3) Add(other Double3) Double3 {
	return Double3{d.R + other.R, d.G + other.G, d.B + other.B}
}

// Product returns the channel-wise product
func (d Double3) Product(other Double3) Double3 {
	return Double3{d.R * other.R, d.G * other.G, d.B * other.B}
}

// Scale multiplies every channel by a scalar
func (d Double3) Scale(s float64) Double3 {
	return Double3{d.R * s, d.G * s, d.B * s}
}

// LowerThan reports whether every channel is below k
func (d Double3) LowerThan(k float64) bool {
	return d.R < k && d.G < k && d.B < k
}

// Color is an RGB intensity on a 0-255 scale. Values above 255 are legal
// while accumulating light and are clamped only on output.
type Color struct {
	R, G, B float64
}

// Black is the zero color
var Black = Color{}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns the sum of colors
func (c Color) Add(others ...Color) Color {
	for _, o := range others {
		c.R += o.R
		c.G += o.G
		c.B += o.B
	}
	return c
}

// Scale multiplies every channel by a scalar
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// ScaleBy multiplies each channel by the matching coefficient
func (c Color) ScaleBy(k Double3) Color {
	return Color{c.R * k.R, c.G * k.G, c.B * k.B}
}

// Reduce divides every channel by n
func (c Color) Reduce(n int) Color {
	if n <= 0 {
		return c
	}
	return c.Scale(1.0 / float64(n))
}

// RGBA converts to an 8-bit color, clamping each channel to [0, 255]
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: clampChannel(c.R),
		G: clampChannel(c.G),
		B: clampChannel(c.B),
		A: 255,
	}
}

func clampChannel(v float64) uint8 {
	return uint8(math.Round(max(0, min(255, v))))
}
