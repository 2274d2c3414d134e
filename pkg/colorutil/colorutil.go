// Package colorutil provides shared color utilities for the frame gauge application.
package colorutil

import (
	"image/color"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Orange  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

// Translucent colors for the grid and label backgrounds.
var (
	GridLine = color.NRGBA{R: 255, G: 255, B: 255, A: 64}
	LabelBox = color.NRGBA{R: 20, G: 20, B: 20, A: 200}
)

// Luminance converts RGB (0-255) to perceived brightness using the
// ITU-R BT.601 weights.
func Luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}
