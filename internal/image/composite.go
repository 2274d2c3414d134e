package image

import (
	"image"
	"image/draw"
)

// Flatten draws overlay on top of base at base's native resolution.
// A nil overlay yields a copy of base.
func Flatten(base, overlay *Layer) *image.RGBA {
	result := image.NewRGBA(image.Rect(0, 0, base.Width(), base.Height()))
	if base.Image != nil {
		draw.Draw(result, result.Bounds(), base.Image, base.Image.Bounds().Min, draw.Src)
	}
	if overlay != nil && overlay.Image != nil {
		draw.Draw(result, result.Bounds(), overlay.Image, overlay.Image.Bounds().Min, draw.Over)
	}
	return result
}
