package image

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func stepImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 10, G: 10, B: 10, A: 255}
			if x >= w/2 {
				c = color.RGBA{R: 250, G: 250, B: 250, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestApplySobelDeterministic(t *testing.T) {
	src := stepImage(16, 12)
	a := ToRGBA(src)
	b := ToRGBA(src)
	ApplySobel(a)
	ApplySobel(b)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("filtering the same source twice produced different output")
	}
}

func TestApplySobelBorderUntouched(t *testing.T) {
	src := stepImage(10, 8)
	img := ToRGBA(src)
	ApplySobel(img)

	b := img.Bounds()
	for x := 0; x < b.Dx(); x++ {
		for _, y := range []int{0, b.Dy() - 1} {
			if img.RGBAAt(x, y) != src.RGBAAt(x, y) {
				t.Fatalf("border pixel (%d,%d) changed", x, y)
			}
		}
	}
	for y := 0; y < b.Dy(); y++ {
		for _, x := range []int{0, b.Dx() - 1} {
			if img.RGBAAt(x, y) != src.RGBAAt(x, y) {
				t.Fatalf("border pixel (%d,%d) changed", x, y)
			}
		}
	}
}

func TestApplySobelStepEdge(t *testing.T) {
	img := stepImage(10, 8)
	ApplySobel(img)

	// Flat regions have zero gradient.
	if c := img.RGBAAt(2, 4); c != (color.RGBA{A: 255}) {
		t.Errorf("flat region: expected black, got %v", c)
	}
	// Columns beside the step saturate.
	for _, x := range []int{4, 5} {
		if c := img.RGBAAt(x, 4); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
			t.Errorf("edge column %d: expected white, got %v", x, c)
		}
	}
}

func TestApplySobelGray(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	// A single bright pixel to the right of center: Gx = 2*L.
	img.SetRGBA(2, 1, color.RGBA{R: 20, G: 20, B: 20, A: 255})
	ApplySobel(img)

	c := img.RGBAAt(1, 1)
	if c.R != 40 || c.G != 40 || c.B != 40 || c.A != 255 {
		t.Errorf("expected gray 40, got %v", c)
	}
}

func TestApplySobelTinyImage(t *testing.T) {
	img := stepImage(2, 2)
	before := append([]uint8(nil), img.Pix...)
	ApplySobel(img)
	if !bytes.Equal(before, img.Pix) {
		t.Error("image smaller than the kernel was modified")
	}
}
