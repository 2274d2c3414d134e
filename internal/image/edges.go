package image

import (
	"image"
	"math"

	"frame-gauge/pkg/colorutil"

	"gonum.org/v1/gonum/mat"
)

// Sobel kernels, rows top to bottom.
var (
	sobelX = mat.NewDense(3, 3, []float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	})
	sobelY = mat.NewDense(3, 3, []float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	})
)

// LuminanceField returns the per-pixel luminance of img as a rows×cols matrix.
func LuminanceField(img *image.RGBA) *mat.Dense {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	field := mat.NewDense(max(h, 1), max(w, 1), nil)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			field.Set(y, x, colorutil.Luminance(float64(p[0]), float64(p[1]), float64(p[2])))
		}
	}
	return field
}

// ApplySobel replaces img in place with its Sobel gradient magnitude,
// written as opaque gray. The outermost one-pixel ring has no full
// neighborhood and is left as it was. The filter is not reversible;
// applying it twice filters the already-filtered image.
func ApplySobel(img *image.RGBA) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return
	}

	lum := LuminanceField(img).RawMatrix()
	kx, ky := sobelX.RawMatrix().Data, sobelY.RawMatrix().Data
	for y := 1; y < h-1; y++ {
		rows := [3][]float64{
			lum.Data[(y-1)*lum.Stride : (y-1)*lum.Stride+w],
			lum.Data[y*lum.Stride : y*lum.Stride+w],
			lum.Data[(y+1)*lum.Stride : (y+1)*lum.Stride+w],
		}
		for x := 1; x < w-1; x++ {
			var gx, gy float64
			for r, row := range rows {
				for c, v := range row[x-1 : x+2] {
					gx += kx[r*3+c] * v
					gy += ky[r*3+c] * v
				}
			}
			v := uint8(math.Round(math.Min(255, math.Sqrt(gx*gx+gy*gy))))

			i := y*img.Stride + x*4
			img.Pix[i+0] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
			img.Pix[i+3] = 255
		}
	}
}
