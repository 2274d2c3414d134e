package measure

import (
	"fmt"
	"math"

	"frame-gauge/pkg/geometry"
)

// Calibration converts pixel lengths into real-world units.
// Scale is nil until the session has been calibrated.
type Calibration struct {
	Scale *float64 `json:"scale"`
	Unit  Unit     `json:"unit"`
}

// NewCalibration returns an uncalibrated state in the default unit.
func NewCalibration() Calibration {
	return Calibration{Unit: DefaultUnit}
}

// Calibrated reports whether a scale is set.
func (c Calibration) Calibrated() bool {
	return c.Scale != nil
}

// ToDisplayLength converts a pixel length to the display unit.
// ok is false when no scale is set, or when the product overflows; the
// length is then unavailable, not zero.
func (c Calibration) ToDisplayLength(pixelLength float64) (float64, bool) {
	if c.Scale == nil {
		return 0, false
	}
	v := pixelLength * *c.Scale
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// WithScale returns a copy of c using scale, or uncalibrated when scale is nil.
func (c Calibration) WithScale(scale *float64) (Calibration, error) {
	if scale == nil {
		c.Scale = nil
		return c, nil
	}
	if err := checkLength(*scale); err != nil {
		return c, err
	}
	v := *scale
	c.Scale = &v
	return c, nil
}

// Distance returns the Euclidean distance between p and q in pixels.
func Distance(p, q geometry.Point2D) float64 {
	return p.Distance(q)
}

// ResolveCalibration derives the unit-per-pixel scale from two reference
// points and the real-world length between them.
func ResolveCalibration(a, b geometry.Point2D, realLength float64) (float64, error) {
	if err := checkLength(realLength); err != nil {
		return 0, err
	}
	d := Distance(a, b)
	if d == 0 {
		return 0, fmt.Errorf("%w: reference points coincide", ErrInvalidLength)
	}
	scale := realLength / d
	if math.IsInf(scale, 0) || scale == 0 {
		return 0, fmt.Errorf("%w: scale %v out of range", ErrInvalidLength, scale)
	}
	return scale, nil
}

// ScaleFromDPI returns the unit-per-pixel scale for an image scanned or
// captured at the given resolution.
func ScaleFromDPI(dpi float64, unit Unit) (float64, error) {
	if err := checkLength(dpi); err != nil {
		return 0, fmt.Errorf("resolution %v dpi: %w", dpi, err)
	}
	return 25.4 / dpi / unit.millimeters(), nil
}

// AngleAtVertex returns the angle in degrees between the rays b→a and b→c.
func AngleAtVertex(a, b, c geometry.Point2D) (float64, error) {
	ba := a.Sub(b)
	bc := c.Sub(b)
	na, nc := ba.Norm(), bc.Norm()
	if na == 0 || nc == 0 {
		return 0, ErrDegenerateAngle
	}
	cos := ba.Dot(bc) / (na * nc)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

func checkLength(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v is not a finite number", ErrInvalidLength, v)
	}
	if v <= 0 {
		return fmt.Errorf("%w: %v must be positive", ErrInvalidLength, v)
	}
	return nil
}
