package annotate

import (
	"bytes"
	"image"
	"testing"

	"frame-gauge/internal/measure"
	"frame-gauge/pkg/geometry"
)

func TestFormatLength(t *testing.T) {
	tests := []struct {
		value float64
		unit  measure.Unit
		want  string
	}{
		{9.87654, measure.Millimeter, "9.877 mm"},
		{10, measure.Centimeter, "10.00 cm"},
		{50, measure.Millimeter, "50.00 mm"},
		{0.5, measure.Inch, "0.500 in"},
		{9.9996, measure.Millimeter, "10.00 mm"},
		{9.9994, measure.Millimeter, "9.999 mm"},
	}
	for _, tt := range tests {
		if got := FormatLength(tt.value, tt.unit); got != tt.want {
			t.Errorf("FormatLength(%v, %v): expected %q, got %q", tt.value, tt.unit, tt.want, got)
		}
	}
}

func TestFormatAngle(t *testing.T) {
	if got := FormatAngle(45); got != "45.0°" {
		t.Errorf("expected 45.0°, got %q", got)
	}
	if got := FormatAngle(179.96); got != "180.0°" {
		t.Errorf("expected 180.0°, got %q", got)
	}
}

func TestSegmentLabel(t *testing.T) {
	seg := measure.Segment{ID: "seg-1", A: geometry.NewPoint2D(0, 0), B: geometry.NewPoint2D(0, 100)}

	if got := SegmentLabel(seg, measure.NewCalibration()); got != "100.0 px (uncal.)" {
		t.Errorf("uncalibrated label: got %q", got)
	}

	scale := 0.5
	cal := measure.Calibration{Scale: &scale, Unit: measure.Millimeter}
	if got := SegmentLabel(seg, cal); got != "50.00 mm" {
		t.Errorf("calibrated label: got %q", got)
	}
}

func testScene() Scene {
	return Scene{
		Segments: []measure.Segment{{ID: "seg-1", A: geometry.NewPoint2D(20, 20), B: geometry.NewPoint2D(150, 90)}},
		Angles: []measure.Angle{{
			ID: "ang-2", A: geometry.NewPoint2D(40, 150), B: geometry.NewPoint2D(100, 150),
			C: geometry.NewPoint2D(100, 100), Degrees: 90,
		}},
		Pending:  []geometry.Point2D{geometry.NewPoint2D(180, 180)},
		Mode:     measure.ModeMeasure,
		ShowGrid: true,
	}
}

func TestRenderIdempotent(t *testing.T) {
	r := NewRenderer()
	a := image.NewRGBA(image.Rect(0, 0, 200, 200))
	b := image.NewRGBA(image.Rect(0, 0, 200, 200))

	r.Render(a, testScene())
	r.Render(b, testScene())
	r.Render(b, testScene())
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("redrawing the same scene changed the output")
	}
}

func TestRenderClearsStaleAnnotations(t *testing.T) {
	r := NewRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	r.Render(dst, testScene())
	r.Render(dst, Scene{})

	for i, v := range dst.Pix {
		if v != 0 {
			t.Fatalf("empty scene left pixel data at byte %d", i)
		}
	}
}

func TestRenderDrawsEntities(t *testing.T) {
	r := NewRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	r.Render(dst, testScene())

	if c := dst.RGBAAt(20, 20); c != SegmentColor {
		t.Errorf("segment endpoint: expected %v, got %v", SegmentColor, c)
	}
	if c := dst.RGBAAt(100, 150); c != AngleColor {
		t.Errorf("angle vertex: expected %v, got %v", AngleColor, c)
	}
	if c := dst.RGBAAt(180, 180); c != PendingColor(measure.ModeMeasure) {
		t.Errorf("pending point: expected %v, got %v", PendingColor(measure.ModeMeasure), c)
	}
	// Grid line at x=50 away from any entity is translucent.
	if c := dst.RGBAAt(50, 195); c.A == 0 || c.A == 255 {
		t.Errorf("grid line: expected translucent pixel, got %v", c)
	}
}

func TestRenderGridOff(t *testing.T) {
	r := NewRenderer()
	dst := image.NewRGBA(image.Rect(0, 0, 120, 120))
	r.Render(dst, Scene{ShowGrid: false})
	if c := dst.RGBAAt(50, 10); c.A != 0 {
		t.Errorf("grid drawn while disabled: %v", c)
	}
}

func TestShiftInside(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	off := shiftInside(image.Rect(90, -5, 120, 10), bounds)
	if off != image.Pt(-20, 5) {
		t.Errorf("expected (-20,5), got %v", off)
	}
}
