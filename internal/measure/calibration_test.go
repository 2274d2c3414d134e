package measure

import (
	"errors"
	"math"
	"testing"

	"frame-gauge/pkg/geometry"
)

func TestResolveCalibrationScenario(t *testing.T) {
	a := geometry.NewPoint2D(0, 0)
	b := geometry.NewPoint2D(0, 100)

	scale, err := ResolveCalibration(a, b, 50)
	if err != nil {
		t.Fatalf("ResolveCalibration failed: %v", err)
	}
	if scale != 0.5 {
		t.Errorf("expected scale 0.5, got %v", scale)
	}

	cal, err := NewCalibration().WithScale(&scale)
	if err != nil {
		t.Fatalf("WithScale failed: %v", err)
	}
	got, ok := cal.ToDisplayLength(Distance(a, b))
	if !ok {
		t.Fatal("expected calibrated length")
	}
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("expected 50, got %v", got)
	}
}

func TestCalibrationRoundTrip(t *testing.T) {
	cases := []struct {
		a, b geometry.Point2D
		real float64
	}{
		{geometry.NewPoint2D(3, 7), geometry.NewPoint2D(250, 91), 12.5},
		{geometry.NewPoint2D(-4, 2), geometry.NewPoint2D(1, 1), 0.001},
		{geometry.NewPoint2D(10, 10), geometry.NewPoint2D(1910, 1070), 2000},
	}
	for _, c := range cases {
		scale, err := ResolveCalibration(c.a, c.b, c.real)
		if err != nil {
			t.Fatalf("ResolveCalibration(%v, %v, %v) failed: %v", c.a, c.b, c.real, err)
		}
		cal := Calibration{Scale: &scale, Unit: Millimeter}
		got, _ := cal.ToDisplayLength(Distance(c.a, c.b))
		if math.Abs(got-c.real) > 1e-9*c.real {
			t.Errorf("round trip: expected %v, got %v", c.real, got)
		}
	}
}

func TestResolveCalibrationInvalidLength(t *testing.T) {
	a := geometry.NewPoint2D(0, 0)
	b := geometry.NewPoint2D(10, 0)

	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := ResolveCalibration(a, b, v); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("length %v: expected ErrInvalidLength, got %v", v, err)
		}
	}

	if _, err := ResolveCalibration(a, a, 10); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("coincident points: expected ErrInvalidLength, got %v", err)
	}
}

func TestToDisplayLengthUncalibrated(t *testing.T) {
	if _, ok := NewCalibration().ToDisplayLength(42); ok {
		t.Error("uncalibrated state reported a length")
	}
}

func TestToDisplayLengthOverflow(t *testing.T) {
	huge := 1e308
	cal := Calibration{Scale: &huge, Unit: Millimeter}
	if v, ok := cal.ToDisplayLength(10); ok {
		t.Errorf("overflowing length reported available: %v", v)
	}
	if v, ok := cal.ToDisplayLength(0.5); !ok || v != huge/2 {
		t.Errorf("ToDisplayLength failed: expected 5e307, got %v (ok=%v)", v, ok)
	}

	a := geometry.NewPoint2D(0, 0)
	b := geometry.NewPoint2D(0, 0.001)
	if _, err := ResolveCalibration(a, b, 1e308); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("overflowing scale: expected ErrInvalidLength, got %v", err)
	}
}

func TestWithScale(t *testing.T) {
	bad := -2.0
	cal := NewCalibration()
	if _, err := cal.WithScale(&bad); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}

	good := 0.25
	cal, err := cal.WithScale(&good)
	if err != nil {
		t.Fatalf("WithScale failed: %v", err)
	}
	good = 99
	if *cal.Scale != 0.25 {
		t.Errorf("calibration aliased caller value: got %v", *cal.Scale)
	}

	cal, _ = cal.WithScale(nil)
	if cal.Calibrated() {
		t.Error("nil scale should clear calibration")
	}
}

func TestScaleFromDPI(t *testing.T) {
	scale, err := ScaleFromDPI(254, Millimeter)
	if err != nil {
		t.Fatalf("ScaleFromDPI failed: %v", err)
	}
	if math.Abs(scale-0.1) > 1e-12 {
		t.Errorf("expected 0.1 mm/px, got %v", scale)
	}

	scale, _ = ScaleFromDPI(100, Inch)
	if math.Abs(scale-0.01) > 1e-12 {
		t.Errorf("expected 0.01 in/px, got %v", scale)
	}

	if _, err := ScaleFromDPI(0, Millimeter); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
}

func TestAngleAtVertex(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c geometry.Point2D
		want    float64
	}{
		{"right", geometry.NewPoint2D(10, 0), geometry.NewPoint2D(0, 0), geometry.NewPoint2D(0, 10), 90},
		{"straight", geometry.NewPoint2D(-5, 0), geometry.NewPoint2D(0, 0), geometry.NewPoint2D(5, 0), 180},
		{"collinear same side", geometry.NewPoint2D(1, 0), geometry.NewPoint2D(0, 0), geometry.NewPoint2D(3, 0), 0},
		{"forty five", geometry.NewPoint2D(1, 0), geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 1), 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AngleAtVertex(tt.a, tt.b, tt.c)
			if err != nil {
				t.Fatalf("AngleAtVertex failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			rev, _ := AngleAtVertex(tt.c, tt.b, tt.a)
			if math.Abs(rev-got) > 1e-12 {
				t.Errorf("not symmetric: %v vs %v", got, rev)
			}
			if got < 0 || got > 180 {
				t.Errorf("out of range: %v", got)
			}
		})
	}
}

func TestAngleAtVertexDegenerate(t *testing.T) {
	_, err := AngleAtVertex(geometry.NewPoint2D(0, 0), geometry.NewPoint2D(0, 0), geometry.NewPoint2D(1, 1))
	if !errors.Is(err, ErrDegenerateAngle) {
		t.Errorf("expected ErrDegenerateAngle, got %v", err)
	}
	_, err = NewAngle("ang-1", geometry.NewPoint2D(1, 1), geometry.NewPoint2D(0, 0), geometry.NewPoint2D(0, 0))
	if !errors.Is(err, ErrDegenerateAngle) {
		t.Errorf("expected ErrDegenerateAngle, got %v", err)
	}
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{"mm": Millimeter, "CM": Centimeter, "inches": Inch, " meter ": Meter} {
		got, err := ParseUnit(in)
		if err != nil || got != want {
			t.Errorf("ParseUnit(%q): expected %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParseUnit("furlong"); err == nil {
		t.Error("expected error for unknown unit")
	}
}
