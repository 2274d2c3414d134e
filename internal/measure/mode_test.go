package measure

import (
	"errors"
	"math"
	"strings"
	"testing"

	"frame-gauge/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestMachineMeasure(t *testing.T) {
	m := NewMachine(NewSequenceGenerator())
	m.SetMode(ModeMeasure)

	res, err := m.AddPoint(pt(0, 0))
	if err != nil {
		t.Fatalf("AddPoint failed: %v", err)
	}
	if res.Completed() || len(res.Pending) != 1 {
		t.Fatalf("expected 1 pending point, got %+v", res)
	}

	res, err = m.AddPoint(pt(3, 4))
	if err != nil {
		t.Fatalf("AddPoint failed: %v", err)
	}
	if res.Segment == nil {
		t.Fatal("expected a segment")
	}
	if res.Segment.ID != "seg-1" {
		t.Errorf("expected ID seg-1, got %s", res.Segment.ID)
	}
	if res.Segment.PixelLength() != 5 {
		t.Errorf("expected length 5, got %v", res.Segment.PixelLength())
	}
	if len(m.Pending()) != 0 {
		t.Errorf("buffer not cleared: %v", m.Pending())
	}
}

func TestMachineSelectIsNoop(t *testing.T) {
	m := NewMachine(NewSequenceGenerator())
	for i := 0; i < 5; i++ {
		res, err := m.AddPoint(pt(float64(i), 0))
		if err != nil || res.Completed() || len(res.Pending) != 0 {
			t.Fatalf("select mode accumulated state: %+v %v", res, err)
		}
	}
}

func TestMachineCalibrateReturnsPair(t *testing.T) {
	m := NewMachine(NewSequenceGenerator())
	m.SetMode(ModeCalibrate)
	m.AddPoint(pt(0, 0))
	res, _ := m.AddPoint(pt(0, 100))
	if res.CalibrationPair == nil {
		t.Fatal("expected calibration pair")
	}
	if res.CalibrationPair[0] != pt(0, 0) || res.CalibrationPair[1] != pt(0, 100) {
		t.Errorf("unexpected pair %v", *res.CalibrationPair)
	}
}

func TestMachineModeSwitchDiscardsPartial(t *testing.T) {
	m := NewMachine(NewSequenceGenerator())
	m.SetMode(ModeMeasure)
	m.AddPoint(pt(999, 999))

	m.SetMode(ModeAngle)
	if len(m.Pending()) != 0 {
		t.Fatalf("mode switch kept pending points: %v", m.Pending())
	}

	m.AddPoint(pt(10, 0))
	m.AddPoint(pt(0, 0))
	res, err := m.AddPoint(pt(0, 10))
	if err != nil {
		t.Fatalf("AddPoint failed: %v", err)
	}
	if res.Angle == nil {
		t.Fatal("expected an angle after three points")
	}
	if res.Angle.A != pt(10, 0) || res.Angle.B != pt(0, 0) || res.Angle.C != pt(0, 10) {
		t.Errorf("angle used leaked points: %+v", res.Angle)
	}
	if math.Abs(res.Angle.Degrees-90) > 1e-9 {
		t.Errorf("expected 90 degrees, got %v", res.Angle.Degrees)
	}
}

func TestMachineDegenerateAngle(t *testing.T) {
	m := NewMachine(NewSequenceGenerator())
	m.SetMode(ModeAngle)
	m.AddPoint(pt(0, 0))
	m.AddPoint(pt(0, 0))
	res, err := m.AddPoint(pt(1, 1))
	if !errors.Is(err, ErrDegenerateAngle) {
		t.Fatalf("expected ErrDegenerateAngle, got %v", err)
	}
	if res.Angle != nil {
		t.Error("degenerate angle produced an entity")
	}
	if len(m.Pending()) != 0 {
		t.Errorf("buffer not cleared after rejection: %v", m.Pending())
	}
}

func TestUUIDGenerator(t *testing.T) {
	g := UUIDGenerator{}
	a, b := g.NextID(KindSegment), g.NextID(KindSegment)
	if a == b {
		t.Error("expected distinct IDs")
	}
	if !strings.HasPrefix(a, "seg_") {
		t.Errorf("unexpected ID format %q", a)
	}
}

func TestParseMode(t *testing.T) {
	got, err := ParseMode("angle")
	if err != nil || got != ModeAngle {
		t.Errorf("expected Angle, got %v (%v)", got, err)
	}
	if _, err := ParseMode("zoom"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
