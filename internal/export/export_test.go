package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"frame-gauge/internal/measure"
	"frame-gauge/pkg/geometry"
)

func calibrated(scale float64, unit measure.Unit) measure.Calibration {
	return measure.Calibration{Scale: &scale, Unit: unit}
}

func TestNewDocumentLengths(t *testing.T) {
	m := Model{
		Calibration: calibrated(0.5, measure.Millimeter),
		Segments: []measure.Segment{
			{ID: "seg-1", A: geometry.NewPoint2D(0, 0), B: geometry.NewPoint2D(100, 0)},
		},
		Width:  640,
		Height: 480,
	}

	doc := NewDocument(m, time.Unix(0, 0))
	if len(doc.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(doc.Segments))
	}
	rec := doc.Segments[0]
	if rec.LengthPx != 100 {
		t.Errorf("length_px failed: expected 100, got %v", rec.LengthPx)
	}
	if rec.LengthUnit == nil || *rec.LengthUnit != 50 {
		t.Errorf("length_unit failed: expected 50, got %v", rec.LengthUnit)
	}
	if doc.Scale == m.Calibration.Scale {
		t.Error("document scale aliases the session calibration")
	}
}

func TestNewDocumentUncalibrated(t *testing.T) {
	m := Model{
		Calibration: measure.NewCalibration(),
		Segments:    []measure.Segment{{ID: "seg-1", B: geometry.NewPoint2D(3, 4)}},
	}
	doc := NewDocument(m, time.Unix(0, 0))
	if doc.Scale != nil {
		t.Errorf("expected null scale, got %v", *doc.Scale)
	}
	if doc.Segments[0].LengthUnit != nil {
		t.Errorf("expected null length_unit, got %v", *doc.Segments[0].LengthUnit)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"scale": null`) {
		t.Errorf("expected null scale in output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"length_unit": null`) {
		t.Errorf("expected null length_unit in output:\n%s", buf.String())
	}
}

func TestWriteJSONIdempotent(t *testing.T) {
	m := Model{
		Calibration: calibrated(0.25, measure.Centimeter),
		Segments:    []measure.Segment{{ID: "seg-1", A: geometry.NewPoint2D(1, 2), B: geometry.NewPoint2D(5, 5)}},
		Angles: []measure.Angle{{
			ID: "ang-2", A: geometry.NewPoint2D(10, 0), B: geometry.NewPoint2D(0, 0), C: geometry.NewPoint2D(0, 10), Degrees: 90,
		}},
		Width:  320,
		Height: 240,
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var first, second bytes.Buffer
	if err := WriteJSON(&first, NewDocument(m, at)); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if err := WriteJSON(&second, NewDocument(m, at)); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if first.String() != second.String() {
		t.Errorf("exports differ:\n%s\n%s", first.String(), second.String())
	}

	doc, err := ReadJSON(&first)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if doc.Unit != measure.Centimeter || doc.Width != 320 || doc.Height != 240 {
		t.Errorf("header fields lost: %+v", doc)
	}
	if len(doc.Angles) != 1 || doc.Angles[0].AngleDeg != 90 || doc.Angles[0].ID != "ang-2" {
		t.Errorf("angle lost: %+v", doc.Angles)
	}
	if !doc.ExportedAt.Equal(at) {
		t.Errorf("timestamp failed: expected %v, got %v", at, doc.ExportedAt)
	}
}

func TestWriteCSVSegmentOnly(t *testing.T) {
	doc := NewDocument(Model{
		Calibration: calibrated(0.5, measure.Millimeter),
		Segments:    []measure.Segment{{ID: "seg-1", A: geometry.NewPoint2D(0, 0), B: geometry.NewPoint2D(100, 0)}},
	}, time.Unix(0, 0))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, doc); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %v", len(rows), rows)
	}
	if strings.Join(rows[0], ",") != strings.Join(SegmentHeader, ",") {
		t.Errorf("segment header failed: got %v", rows[0])
	}
	want := []string{"segment", "0", "0", "100", "0", "100.000", "50.000", "mm"}
	if strings.Join(rows[1], ",") != strings.Join(want, ",") {
		t.Errorf("segment row failed: expected %v, got %v", want, rows[1])
	}
	if strings.Join(rows[2], ",") != strings.Join(AngleHeader, ",") {
		t.Errorf("angle header failed: got %v", rows[2])
	}
}

func TestWriteCSVUnavailableLength(t *testing.T) {
	doc := NewDocument(Model{
		Calibration: measure.NewCalibration(),
		Segments:    []measure.Segment{{ID: "seg-1", B: geometry.NewPoint2D(3, 4)}},
		Angles: []measure.Angle{{
			ID: "ang-2", A: geometry.NewPoint2D(1, 0), B: geometry.NewPoint2D(0, 0), C: geometry.NewPoint2D(-1, 0), Degrees: 180,
		}},
	}, time.Unix(0, 0))

	var buf bytes.Buffer
	if err := WriteCSV(&buf, doc); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[1] != "segment,0,0,3,4,5.000,n/a,mm" {
		t.Errorf("segment row failed: got %q", lines[1])
	}
	if lines[3] != "angle,1,0,0,0,-1,0,180.00,-" {
		t.Errorf("angle row failed: got %q", lines[3])
	}
}

func TestWritePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("bounds failed: expected %v, got %v", img.Bounds(), decoded.Bounds())
	}
	if r, _, _, _ := decoded.At(1, 1).RGBA(); r>>8 != 255 {
		t.Errorf("pixel failed: expected red 255, got %d", r>>8)
	}

	if err := WritePNG(&buf, nil); !errors.Is(err, ErrExportFailure) {
		t.Errorf("expected ErrExportFailure for nil image, got %v", err)
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "session.csv")

	doc := NewDocument(Model{Calibration: measure.NewCalibration()}, time.Unix(0, 0))
	err := SaveFile(path, func(w io.Writer) error { return WriteCSV(w, doc) })
	if err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "type,x1,y1") {
		t.Errorf("unexpected content: %q", data)
	}

	boom := errors.New("boom")
	failed := filepath.Join(dir, "failed.json")
	err = SaveFile(failed, func(w io.Writer) error { return boom })
	if !errors.Is(err, ErrExportFailure) {
		t.Errorf("expected ErrExportFailure, got %v", err)
	}
	if _, statErr := os.Stat(failed); !os.IsNotExist(statErr) {
		t.Error("partial file was not removed")
	}
}
