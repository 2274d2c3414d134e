// Package export serializes a measurement session as JSON, CSV or a
// flattened PNG.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"frame-gauge/internal/measure"
	"frame-gauge/pkg/geometry"
)

// ErrExportFailure wraps every serialization or file-save error.
var ErrExportFailure = errors.New("export failed")

// Model is the read-only session state an export is built from.
type Model struct {
	Calibration measure.Calibration
	Segments    []measure.Segment
	Angles      []measure.Angle
	Width       int
	Height      int
}

// Document is the JSON export schema.
type Document struct {
	Unit       measure.Unit    `json:"unit"`
	Scale      *float64        `json:"scale"`
	Segments   []SegmentRecord `json:"segments"`
	Angles     []AngleRecord   `json:"angles"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	ExportedAt time.Time       `json:"exported_at"`
}

// SegmentRecord is one exported segment. LengthUnit is null when uncalibrated.
type SegmentRecord struct {
	ID         string           `json:"id"`
	A          geometry.Point2D `json:"a"`
	B          geometry.Point2D `json:"b"`
	LengthPx   float64          `json:"length_px"`
	LengthUnit *float64         `json:"length_unit"`
}

// AngleRecord is one exported angle; B is the vertex.
type AngleRecord struct {
	ID       string           `json:"id"`
	A        geometry.Point2D `json:"a"`
	B        geometry.Point2D `json:"b"`
	C        geometry.Point2D `json:"c"`
	AngleDeg float64          `json:"angle_deg"`
}

// NewDocument builds the export document. Entity order is preserved and the
// only input not taken from the model is the timestamp.
func NewDocument(m Model, exportedAt time.Time) Document {
	doc := Document{
		Unit:       m.Calibration.Unit,
		Segments:   make([]SegmentRecord, 0, len(m.Segments)),
		Angles:     make([]AngleRecord, 0, len(m.Angles)),
		Width:      m.Width,
		Height:     m.Height,
		ExportedAt: exportedAt.UTC(),
	}
	if m.Calibration.Scale != nil {
		scale := *m.Calibration.Scale
		doc.Scale = &scale
	}

	for _, seg := range m.Segments {
		rec := SegmentRecord{ID: seg.ID, A: seg.A, B: seg.B, LengthPx: seg.PixelLength()}
		if v, ok := m.Calibration.ToDisplayLength(rec.LengthPx); ok {
			rec.LengthUnit = &v
		}
		doc.Segments = append(doc.Segments, rec)
	}
	for _, ang := range m.Angles {
		doc.Angles = append(doc.Angles, AngleRecord{ID: ang.ID, A: ang.A, B: ang.B, C: ang.C, AngleDeg: ang.Degrees})
	}
	return doc
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode json: %v", ErrExportFailure, err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: write json: %v", ErrExportFailure, err)
	}
	return nil
}

// ReadJSON decodes a document previously written by WriteJSON.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}

// WritePNG encodes img without metadata at its native resolution.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: no image to encode", ErrExportFailure)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("%w: encode png: %v", ErrExportFailure, err)
	}
	return nil
}

// SaveFile creates path and passes it to write. A partially written file is
// removed when write fails.
func SaveFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrExportFailure, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		if errors.Is(err, ErrExportFailure) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailure, err)
	}
	return nil
}
