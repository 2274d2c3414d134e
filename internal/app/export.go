package app

import (
	"fmt"
	"io"
	"log"

	"frame-gauge/internal/export"
	"frame-gauge/internal/image"
)

// model builds the export model from the current state.
func (s *Session) model() export.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshotLocked()
	return export.Model{
		Calibration: snap.Calibration,
		Segments:    snap.Segments,
		Angles:      snap.Angles,
		Width:       snap.Width,
		Height:      snap.Height,
	}
}

// Document returns the export document stamped with the session clock.
func (s *Session) Document() export.Document {
	return export.NewDocument(s.model(), s.clock())
}

// ExportJSON writes the session as JSON.
func (s *Session) ExportJSON(w io.Writer) error {
	return s.finishExport("JSON", export.WriteJSON(w, s.Document()))
}

// ExportCSV writes the session as CSV.
func (s *Session) ExportCSV(w io.Writer) error {
	return s.finishExport("CSV", export.WriteCSV(w, s.Document()))
}

// ExportPNG writes the base frame with the overlay flattened on top.
func (s *Session) ExportPNG(w io.Writer) error {
	s.mu.RLock()
	if s.base == nil {
		s.mu.RUnlock()
		return s.finishExport("PNG", fmt.Errorf("%w: %w", export.ErrExportFailure, ErrNoFrame))
	}
	flat := image.Flatten(s.base, s.overlay)
	s.mu.RUnlock()
	return s.finishExport("PNG", export.WritePNG(w, flat))
}

func (s *Session) finishExport(kind string, err error) error {
	s.mu.Lock()
	if err != nil {
		err = fmt.Errorf("export %s: %w", kind, err)
		log.Printf("Export failed: %v", err)
	} else {
		log.Printf("Exported %s", kind)
	}
	_, err = s.commit(err)
	return err
}
