package app

import (
	"context"
	"fmt"
	"log"

	"frame-gauge/internal/capture"
	"frame-gauge/internal/image"
	"frame-gauge/internal/measure"
	"frame-gauge/pkg/geometry"
)

// acquire requests one frame from the source without holding the lock.
func (s *Session) acquire(ctx context.Context) (capture.Frame, error) {
	if s.source == nil {
		return capture.Frame{}, capture.ErrCaptureUnavailable
	}
	frame, err := s.source.Acquire(ctx)
	if err != nil {
		return capture.Frame{}, err
	}
	if frame.Empty() {
		return capture.Frame{}, fmt.Errorf("%w: empty frame", capture.ErrCaptureUnavailable)
	}
	return frame, nil
}

// installLocked makes frame the base surface and sizes the overlay to match.
// The edge filter runs only when filter is set and edges are enabled; live
// preview frames are never filtered.
func (s *Session) installLocked(frame capture.Frame, filter bool) {
	base := image.NewLayer()
	base.Image = frame.Image
	base.DPI = frame.DPI
	if filter && s.showEdges {
		image.ApplySobel(base.Image)
	}
	s.base = base

	if s.overlay == nil || s.overlay.Width() != frame.Width || s.overlay.Height() != frame.Height {
		s.overlay = image.NewSurface(frame.Width, frame.Height)
	}
}

// Freeze acquires a frame and freezes it so points can be placed. Freezing
// an already frozen session does nothing.
func (s *Session) Freeze(ctx context.Context) (Snapshot, error) {
	if s.Snapshot().Frozen {
		return s.Snapshot(), nil
	}
	return s.load(ctx, true, "Frozen")
}

// Resume returns to the live state. Partial input is discarded; entities
// and the last frozen frame are kept.
func (s *Session) Resume() Snapshot {
	s.mu.Lock()
	s.frozen = false
	s.pair = nil
	s.machine.Reset()
	snap, _ := s.commit(nil)
	return snap
}

// RefreshFrame re-acquires the base frame, keeping the frozen state and all
// entities. It is how an edge filter change reaches the displayed frame.
func (s *Session) RefreshFrame(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.base == nil {
		return s.commit(ErrNoFrame)
	}
	frozen := s.frozen
	s.mu.Unlock()
	return s.load(ctx, frozen, "Refreshed")
}

// PullLive updates the base frame while the session is live. It is a no-op
// once frozen.
func (s *Session) PullLive(ctx context.Context) (Snapshot, error) {
	if s.Snapshot().Frozen {
		return s.Snapshot(), nil
	}
	frame, err := s.acquire(ctx)
	s.mu.Lock()
	if err != nil {
		return s.commit(err)
	}
	if s.frozen {
		// Frozen while acquiring; keep the frozen frame.
		return s.commit(nil)
	}
	s.installLocked(frame, false)
	snap, _ := s.commit(nil)
	s.Emit(EventFrameAcquired, geometry.NewSize(float64(frame.Width), float64(frame.Height)))
	return snap, nil
}

func (s *Session) load(ctx context.Context, freeze bool, verb string) (Snapshot, error) {
	frame, err := s.acquire(ctx)
	s.mu.Lock()
	if err != nil {
		log.Printf("Capture failed: %v", err)
		return s.commit(err)
	}
	s.installLocked(frame, true)
	s.frozen = freeze
	log.Printf("%s %dx%d frame (edges=%v)", verb, frame.Width, frame.Height, s.showEdges)

	snap, _ := s.commit(nil)
	s.Emit(EventFrameAcquired, geometry.NewSize(float64(frame.Width), float64(frame.Height)))
	return snap, nil
}

// ScaleFromFrameDPI sets the scale from the frame's embedded resolution,
// read in the current display unit.
func (s *Session) ScaleFromFrameDPI() (Snapshot, error) {
	s.mu.Lock()
	if s.base == nil {
		return s.commit(ErrNoFrame)
	}
	scale, err := measure.ScaleFromDPI(s.base.DPI, s.calibration.Unit)
	if err != nil {
		return s.commit(fmt.Errorf("frame resolution unusable: %w", err))
	}
	s.calibration.Scale = &scale
	log.Printf("Scale set from %.1f DPI: %.6f %s/px", s.base.DPI, scale, s.calibration.Unit)
	return s.commit(nil)
}
