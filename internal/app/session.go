// Package app owns the measurement session: the frozen frame, the
// annotation overlay, the measured entities and the calibration.
package app

import (
	"errors"
	"fmt"
	goimage "image"
	"log"
	"slices"
	"sync"
	"time"

	"frame-gauge/internal/annotate"
	"frame-gauge/internal/capture"
	"frame-gauge/internal/image"
	"frame-gauge/internal/measure"
	"frame-gauge/pkg/geometry"
)

var (
	// ErrNotFrozen rejects pointer input while the frame is live.
	ErrNotFrozen = errors.New("frame is not frozen")
	// ErrNoFrame rejects commands that need a base frame before one exists.
	ErrNoFrame = errors.New("no frame acquired")
	// ErrNoCalibrationPair rejects ApplyCalibration without a completed pair.
	ErrNoCalibrationPair = errors.New("no calibration pair pending")
	// ErrNotFound is returned when deleting an unknown entity ID.
	ErrNotFound = errors.New("entity not found")
)

// Options configures a session.
type Options struct {
	IDs      measure.IDGenerator // Entity ID source
	Clock    func() time.Time    // Export timestamp source
	Unit     measure.Unit        // Initial display unit
	GridStep int                 // Grid spacing in surface pixels
	Grid     bool                // Grid initially shown
	Edges    bool                // Edge filter initially enabled
}

// DefaultOptions returns default session options.
func DefaultOptions() Options {
	return Options{
		IDs:      measure.UUIDGenerator{},
		Clock:    time.Now,
		Unit:     measure.DefaultUnit,
		GridStep: annotate.DefaultGridStep,
	}
}

// Snapshot is a copy of the session state for display.
type Snapshot struct {
	Mode                measure.Mode
	Pending             []geometry.Point2D
	Segments            []measure.Segment
	Angles              []measure.Angle
	Calibration         measure.Calibration
	AwaitingCalibration bool
	Frozen              bool
	ShowGrid            bool
	ShowEdges           bool
	LastError           string
	Width               int
	Height              int
}

// HasFrame reports whether a base frame exists.
func (s Snapshot) HasFrame() bool {
	return s.Width > 0 && s.Height > 0
}

// Session is the single owner of all measurement state. Commands are
// synchronous, safe for concurrent use, and redraw the overlay before
// returning the resulting Snapshot.
type Session struct {
	mu sync.RWMutex

	source   capture.Source
	machine  *measure.Machine
	renderer *annotate.Renderer
	clock    func() time.Time

	segments    []measure.Segment
	angles      []measure.Angle
	calibration measure.Calibration
	pair        *[2]geometry.Point2D

	frozen    bool
	showGrid  bool
	showEdges bool
	lastErr   string

	base    *image.Layer
	overlay *image.Layer

	listeners map[EventType][]EventListener
}

// NewSession creates a session acquiring frames from src.
func NewSession(src capture.Source, opts Options) *Session {
	def := DefaultOptions()
	if opts.IDs == nil {
		opts.IDs = def.IDs
	}
	if opts.Clock == nil {
		opts.Clock = def.Clock
	}
	if !opts.Unit.Valid() {
		opts.Unit = def.Unit
	}

	renderer := annotate.NewRenderer()
	if opts.GridStep > 0 {
		renderer.GridStep = opts.GridStep
	}

	cal := measure.NewCalibration()
	cal.Unit = opts.Unit

	return &Session{
		source:      src,
		machine:     measure.NewMachine(opts.IDs),
		renderer:    renderer,
		clock:       opts.Clock,
		calibration: cal,
		showGrid:    opts.Grid,
		showEdges:   opts.Edges,
		listeners:   make(map[EventType][]EventListener),
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Mode:                s.machine.Mode(),
		Pending:             s.machine.Pending(),
		Segments:            slices.Clone(s.segments),
		Angles:              slices.Clone(s.angles),
		Calibration:         s.calibration,
		AwaitingCalibration: s.pair != nil,
		Frozen:              s.frozen,
		ShowGrid:            s.showGrid,
		ShowEdges:           s.showEdges,
		LastError:           s.lastErr,
	}
	if s.calibration.Scale != nil {
		v := *s.calibration.Scale
		snap.Calibration.Scale = &v
	}
	if s.base != nil {
		snap.Width, snap.Height = s.base.Width(), s.base.Height()
	}
	return snap
}

// Display returns the flattened base frame with the overlay on top, or nil
// before the first frame.
func (s *Session) Display() *goimage.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.base == nil {
		return nil
	}
	return image.Flatten(s.base, s.overlay)
}

// redrawLocked clears and redraws the overlay from the model.
func (s *Session) redrawLocked() {
	if s.overlay == nil || s.overlay.Image == nil {
		return
	}
	pending := s.machine.Pending()
	if s.pair != nil {
		pending = append(pending, s.pair[0], s.pair[1])
	}
	s.renderer.Render(s.overlay.Image, annotate.Scene{
		Segments:    s.segments,
		Angles:      s.angles,
		Pending:     pending,
		Mode:        s.machine.Mode(),
		Calibration: s.calibration,
		ShowGrid:    s.showGrid,
	})
}

// commit redraws, records err as the last error, and notifies listeners
// after releasing the lock. It must be called with s.mu held and unlocks it.
func (s *Session) commit(err error) (Snapshot, error) {
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.lastErr = ""
	}
	s.redrawLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		s.Emit(EventError, err)
	}
	s.Emit(EventChanged, snap)
	return snap, err
}

// SetMode switches the interaction mode, discarding partial input.
func (s *Session) SetMode(mode measure.Mode) Snapshot {
	s.mu.Lock()
	s.machine.SetMode(mode)
	s.pair = nil
	snap, _ := s.commit(nil)
	return snap
}

// PointerAt feeds one surface coordinate to the active mode. Points outside
// the frame are ignored.
func (s *Session) PointerAt(p geometry.Point2D) (Snapshot, error) {
	s.mu.Lock()
	if !s.frozen {
		return s.commit(ErrNotFrozen)
	}
	if !p.IsFinite() || s.base == nil ||
		p.X < 0 || p.Y < 0 || p.X >= float64(s.base.Width()) || p.Y >= float64(s.base.Height()) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}

	res, err := s.machine.AddPoint(p)
	if err != nil {
		return s.commit(fmt.Errorf("angle rejected: %w", err))
	}

	var pair *[2]geometry.Point2D
	switch {
	case res.Segment != nil:
		s.segments = append(s.segments, *res.Segment)
	case res.Angle != nil:
		s.angles = append(s.angles, *res.Angle)
	case res.CalibrationPair != nil:
		s.pair = res.CalibrationPair
		pair = res.CalibrationPair
	}

	snap, _ := s.commit(nil)
	if pair != nil {
		s.Emit(EventCalibrationRequested, *pair)
	}
	return snap, nil
}

// ApplyCalibration resolves the pending reference pair against realLength.
// An invalid length leaves the calibration and the pair unchanged so the
// caller can re-prompt.
func (s *Session) ApplyCalibration(realLength float64) (Snapshot, error) {
	s.mu.Lock()
	if s.pair == nil {
		return s.commit(ErrNoCalibrationPair)
	}
	scale, err := measure.ResolveCalibration(s.pair[0], s.pair[1], realLength)
	if err != nil {
		return s.commit(fmt.Errorf("calibration rejected: %w", err))
	}
	s.calibration.Scale = &scale
	s.pair = nil
	log.Printf("Calibrated: %.6f %s/px from %.3f %s", scale, s.calibration.Unit, realLength, s.calibration.Unit)
	return s.commit(nil)
}

// CancelCalibration drops the pending reference pair.
func (s *Session) CancelCalibration() Snapshot {
	s.mu.Lock()
	s.pair = nil
	snap, _ := s.commit(nil)
	return snap
}

// SetUnit changes the display unit. The scale is kept as is, so it is read
// in the new unit from now on.
func (s *Session) SetUnit(u measure.Unit) (Snapshot, error) {
	s.mu.Lock()
	if !u.Valid() {
		return s.commit(fmt.Errorf("unknown unit %q", u))
	}
	s.calibration.Unit = u
	return s.commit(nil)
}

// SetScale overrides the scale directly. nil clears the calibration.
func (s *Session) SetScale(scale *float64) (Snapshot, error) {
	s.mu.Lock()
	cal, err := s.calibration.WithScale(scale)
	if err != nil {
		return s.commit(fmt.Errorf("scale rejected: %w", err))
	}
	s.calibration = cal
	if scale != nil {
		log.Printf("Scale set to %.6f %s/px", *scale, cal.Unit)
	}
	return s.commit(nil)
}

// SetGrid shows or hides the grid.
func (s *Session) SetGrid(on bool) Snapshot {
	s.mu.Lock()
	s.showGrid = on
	snap, _ := s.commit(nil)
	return snap
}

// SetEdges enables or disables the edge filter. The filter is destructive;
// the change applies to the next frozen or refreshed frame.
func (s *Session) SetEdges(on bool) Snapshot {
	s.mu.Lock()
	s.showEdges = on
	snap, _ := s.commit(nil)
	return snap
}

// ClearMeasurements removes all entities and partial input. Calibration
// is kept.
func (s *Session) ClearMeasurements() Snapshot {
	s.mu.Lock()
	s.segments = nil
	s.angles = nil
	s.pair = nil
	s.machine.Reset()
	snap, _ := s.commit(nil)
	return snap
}

// ResetAll clears measurements and calibration and returns to Select mode.
// The display unit and the frame are kept.
func (s *Session) ResetAll() Snapshot {
	s.mu.Lock()
	s.segments = nil
	s.angles = nil
	s.pair = nil
	s.machine.SetMode(measure.ModeSelect)
	s.calibration.Scale = nil
	log.Printf("Session reset")
	snap, _ := s.commit(nil)
	return snap
}

// DeleteSegment removes the segment with the given ID.
func (s *Session) DeleteSegment(id string) (Snapshot, error) {
	s.mu.Lock()
	i := slices.IndexFunc(s.segments, func(seg measure.Segment) bool { return seg.ID == id })
	if i < 0 {
		return s.commit(fmt.Errorf("segment %s: %w", id, ErrNotFound))
	}
	s.segments = slices.Delete(s.segments, i, i+1)
	return s.commit(nil)
}

// DeleteAngle removes the angle with the given ID.
func (s *Session) DeleteAngle(id string) (Snapshot, error) {
	s.mu.Lock()
	i := slices.IndexFunc(s.angles, func(a measure.Angle) bool { return a.ID == id })
	if i < 0 {
		return s.commit(fmt.Errorf("angle %s: %w", id, ErrNotFound))
	}
	s.angles = slices.Delete(s.angles, i, i+1)
	return s.commit(nil)
}
