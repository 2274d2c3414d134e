package measure

import (
	"fmt"
	"strings"

	"frame-gauge/pkg/geometry"
)

// Mode is the active interaction mode.
type Mode int

const (
	ModeSelect Mode = iota
	ModeMeasure
	ModeCalibrate
	ModeAngle
)

func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "Select"
	case ModeMeasure:
		return "Measure"
	case ModeCalibrate:
		return "Calibrate"
	case ModeAngle:
		return "Angle"
	default:
		return "Unknown"
	}
}

// Arity returns how many points complete an entity in this mode.
// Select accumulates nothing and reports 0.
func (m Mode) Arity() int {
	switch m {
	case ModeMeasure, ModeCalibrate:
		return 2
	case ModeAngle:
		return 3
	default:
		return 0
	}
}

// Modes returns every mode in toolbar order.
func Modes() []Mode {
	return []Mode{ModeSelect, ModeMeasure, ModeCalibrate, ModeAngle}
}

// ParseMode accepts a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return ModeSelect, fmt.Errorf("unknown mode %q", s)
}

// Result describes what a single accepted point produced.
// At most one of Segment, Angle and CalibrationPair is set.
type Result struct {
	Pending         []geometry.Point2D
	Segment         *Segment
	Angle           *Angle
	CalibrationPair *[2]geometry.Point2D
}

// Completed reports whether the point filled the buffer.
func (r Result) Completed() bool {
	return r.Segment != nil || r.Angle != nil || r.CalibrationPair != nil
}

// Machine routes points into the pending buffer of the active mode.
type Machine struct {
	mode    Mode
	pending []geometry.Point2D
	ids     IDGenerator
}

// NewMachine returns a machine in Select mode.
func NewMachine(ids IDGenerator) *Machine {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Machine{mode: ModeSelect, ids: ids}
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Pending returns a copy of the pending buffer.
func (m *Machine) Pending() []geometry.Point2D {
	out := make([]geometry.Point2D, len(m.pending))
	copy(out, m.pending)
	return out
}

// SetMode switches modes and always discards partial input.
func (m *Machine) SetMode(mode Mode) {
	m.mode = mode
	m.pending = nil
}

// Reset discards partial input without changing mode.
func (m *Machine) Reset() {
	m.pending = nil
}

// AddPoint appends p in the active mode. When the mode's arity is reached
// the buffer is cleared and the completed entity (or calibration pair) is
// returned. A degenerate angle clears the buffer and returns ErrDegenerateAngle.
func (m *Machine) AddPoint(p geometry.Point2D) (Result, error) {
	arity := m.mode.Arity()
	if arity == 0 {
		return Result{Pending: m.Pending()}, nil
	}

	m.pending = append(m.pending, p)
	if len(m.pending) < arity {
		return Result{Pending: m.Pending()}, nil
	}

	pts := m.pending
	m.pending = nil

	switch m.mode {
	case ModeMeasure:
		seg := Segment{ID: m.ids.NextID(KindSegment), A: pts[0], B: pts[1]}
		return Result{Segment: &seg}, nil
	case ModeCalibrate:
		pair := [2]geometry.Point2D{pts[0], pts[1]}
		return Result{CalibrationPair: &pair}, nil
	case ModeAngle:
		ang, err := NewAngle("", pts[0], pts[1], pts[2])
		if err != nil {
			return Result{}, err
		}
		// A rejected angle does not consume an ID.
		ang.ID = m.ids.NextID(KindAngle)
		return Result{Angle: &ang}, nil
	}
	return Result{}, nil
}
