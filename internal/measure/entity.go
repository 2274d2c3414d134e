// Package measure implements the planar measurement model: segments, angles,
// calibration and the interaction mode state machine that assembles them.
package measure

import (
	"frame-gauge/pkg/geometry"
)

// Entity kinds used as ID prefixes.
const (
	KindSegment = "seg"
	KindAngle   = "ang"
)

// Segment is a committed distance measurement between two points.
type Segment struct {
	ID string           `json:"id"`
	A  geometry.Point2D `json:"a"`
	B  geometry.Point2D `json:"b"`
}

// PixelLength returns the segment length in surface pixels.
func (s Segment) PixelLength() float64 {
	return Distance(s.A, s.B)
}

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() geometry.Point2D {
	return s.A.Midpoint(s.B)
}

// Angle is a committed angle measurement; B is the vertex.
type Angle struct {
	ID      string           `json:"id"`
	A       geometry.Point2D `json:"a"`
	B       geometry.Point2D `json:"b"`
	C       geometry.Point2D `json:"c"`
	Degrees float64          `json:"angle_deg"`
}

// NewAngle measures the angle at b and fails for a degenerate vertex.
func NewAngle(id string, a, b, c geometry.Point2D) (Angle, error) {
	deg, err := AngleAtVertex(a, b, c)
	if err != nil {
		return Angle{}, err
	}
	return Angle{ID: id, A: a, B: b, C: c, Degrees: deg}, nil
}
