package annotate

import (
	"fmt"
	"math"

	"frame-gauge/internal/measure"
)

// FormatLength renders a calibrated length with 3 decimals below 10 units
// and 2 decimals from 10 up, followed by the unit symbol. The cut is made on
// the value rounded to 3 decimals, so 9.9996 prints as 10.00.
func FormatLength(value float64, unit measure.Unit) string {
	if math.Round(value*1000)/1000 < 10 {
		return fmt.Sprintf("%.3f %s", value, unit)
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}

// FormatAngle renders degrees with one decimal and a degree sign.
func FormatAngle(deg float64) string {
	return fmt.Sprintf("%.1f°", deg)
}

// SegmentLabel returns the text drawn next to a segment: its calibrated
// length, or the pixel length marked as uncalibrated.
func SegmentLabel(seg measure.Segment, cal measure.Calibration) string {
	px := seg.PixelLength()
	if v, ok := cal.ToDisplayLength(px); ok {
		return FormatLength(v, cal.Unit)
	}
	return fmt.Sprintf("%.1f px (uncal.)", px)
}
