package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSV headers. The document holds two row groups with different columns;
// readers select parsing rules by the type field of each row.
var (
	SegmentHeader = []string{"type", "x1", "y1", "x2", "y2", "length_px", "length_unit", "unit"}
	AngleHeader   = []string{"type", "ax", "ay", "bx", "by", "cx", "cy", "angle_deg", "-"}
)

// Unavailable marks a calibrated length that cannot be computed.
const Unavailable = "n/a"

// WriteCSV writes the segment group followed by the angle group. Both
// headers are written even when a group has no rows.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	cw.Write(SegmentHeader)
	for _, s := range doc.Segments {
		lengthUnit := Unavailable
		if s.LengthUnit != nil {
			lengthUnit = num(*s.LengthUnit, 3)
		}
		cw.Write([]string{
			"segment",
			num(s.A.X, -1), num(s.A.Y, -1), num(s.B.X, -1), num(s.B.Y, -1),
			num(s.LengthPx, 3), lengthUnit, doc.Unit.String(),
		})
	}

	cw.Write(AngleHeader)
	for _, a := range doc.Angles {
		cw.Write([]string{
			"angle",
			num(a.A.X, -1), num(a.A.Y, -1), num(a.B.X, -1), num(a.B.Y, -1), num(a.C.X, -1), num(a.C.Y, -1),
			num(a.AngleDeg, 2), "-",
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: write csv: %v", ErrExportFailure, err)
	}
	return nil
}

func num(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
