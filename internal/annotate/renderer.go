// Package annotate draws measurement annotations onto a transparent overlay
// surface at the frame's native resolution.
package annotate

import (
	"image"
	"image/color"
	"log"
	"sync"

	"frame-gauge/internal/measure"
	"frame-gauge/pkg/colorutil"
	"frame-gauge/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultGridStep is the grid spacing in surface pixels.
const DefaultGridStep = 50

const (
	lineThickness = 2
	markerRadius  = 5.0
	labelPadding  = 3
	fontSize      = 14
)

// Label offsets from their anchor, in surface pixels.
var (
	segmentLabelOffset = image.Pt(8, -8)
	angleLabelOffset   = image.Pt(12, 20)
)

// Entity colors.
var (
	SegmentColor = colorutil.Cyan
	AngleColor   = colorutil.Green
	LabelColor   = colorutil.White
)

// PendingColor returns the marker color for uncommitted points in a mode.
func PendingColor(mode measure.Mode) color.RGBA {
	switch mode {
	case measure.ModeMeasure:
		return colorutil.Yellow
	case measure.ModeCalibrate:
		return colorutil.Orange
	case measure.ModeAngle:
		return colorutil.Magenta
	default:
		return colorutil.White
	}
}

// Scene is everything the renderer needs to draw one overlay.
type Scene struct {
	Segments    []measure.Segment
	Angles      []measure.Angle
	Pending     []geometry.Point2D
	Mode        measure.Mode
	Calibration measure.Calibration
	ShowGrid    bool
}

// Renderer draws scenes. The zero value is not usable; call NewRenderer.
// A renderer holds a font face and must not be used concurrently.
type Renderer struct {
	GridStep int
	face     font.Face
}

var (
	labelFontOnce sync.Once
	labelFont     *opentype.Font
	labelFontErr  error
)

// newLabelFace builds a face from the embedded Go Regular font, falling back
// to the fixed 7x13 face if the font cannot be loaded.
func newLabelFace() font.Face {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = opentype.Parse(goregular.TTF)
	})
	if labelFontErr == nil {
		face, err := opentype.NewFace(labelFont, &opentype.FaceOptions{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			return face
		}
		log.Printf("annotate: falling back to basic font: %v", err)
		return basicfont.Face7x13
	}
	log.Printf("annotate: falling back to basic font: %v", labelFontErr)
	return basicfont.Face7x13
}

// NewRenderer returns a renderer using the default grid step.
func NewRenderer() *Renderer {
	return &Renderer{
		GridStep: DefaultGridStep,
		face:     newLabelFace(),
	}
}

// Render clears dst and redraws the whole scene: grid, segments, angles,
// then pending points. Rendering the same scene twice yields the same pixels.
func (r *Renderer) Render(dst *image.RGBA, scene Scene) {
	clear(dst.Pix)

	if scene.ShowGrid {
		r.drawGrid(dst)
	}
	for _, seg := range scene.Segments {
		r.drawSegment(dst, seg, scene.Calibration)
	}
	for _, ang := range scene.Angles {
		r.drawAngle(dst, ang)
	}
	col := PendingColor(scene.Mode)
	for _, p := range scene.Pending {
		drawCircle(dst, p.X, p.Y, markerRadius, col, true)
	}
}

func (r *Renderer) drawGrid(dst *image.RGBA) {
	step := r.GridStep
	if step <= 0 {
		step = DefaultGridStep
	}
	b := dst.Bounds()
	for x := b.Min.X + step; x < b.Max.X; x += step {
		blendRect(dst, image.Rect(x, b.Min.Y, x+1, b.Max.Y), colorutil.GridLine)
	}
	for y := b.Min.Y + step; y < b.Max.Y; y += step {
		blendRect(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), colorutil.GridLine)
	}
}

func (r *Renderer) drawSegment(dst *image.RGBA, seg measure.Segment, cal measure.Calibration) {
	drawLine(dst, round(seg.A.X), round(seg.A.Y), round(seg.B.X), round(seg.B.Y), SegmentColor, lineThickness)
	drawCircle(dst, seg.A.X, seg.A.Y, markerRadius, SegmentColor, false)
	drawCircle(dst, seg.B.X, seg.B.Y, markerRadius, SegmentColor, false)

	mid := seg.Midpoint()
	anchor := image.Pt(round(mid.X), round(mid.Y)).Add(segmentLabelOffset)
	r.drawLabel(dst, SegmentLabel(seg, cal), anchor, SegmentColor)
}

func (r *Renderer) drawAngle(dst *image.RGBA, ang measure.Angle) {
	bx, by := round(ang.B.X), round(ang.B.Y)
	drawLine(dst, bx, by, round(ang.A.X), round(ang.A.Y), AngleColor, lineThickness)
	drawLine(dst, bx, by, round(ang.C.X), round(ang.C.Y), AngleColor, lineThickness)
	drawCircle(dst, ang.B.X, ang.B.Y, markerRadius, AngleColor, true)

	anchor := image.Pt(bx, by).Add(angleLabelOffset)
	r.drawLabel(dst, FormatAngle(ang.Degrees), anchor, AngleColor)
}

// drawLabel draws text on a dark box whose baseline starts at anchor.
// The box is shifted to stay inside dst.
func (r *Renderer) drawLabel(dst *image.RGBA, text string, anchor image.Point, border color.RGBA) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(LabelColor), Face: r.face}
	width := d.MeasureString(text).Ceil()
	m := r.face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()

	box := image.Rect(
		anchor.X-labelPadding, anchor.Y-ascent-labelPadding,
		anchor.X+width+labelPadding, anchor.Y+descent+labelPadding,
	)
	box = box.Add(shiftInside(box, dst.Bounds()))

	blendRect(dst, box, colorutil.LabelBox)
	drawLine(dst, box.Min.X, box.Min.Y, box.Max.X-1, box.Min.Y, border, 1)
	drawLine(dst, box.Min.X, box.Max.Y-1, box.Max.X-1, box.Max.Y-1, border, 1)

	d.Dot = fixed.P(box.Min.X+labelPadding, box.Min.Y+labelPadding+ascent)
	d.DrawString(text)
}

// shiftInside returns the offset that moves box within bounds where possible.
func shiftInside(box, bounds image.Rectangle) image.Point {
	var off image.Point
	if box.Max.X > bounds.Max.X {
		off.X = bounds.Max.X - box.Max.X
	}
	if box.Min.X+off.X < bounds.Min.X {
		off.X = bounds.Min.X - box.Min.X
	}
	if box.Max.Y > bounds.Max.Y {
		off.Y = bounds.Max.Y - box.Max.Y
	}
	if box.Min.Y+off.Y < bounds.Min.Y {
		off.Y = bounds.Min.Y - box.Min.Y
	}
	return off
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
