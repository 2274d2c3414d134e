package mainwindow

import (
	"frame-gauge/internal/annotate"
	"frame-gauge/internal/app"
	"frame-gauge/internal/measure"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type entityRow struct {
	kind string
	id   string
	text string
}

// entityPanel lists the measured entities and deletes the selected one.
type entityPanel struct {
	mw       *MainWindow
	rows     []entityRow
	selected int

	list   *widget.List
	delete *widget.Button
	box    fyne.CanvasObject
}

func newEntityPanel(mw *MainWindow) *entityPanel {
	p := &entityPanel{mw: mw, selected: -1}

	p.list = widget.NewList(
		func() int { return len(p.rows) },
		func() fyne.CanvasObject { return widget.NewLabel("seg-0000 000.00 mm") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(p.rows) {
				o.(*widget.Label).SetText(p.rows[i].id + "  " + p.rows[i].text)
			}
		},
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		p.selected = i
		p.delete.Enable()
	}
	p.list.OnUnselected = func(widget.ListItemID) {
		p.selected = -1
		p.delete.Disable()
	}

	p.delete = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), p.onDelete)
	p.delete.Disable()

	p.box = container.NewBorder(widget.NewLabel("Measurements"), p.delete, nil, nil, p.list)
	return p
}

// Container returns the panel for embedding in layouts.
func (p *entityPanel) Container() fyne.CanvasObject {
	return p.box
}

func (p *entityPanel) sync(snap app.Snapshot) {
	rows := make([]entityRow, 0, len(snap.Segments)+len(snap.Angles))
	for _, seg := range snap.Segments {
		rows = append(rows, entityRow{measure.KindSegment, seg.ID, annotate.SegmentLabel(seg, snap.Calibration)})
	}
	for _, ang := range snap.Angles {
		rows = append(rows, entityRow{measure.KindAngle, ang.ID, annotate.FormatAngle(ang.Degrees)})
	}
	if len(rows) != len(p.rows) {
		p.list.UnselectAll()
	}
	p.rows = rows
	p.list.Refresh()
}

func (p *entityPanel) onDelete() {
	if p.selected < 0 || p.selected >= len(p.rows) {
		return
	}
	row := p.rows[p.selected]
	p.list.UnselectAll()

	var err error
	if row.kind == measure.KindAngle {
		_, err = p.mw.session.DeleteAngle(row.id)
	} else {
		_, err = p.mw.session.DeleteSegment(row.id)
	}
	if err != nil {
		dialog.ShowError(err, p.mw.Window)
	}
}
