package mainwindow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"frame-gauge/internal/app"
	"frame-gauge/internal/measure"
	"frame-gauge/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// toolbar holds the session controls. sync copies a snapshot into the
// widgets; syncing suppresses the change callbacks that copy triggers.
type toolbar struct {
	mw      *MainWindow
	syncing bool

	mode    *widget.RadioGroup
	freeze  *widget.Button
	resume  *widget.Button
	refresh *widget.Button
	unit    *widget.Select
	scale   *widget.Entry
	grid    *widget.Check
	edges   *widget.Check

	box fyne.CanvasObject
}

func newToolbar(mw *MainWindow) *toolbar {
	tb := &toolbar{mw: mw}

	var modes []string
	for _, m := range measure.Modes() {
		modes = append(modes, m.String())
	}
	tb.mode = widget.NewRadioGroup(modes, tb.onMode)
	tb.mode.Horizontal = true
	tb.mode.Required = true

	tb.freeze = widget.NewButtonWithIcon("Freeze", theme.MediaPauseIcon(), tb.onFreeze)
	tb.resume = widget.NewButtonWithIcon("Resume", theme.MediaPlayIcon(), func() { mw.session.Resume() })
	tb.refresh = widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), tb.onRefresh)

	var units []string
	for _, u := range measure.Units() {
		units = append(units, u.String())
	}
	tb.unit = widget.NewSelect(units, tb.onUnit)

	tb.scale = widget.NewEntry()
	tb.scale.SetPlaceHolder("unit/px")
	tb.scale.OnSubmitted = tb.onScale
	setScale := widget.NewButton("Set", func() { tb.onScale(tb.scale.Text) })

	tb.grid = widget.NewCheck("Grid", tb.onGrid)
	tb.edges = widget.NewCheck("Edges", tb.onEdges)

	zoomOut := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomIn := widget.NewButton("+", mw.canvas.ZoomIn)
	fit := widget.NewButton("Fit", func() { mw.canvas.SetFitToWindow(true) })

	clearBtn := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() { mw.session.ClearMeasurements() })
	resetBtn := widget.NewButtonWithIcon("Reset", theme.DeleteIcon(), func() {
		dialog.ShowConfirm("Reset", "Discard all measurements and the calibration?", func(ok bool) {
			if ok {
				mw.session.ResetAll()
			}
		}, mw.Window)
	})
	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		mw.exportMenu()
	})

	scaleBox := container.NewBorder(nil, nil, nil, setScale, tb.scale)
	tb.box = container.NewVBox(
		container.NewHBox(tb.freeze, tb.resume, tb.refresh, widget.NewSeparator(), tb.mode),
		container.NewHBox(
			widget.NewLabel("Unit:"), tb.unit,
			widget.NewLabel("Scale:"), container.NewGridWrap(fyne.NewSize(180, scaleBox.MinSize().Height), scaleBox),
			tb.grid, tb.edges,
			widget.NewSeparator(),
			widget.NewLabel("Zoom:"), zoomOut, zoomIn, fit,
			widget.NewSeparator(),
			clearBtn, resetBtn, exportBtn,
		),
	)

	tb.sync(mw.session.Snapshot())
	return tb
}

// Container returns the toolbar for embedding in layouts.
func (tb *toolbar) Container() fyne.CanvasObject {
	return tb.box
}

func (tb *toolbar) sync(snap app.Snapshot) {
	tb.syncing = true
	defer func() { tb.syncing = false }()

	tb.mode.SetSelected(snap.Mode.String())
	tb.unit.SetSelected(snap.Calibration.Unit.String())
	tb.grid.SetChecked(snap.ShowGrid)
	tb.edges.SetChecked(snap.ShowEdges)
	if !tb.scale.Disabled() && tb.mw.Canvas().Focused() != tb.scale {
		if snap.Calibration.Scale != nil {
			tb.scale.SetText(strconv.FormatFloat(*snap.Calibration.Scale, 'g', 8, 64))
		} else {
			tb.scale.SetText("")
		}
	}

	if snap.Frozen {
		tb.freeze.Disable()
		tb.resume.Enable()
	} else {
		tb.freeze.Enable()
		tb.resume.Disable()
	}
	if snap.HasFrame() {
		tb.refresh.Enable()
	} else {
		tb.refresh.Disable()
	}
}

func (tb *toolbar) onMode(selected string) {
	if tb.syncing {
		return
	}
	mode, err := measure.ParseMode(selected)
	if err != nil {
		return
	}
	tb.mw.session.SetMode(mode)
}

func (tb *toolbar) onFreeze() {
	if _, err := tb.mw.session.Freeze(context.Background()); err != nil {
		dialog.ShowError(err, tb.mw.Window)
	}
}

func (tb *toolbar) onRefresh() {
	if _, err := tb.mw.session.RefreshFrame(context.Background()); err != nil {
		dialog.ShowError(err, tb.mw.Window)
	}
}

func (tb *toolbar) onUnit(selected string) {
	if tb.syncing {
		return
	}
	unit, err := measure.ParseUnit(selected)
	if err != nil {
		return
	}
	if _, err := tb.mw.session.SetUnit(unit); err == nil {
		tb.mw.prefs.SetString(prefs.KeyUnit, unit.String())
	}
}

func (tb *toolbar) onScale(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		tb.mw.session.SetScale(nil)
		return
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		dialog.ShowError(fmt.Errorf("%w: %q is not a number", measure.ErrInvalidLength, text), tb.mw.Window)
		return
	}
	if _, err := tb.mw.session.SetScale(&v); err != nil {
		dialog.ShowError(err, tb.mw.Window)
	}
}

func (tb *toolbar) onGrid(on bool) {
	if tb.syncing {
		return
	}
	tb.mw.session.SetGrid(on)
	tb.mw.prefs.SetBool(prefs.KeyShowGrid, on)
}

func (tb *toolbar) onEdges(on bool) {
	if tb.syncing {
		return
	}
	snap := tb.mw.session.SetEdges(on)
	tb.mw.prefs.SetBool(prefs.KeyShowEdges, on)
	if snap.Frozen {
		// The filter is destructive; re-acquire to apply or remove it.
		if _, err := tb.mw.session.RefreshFrame(context.Background()); err != nil {
			log.Printf("Refresh after edge toggle failed: %v", err)
		}
	}
}
