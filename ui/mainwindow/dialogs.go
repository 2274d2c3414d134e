package mainwindow

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"frame-gauge/internal/measure"
	"frame-gauge/pkg/geometry"
	"frame-gauge/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// promptCalibration asks for the real length between the reference pair.
// Invalid input keeps the pair and asks again.
func (mw *MainWindow) promptCalibration(pair [2]geometry.Point2D) {
	unit := mw.session.Snapshot().Calibration.Unit

	entry := widget.NewEntry()
	entry.SetPlaceHolder("e.g. 50")
	items := []*widget.FormItem{
		widget.NewFormItem("Reference", widget.NewLabel(fmt.Sprintf("%.1f px", measure.Distance(pair[0], pair[1])))),
		widget.NewFormItem("Length ("+unit.String()+")", entry),
	}

	dialog.ShowForm("Calibrate", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			mw.session.CancelCalibration()
			return
		}
		text := strings.TrimSpace(entry.Text)
		length, err := strconv.ParseFloat(text, 64)
		if err != nil {
			err = fmt.Errorf("%w: %q is not a number", measure.ErrInvalidLength, text)
		} else {
			_, err = mw.session.ApplyCalibration(length)
		}
		if err != nil {
			d := dialog.NewError(err, mw.Window)
			d.SetOnClosed(func() { mw.promptCalibration(pair) })
			d.Show()
		}
	}, mw.Window)
}

// exportMenu asks which format to export.
func (mw *MainWindow) exportMenu() {
	formats := widget.NewRadioGroup([]string{"PNG", "JSON", "CSV"}, nil)
	formats.SetSelected("PNG")
	dialog.ShowCustomConfirm("Export", "Next", "Cancel", formats, func(ok bool) {
		if ok && formats.Selected != "" {
			mw.exportTo(strings.ToLower(formats.Selected))
		}
	}, mw.Window)
}

// exportTo saves the session in the given format through a file dialog.
func (mw *MainWindow) exportTo(format string) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		switch format {
		case "png":
			err = mw.session.ExportPNG(writer)
		case "json":
			err = mw.session.ExportJSON(writer)
		default:
			err = mw.session.ExportCSV(writer)
		}
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.prefs.SetString(prefs.KeyLastExportDir, filepath.Dir(writer.URI().Path()))
		mw.updateStatus("Exported " + writer.URI().Path())
	}, mw.Window)

	fd.SetFileName("measurements." + format)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{"." + format}))
	if loc := mw.lastExportDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// lastExportDir returns the last used export directory as a ListableURI, or nil.
func (mw *MainWindow) lastExportDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastExportDir, "")
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}
