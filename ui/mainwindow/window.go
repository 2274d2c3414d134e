// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log"
	"time"

	"frame-gauge/internal/app"
	"frame-gauge/internal/version"
	"frame-gauge/pkg/geometry"
	"frame-gauge/ui/canvas"
	"frame-gauge/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// livePeriod is the preview refresh interval while the frame is live.
const livePeriod = 66 * time.Millisecond

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs

	canvas    *canvas.ImageCanvas
	toolbar   *toolbar
	entities  *entityPanel
	statusBar *widget.Label

	stopLive context.CancelFunc
}

// New creates a new main window.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Frame Gauge")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		session: session,
		prefs:   p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.SetOnClosed(mw.shutdown)

	mw.Resize(fyne.NewSize(1200, 800))
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas()
	mw.canvas.SetFitToWindow(true)
	mw.canvas.OnLeftClick(mw.onCanvasClick)
	mw.canvas.OnRightClick(func(geometry.Point2D) {
		mw.session.SetMode(mw.session.Snapshot().Mode)
		mw.updateStatus("Partial input discarded")
	})

	mw.statusBar = widget.NewLabel("Ready")
	mw.toolbar = newToolbar(mw)
	mw.entities = newEntityPanel(mw)

	split := container.NewHSplit(
		mw.canvas.Container(),
		mw.entities.Container(),
	)
	split.SetOffset(0.78)

	content := container.NewBorder(
		mw.toolbar.Container(),            // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export PNG...", func() { mw.exportTo("png") }),
		fyne.NewMenuItem("Export JSON...", func() { mw.exportTo("json") }),
		fyne.NewMenuItem("Export CSV...", func() { mw.exportTo("csv") }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit to Window", func() { mw.canvas.SetFitToWindow(true) }),
		fyne.NewMenuItem("Actual Size", func() {
			mw.canvas.SetFitToWindow(false)
			mw.canvas.SetZoom(1.0)
		}),
	)

	measureMenu := fyne.NewMenu("Measure",
		fyne.NewMenuItem("Scale From Image Resolution", mw.onScaleFromDPI),
		fyne.NewMenuItem("Clear Measurements", func() { mw.session.ClearMeasurements() }),
		fyne.NewMenuItem("Reset All", func() { mw.session.ResetAll() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, measureMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventChanged, func(data interface{}) {
		snap, ok := data.(app.Snapshot)
		if !ok {
			return
		}
		mw.canvas.SetFrame(mw.session.Display())
		mw.toolbar.sync(snap)
		mw.entities.sync(snap)
		if snap.LastError != "" {
			mw.updateStatus("Error: " + snap.LastError)
		} else {
			mw.updateStatus(describe(snap))
		}
	})

	mw.session.On(app.EventCalibrationRequested, func(data interface{}) {
		if pair, ok := data.([2]geometry.Point2D); ok {
			mw.promptCalibration(pair)
		}
	})

	mw.session.On(app.EventError, func(data interface{}) {
		if err, ok := data.(error); ok {
			log.Printf("Session error: %v", err)
		}
	})
}

// StartLive begins refreshing the preview from the capture source until the
// frame is frozen or the window closes.
func (mw *MainWindow) StartLive() {
	ctx, cancel := context.WithCancel(context.Background())
	mw.stopLive = cancel

	go func() {
		ticker := time.NewTicker(livePeriod)
		defer ticker.Stop()
		failures := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := mw.session.PullLive(ctx); err != nil {
					failures++
					// Log the first of every 30 consecutive failures.
					if failures%30 == 1 {
						log.Printf("Live preview: %v", err)
					}
					continue
				}
				failures = 0
			}
		}
	}()
}

func (mw *MainWindow) shutdown() {
	if mw.stopLive != nil {
		mw.stopLive()
	}
	if err := mw.prefs.Save(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

func (mw *MainWindow) onCanvasClick(p geometry.Point2D) {
	if _, err := mw.session.PointerAt(p); err != nil {
		log.Printf("Point rejected at (%.1f, %.1f): %v", p.X, p.Y, err)
	}
}

func (mw *MainWindow) onScaleFromDPI() {
	if _, err := mw.session.ScaleFromFrameDPI(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// describe summarizes a snapshot for the status bar.
func describe(snap app.Snapshot) string {
	state := "Live"
	if snap.Frozen {
		state = "Frozen"
	}
	cal := "uncalibrated"
	if snap.Calibration.Scale != nil {
		cal = fmt.Sprintf("%.6f %s/px", *snap.Calibration.Scale, snap.Calibration.Unit)
	}
	s := fmt.Sprintf("%s | %s | %d segments, %d angles | %s",
		state, snap.Mode, len(snap.Segments), len(snap.Angles), cal)
	if n := len(snap.Pending); n > 0 {
		s += fmt.Sprintf(" | %d/%d points", n, snap.Mode.Arity())
	}
	if snap.AwaitingCalibration {
		s += " | awaiting reference length"
	}
	return s
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Frame Gauge",
		version.String()+"\n\n"+
			"Planar measurement on frozen camera frames.\n"+
			"Calibrate against a known length, then measure\n"+
			"distances and angles in real units.",
		mw.Window)
}
