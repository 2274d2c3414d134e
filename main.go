// Package main provides the entry point for the Frame Gauge application.
package main

import (
	"log"
	"os"

	"frame-gauge/internal/app"
	"frame-gauge/internal/capture"
	"frame-gauge/internal/capture/camera"
	"frame-gauge/internal/measure"
	"frame-gauge/internal/version"
	"frame-gauge/ui/mainwindow"
	"frame-gauge/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "io.github.framegauge"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	appPrefs := prefs.Load()

	// An image path on the command line replaces the camera.
	var src capture.Source
	if len(os.Args) > 1 {
		log.Printf("Reading frames from %s", os.Args[1])
		src = capture.NewFileSource(os.Args[1])
	} else {
		device := appPrefs.Int(prefs.KeyCameraDevice, 0)
		log.Printf("Reading frames from camera %d", device)
		src = camera.New(device)
	}
	defer src.Close()

	opts := app.DefaultOptions()
	if u, err := measure.ParseUnit(appPrefs.String(prefs.KeyUnit, measure.DefaultUnit.String())); err == nil {
		opts.Unit = u
	}
	opts.Grid = appPrefs.Bool(prefs.KeyShowGrid, false)
	opts.Edges = appPrefs.Bool(prefs.KeyShowEdges, false)
	opts.GridStep = appPrefs.Int(prefs.KeyGridStep, opts.GridStep)
	session := app.NewSession(src, opts)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.GaugeTheme{})

	win := mainwindow.New(fyneApp, session, appPrefs)
	win.StartLive()
	win.ShowAndRun()
}
