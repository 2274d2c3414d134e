package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"frame-gauge/internal/annotate"
	"frame-gauge/internal/app"
	"frame-gauge/internal/capture"
	"frame-gauge/internal/export"
	"frame-gauge/internal/image"
	"frame-gauge/internal/measure"
	"frame-gauge/pkg/geometry"

	"github.com/spf13/cobra"
)

type measureOptions struct {
	segments  []string
	angles    []string
	calibrate string
	scale     float64
	useDPI    bool
	unit      string
	grid      bool
	edges     bool
	jsonOut   string
	csvOut    string
	pngOut    string
	watch     bool
	debounce  time.Duration
}

var measureOpts measureOptions

var measureCmd = &cobra.Command{
	Use:   "measure <image>",
	Short: "Measure segments and angles on an image file",
	Long: `Freeze the image, optionally calibrate, place the given points and export.

Points are comma separated pixel coordinates:
  --calibrate x1,y1,x2,y2,length   reference pair and its real length
  --segment   x1,y1,x2,y2          repeatable
  --angle     ax,ay,bx,by,cx,cy    repeatable, b is the vertex

With --watch the image is re-read whenever it changes and the exports are
rewritten with the same points.`,
	Args: cobra.ExactArgs(1),
	RunE: runMeasure,
}

func init() {
	rootCmd.AddCommand(measureCmd)

	f := measureCmd.Flags()
	f.StringArrayVarP(&measureOpts.segments, "segment", "s", nil, "Segment endpoints x1,y1,x2,y2")
	f.StringArrayVarP(&measureOpts.angles, "angle", "a", nil, "Angle points ax,ay,bx,by,cx,cy")
	f.StringVarP(&measureOpts.calibrate, "calibrate", "c", "", "Reference pair and length x1,y1,x2,y2,length")
	f.Float64Var(&measureOpts.scale, "scale", 0, "Scale in units per pixel (overrides --calibrate)")
	f.BoolVar(&measureOpts.useDPI, "dpi", false, "Take the scale from the image's embedded resolution")
	f.StringVarP(&measureOpts.unit, "unit", "u", measure.DefaultUnit.String(), "Display unit: mm, cm, m or in")
	f.BoolVar(&measureOpts.grid, "grid", false, "Draw the grid on the PNG export")
	f.BoolVar(&measureOpts.edges, "edges", false, "Apply the edge filter to the frame")
	f.StringVar(&measureOpts.jsonOut, "json", "", "Write JSON export to this path")
	f.StringVar(&measureOpts.csvOut, "csv", "", "Write CSV export to this path")
	f.StringVar(&measureOpts.pngOut, "png", "", "Write annotated PNG to this path")
	f.BoolVarP(&measureOpts.watch, "watch", "w", false, "Re-measure when the image changes")
	f.DurationVar(&measureOpts.debounce, "debounce", capture.DefaultDebounce, "Quiet period before a change is processed")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !image.IsSupportedFormat(args[0]) {
		return fmt.Errorf("unsupported image format %q (supported: %v)", args[0], image.SupportedFormats())
	}
	src := capture.NewFileSource(args[0])
	defer src.Close()

	session, err := measureSession(ctx, src, measureOpts)
	if err != nil {
		return err
	}
	report(out, session.Snapshot())
	if err := writeOutputs(session, measureOpts); err != nil {
		return err
	}
	if !measureOpts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	src.SetDebounce(measureOpts.debounce)
	fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", args[0])
	err = src.Watch(ctx, func() {
		if _, err := session.RefreshFrame(ctx); err != nil {
			log.Printf("Reload failed: %v", err)
			return
		}
		report(out, session.Snapshot())
		if err := writeOutputs(session, measureOpts); err != nil {
			log.Printf("Export failed: %v", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// measureSession freezes the source and places every requested point
// through the same commands the desktop window uses.
func measureSession(ctx context.Context, src capture.Source, o measureOptions) (*app.Session, error) {
	unit, err := measure.ParseUnit(o.unit)
	if err != nil {
		return nil, err
	}

	opts := app.DefaultOptions()
	opts.IDs = measure.NewSequenceGenerator()
	opts.Unit = unit
	opts.Grid = o.grid
	opts.Edges = o.edges
	session := app.NewSession(src, opts)

	snap, err := session.Freeze(ctx)
	if err != nil {
		return nil, err
	}

	if o.calibrate != "" {
		v, err := parseNumbers(o.calibrate, 5)
		if err != nil {
			return nil, fmt.Errorf("--calibrate: %w", err)
		}
		session.SetMode(measure.ModeCalibrate)
		if err := place(session, snap, v[0:4]); err != nil {
			return nil, fmt.Errorf("--calibrate: %w", err)
		}
		if _, err := session.ApplyCalibration(v[4]); err != nil {
			return nil, err
		}
	}
	if o.useDPI {
		if _, err := session.ScaleFromFrameDPI(); err != nil {
			return nil, err
		}
	}
	if o.scale != 0 {
		if _, err := session.SetScale(&o.scale); err != nil {
			return nil, err
		}
	}

	session.SetMode(measure.ModeMeasure)
	for _, s := range o.segments {
		v, err := parseNumbers(s, 4)
		if err != nil {
			return nil, fmt.Errorf("--segment %s: %w", s, err)
		}
		if err := place(session, snap, v); err != nil {
			return nil, fmt.Errorf("--segment %s: %w", s, err)
		}
	}

	session.SetMode(measure.ModeAngle)
	for _, a := range o.angles {
		v, err := parseNumbers(a, 6)
		if err != nil {
			return nil, fmt.Errorf("--angle %s: %w", a, err)
		}
		if err := place(session, snap, v); err != nil {
			return nil, fmt.Errorf("--angle %s: %w", a, err)
		}
	}

	session.SetMode(measure.ModeSelect)
	return session, nil
}

// place feeds coordinate pairs to the session in order.
func place(session *app.Session, snap app.Snapshot, v []float64) error {
	for i := 0; i+1 < len(v); i += 2 {
		p := geometry.NewPoint2D(v[i], v[i+1])
		if p.X < 0 || p.Y < 0 || p.X >= float64(snap.Width) || p.Y >= float64(snap.Height) {
			return fmt.Errorf("point (%g, %g) is outside the %dx%d frame", p.X, p.Y, snap.Width, snap.Height)
		}
		if _, err := session.PointerAt(p); err != nil {
			return err
		}
	}
	return nil
}

func parseNumbers(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers, got %d", n, len(parts))
	}
	v := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		v[i] = f
	}
	return v, nil
}

func writeOutputs(session *app.Session, o measureOptions) error {
	outputs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{o.jsonOut, session.ExportJSON},
		{o.csvOut, session.ExportCSV},
		{o.pngOut, session.ExportPNG},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := export.SaveFile(out.path, out.write); err != nil {
			return err
		}
	}
	return nil
}

func report(w io.Writer, snap app.Snapshot) {
	fmt.Fprintf(w, "Frame: %dx%d\n", snap.Width, snap.Height)
	if snap.Calibration.Scale != nil {
		fmt.Fprintf(w, "Scale: %.6f %s/px\n", *snap.Calibration.Scale, snap.Calibration.Unit)
	} else {
		fmt.Fprintln(w, "Scale: uncalibrated")
	}
	if len(snap.Segments) > 0 {
		fmt.Fprintf(w, "\n%-10s %-24s %s\n", "Segment", "Endpoints", "Length")
		for _, s := range snap.Segments {
			ends := fmt.Sprintf("(%g,%g)-(%g,%g)", s.A.X, s.A.Y, s.B.X, s.B.Y)
			fmt.Fprintf(w, "%-10s %-24s %s\n", s.ID, ends, annotate.SegmentLabel(s, snap.Calibration))
		}
	}
	if len(snap.Angles) > 0 {
		fmt.Fprintf(w, "\n%-10s %-32s %s\n", "Angle", "Points", "Degrees")
		for _, a := range snap.Angles {
			pts := fmt.Sprintf("(%g,%g) (%g,%g) (%g,%g)", a.A.X, a.A.Y, a.B.X, a.B.Y, a.C.X, a.C.Y)
			fmt.Fprintf(w, "%-10s %-32s %s\n", a.ID, pts, annotate.FormatAngle(a.Degrees))
		}
	}
}
