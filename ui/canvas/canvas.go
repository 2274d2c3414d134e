// Package canvas provides a zoomable frame display that reports pointer
// taps in frame pixel coordinates.
package canvas

import (
	"image"
	"image/color"

	"frame-gauge/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

var background = color.RGBA{R: 24, G: 24, B: 24, A: 255}

// ImageCanvas displays one frame at a zoom level.
type ImageCanvas struct {
	widget.BaseWidget

	// Frame shown, already flattened with its overlay
	frame *image.RGBA

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Container
	scroll  *zoomScroll
	content *tapContent
	imgSize fyne.Size // Current frame display size

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	// Callbacks
	onZoomChange func(zoom float64)
	onLeftClick  func(p geometry.Point2D) // Left click in frame coordinates
	onRightClick func(p geometry.Point2D) // Right click in frame coordinates
}

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *ImageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *ImageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// tapContent wraps the raster to receive pointer events.
type tapContent struct {
	widget.BaseWidget
	canvas *ImageCanvas
	raster *fynecanvas.Raster
}

func newTapContent(ic *ImageCanvas, raster *fynecanvas.Raster) *tapContent {
	tc := &tapContent{canvas: ic, raster: raster}
	tc.ExtendBaseWidget(tc)
	return tc
}

func (tc *tapContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(tc.raster)
}

func (tc *tapContent) MinSize() fyne.Size {
	return tc.raster.MinSize()
}

func (tc *tapContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		tc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		tc.canvas.ZoomOut()
	}
}

// Tapped handles left-click events.
func (tc *tapContent) Tapped(ev *fyne.PointEvent) {
	if p, ok := tc.toFrame(ev.Position); ok && tc.canvas.onLeftClick != nil {
		tc.canvas.onLeftClick(p)
	}
}

// TappedSecondary handles right-click events.
func (tc *tapContent) TappedSecondary(ev *fyne.PointEvent) {
	if p, ok := tc.toFrame(ev.Position); ok && tc.canvas.onRightClick != nil {
		tc.canvas.onRightClick(p)
	}
}

func (tc *tapContent) toFrame(pos fyne.Position) (geometry.Point2D, bool) {
	// Workaround for Fyne bug: reject clicks outside widget bounds
	size := tc.Size()
	if pos.X < 0 || pos.Y < 0 || pos.X > size.Width || pos.Y > size.Height {
		return geometry.Point2D{}, false
	}
	if tc.canvas.frame == nil {
		return geometry.Point2D{}, false
	}
	return FrameCoordinates(pos, tc.canvas.scroll.Offset(), tc.canvas.imgSize, tc.canvas.frame.Bounds().Size())
}

// FrameCoordinates maps a tap in the viewport to frame pixel coordinates.
// display is the on-screen size of the whole frame and scroll the viewport's
// offset into it.
func FrameCoordinates(pos, scroll fyne.Position, display fyne.Size, frame image.Point) (geometry.Point2D, bool) {
	client := geometry.NewPoint2D(float64(pos.X+scroll.X), float64(pos.Y+scroll.Y))
	return geometry.ClientToSurface(client,
		geometry.NewSize(float64(frame.X), float64(frame.Y)),
		geometry.NewSize(float64(display.Width), float64(display.Height)),
		geometry.Point2D{},
	)
}

// NewImageCanvas creates a new image canvas.
func NewImageCanvas() *ImageCanvas {
	ic := &ImageCanvas{
		zoom:    1.0,
		imgSize: fyne.NewSize(640, 480),
	}

	ic.raster = fynecanvas.NewRaster(ic.draw)
	ic.raster.ScaleMode = fynecanvas.ImageScalePixels
	ic.raster.SetMinSize(ic.imgSize)

	ic.content = newTapContent(ic, ic.raster)
	ic.scroll = newZoomScroll(ic.content, ic)

	ic.ExtendBaseWidget(ic)
	return ic
}

// Container returns the canvas container for embedding in layouts.
func (ic *ImageCanvas) Container() fyne.CanvasObject {
	return ic.scroll
}

// SetFrame replaces the displayed frame. A frame of a new size refits the
// view when fit-to-window is on.
func (ic *ImageCanvas) SetFrame(frame *image.RGBA) {
	resized := ic.frame == nil || frame == nil || ic.frame.Bounds() != frame.Bounds()
	ic.frame = frame
	if !resized {
		ic.raster.Refresh()
		return
	}
	ic.updateContentSize()
	if ic.fitToWindow {
		ic.FitToWindow()
	}
}

// SetZoom sets the zoom level.
func (ic *ImageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	ic.zoom = zoom
	ic.updateContentSize()

	if ic.onZoomChange != nil {
		ic.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (ic *ImageCanvas) GetZoom() float64 {
	return ic.zoom
}

// ZoomIn increases the zoom level.
func (ic *ImageCanvas) ZoomIn() {
	ic.SetZoom(ic.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (ic *ImageCanvas) ZoomOut() {
	ic.SetZoom(ic.zoom / zoomStep)
}

// FitToWindow adjusts zoom to fit the frame in the visible area.
func (ic *ImageCanvas) FitToWindow() {
	if ic.frame == nil {
		return
	}
	bounds := ic.frame.Bounds()
	viewSize := ic.scroll.Size()
	if bounds.Empty() || viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(bounds.Dx())
	zoomY := float64(viewSize.Height) / float64(bounds.Dy())
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	ic.SetZoom(zoom * 0.98)
}

// SetFitToWindow enables or disables auto-fit on resize.
func (ic *ImageCanvas) SetFitToWindow(fit bool) {
	ic.fitToWindow = fit
	if fit {
		ic.FitToWindow()
	}
}

// CheckResize auto-fits after the viewport changes size when enabled.
func (ic *ImageCanvas) CheckResize(size fyne.Size) {
	if !ic.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != ic.lastScrollSize {
		ic.lastScrollSize = size
		ic.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (ic *ImageCanvas) OnZoomChange(callback func(zoom float64)) {
	ic.onZoomChange = callback
}

// OnLeftClick sets a callback for left-click events in frame coordinates.
func (ic *ImageCanvas) OnLeftClick(callback func(p geometry.Point2D)) {
	ic.onLeftClick = callback
}

// OnRightClick sets a callback for right-click events in frame coordinates.
func (ic *ImageCanvas) OnRightClick(callback func(p geometry.Point2D)) {
	ic.onRightClick = callback
}

// Refresh refreshes the canvas display.
func (ic *ImageCanvas) Refresh() {
	ic.raster.Refresh()
}

// updateContentSize updates the content size based on frame and zoom.
func (ic *ImageCanvas) updateContentSize() {
	if ic.frame == nil || ic.frame.Bounds().Empty() {
		ic.imgSize = fyne.NewSize(640, 480)
	} else {
		b := ic.frame.Bounds()
		ic.imgSize = fyne.NewSize(float32(float64(b.Dx())*ic.zoom), float32(float64(b.Dy())*ic.zoom))
	}

	ic.raster.SetMinSize(ic.imgSize)
	ic.raster.Resize(ic.imgSize)
	if ic.content != nil {
		ic.content.Resize(ic.imgSize)
		ic.content.Refresh()
	}
	ic.raster.Refresh()
	if ic.scroll != nil {
		ic.scroll.Refresh()
	}
}

// draw is the raster drawing function. The raster is sized to the zoomed
// frame, so the frame is scaled to fill it.
func (ic *ImageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(output, output.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)
	if ic.frame != nil {
		xdraw.NearestNeighbor.Scale(output, output.Bounds(), ic.frame, ic.frame.Bounds(), xdraw.Over, nil)
	}
	return output
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &imageCanvasRenderer{canvas: ic}
}

type imageCanvasRenderer struct {
	canvas *ImageCanvas
}

func (r *imageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
	r.canvas.CheckResize(size)
}

func (r *imageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *imageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *imageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *imageCanvasRenderer) Destroy() {}
