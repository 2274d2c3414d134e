// Package capture provides the frame sources a session freezes from.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	fgimage "frame-gauge/internal/image"
)

// ErrCaptureUnavailable is returned when a source cannot produce a frame.
var ErrCaptureUnavailable = errors.New("capture unavailable")

// Frame is one acquired raster. Image has its origin at (0,0).
type Frame struct {
	Image  *image.RGBA
	Width  int
	Height int
	DPI    float64 // Embedded resolution, 0 when unknown
}

// NewFrame wraps img in a frame, copying it into RGBA form.
func NewFrame(img image.Image) Frame {
	rgba := fgimage.ToRGBA(img)
	return Frame{Image: rgba, Width: rgba.Rect.Dx(), Height: rgba.Rect.Dy()}
}

// Empty reports whether the frame holds no pixels.
func (f Frame) Empty() bool {
	return f.Image == nil || f.Width == 0 || f.Height == 0
}

// Source produces frames on demand.
type Source interface {
	// Acquire returns the current frame. It returns ErrCaptureUnavailable
	// (possibly wrapped) when no frame can be produced, including when
	// ctx is done.
	Acquire(ctx context.Context) (Frame, error)
	Close() error
}

// StaticSource always returns a copy of the same image.
type StaticSource struct {
	img image.Image
}

// NewStaticSource returns a source serving img.
func NewStaticSource(img image.Image) *StaticSource {
	return &StaticSource{img: img}
}

// Acquire returns a fresh copy of the image.
func (s *StaticSource) Acquire(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}
	if s.img == nil || s.img.Bounds().Empty() {
		return Frame{}, ErrCaptureUnavailable
	}
	return NewFrame(s.img), nil
}

// Close is a no-op.
func (s *StaticSource) Close() error { return nil }
