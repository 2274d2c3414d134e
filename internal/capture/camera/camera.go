// Package camera acquires frames from a local video device through OpenCV.
package camera

import (
	"context"
	"fmt"
	"log"
	"sync"

	"frame-gauge/internal/capture"

	"gocv.io/x/gocv"
)

// warmupFrames are read and discarded after opening; many devices deliver
// dark or partial frames while exposure settles.
const warmupFrames = 3

// Source reads frames from a video device. The device is opened lazily on
// the first Acquire and stays open until Close.
type Source struct {
	device int

	mu  sync.Mutex
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// New returns a source for the given device index.
func New(device int) *Source {
	return &Source{device: device}
}

// Device returns the device index.
func (s *Source) Device() int {
	return s.device
}

func (s *Source) open() error {
	if s.cap != nil {
		return nil
	}
	vc, err := gocv.OpenVideoCapture(s.device)
	if err != nil {
		return fmt.Errorf("%w: open device %d: %v", capture.ErrCaptureUnavailable, s.device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("%w: device %d not opened", capture.ErrCaptureUnavailable, s.device)
	}
	vc.Set(gocv.VideoCaptureBufferSize, 1)

	s.cap = vc
	s.mat = gocv.NewMat()
	for i := 0; i < warmupFrames; i++ {
		s.cap.Read(&s.mat)
	}
	log.Printf("camera: opened device %d", s.device)
	return nil
}

// Acquire grabs the next frame from the device.
func (s *Source) Acquire(ctx context.Context) (capture.Frame, error) {
	if err := ctx.Err(); err != nil {
		return capture.Frame{}, fmt.Errorf("%w: %w", capture.ErrCaptureUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return capture.Frame{}, err
	}
	if ok := s.cap.Read(&s.mat); !ok || s.mat.Empty() {
		return capture.Frame{}, fmt.Errorf("%w: device %d returned no frame", capture.ErrCaptureUnavailable, s.device)
	}

	img, err := s.mat.ToImage()
	if err != nil {
		return capture.Frame{}, fmt.Errorf("%w: convert frame: %v", capture.ErrCaptureUnavailable, err)
	}
	return capture.NewFrame(img), nil
}

// Close releases the device.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cap == nil {
		return nil
	}
	s.mat.Close()
	err := s.cap.Close()
	s.cap = nil
	return err
}

// Info describes a probed device.
type Info struct {
	Index  int
	Width  int
	Height int
}

// Enumerate probes device indices 0..limit-1 and returns those that open and
// deliver a frame.
func Enumerate(limit int) []Info {
	var found []Info
	for i := 0; i < limit; i++ {
		vc, err := gocv.OpenVideoCapture(i)
		if err != nil {
			continue
		}
		if !vc.IsOpened() {
			vc.Close()
			continue
		}

		mat := gocv.NewMat()
		if vc.Read(&mat) && !mat.Empty() {
			found = append(found, Info{Index: i, Width: mat.Cols(), Height: mat.Rows()})
		}
		mat.Close()
		vc.Close()
	}
	return found
}
