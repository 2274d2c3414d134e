package capture

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	fgimage "frame-gauge/internal/image"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a change fires.
const DefaultDebounce = 200 * time.Millisecond

// FileSource reads frames from an image file on disk.
type FileSource struct {
	path     string
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
}

// NewFileSource returns a source reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, debounce: DefaultDebounce}
}

// Path returns the file the source reads.
func (s *FileSource) Path() string {
	return s.path
}

// SetDebounce changes the quiet period used by Watch.
func (s *FileSource) SetDebounce(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debounce = d
}

// Acquire decodes the file. Any read or decode failure is reported as
// ErrCaptureUnavailable.
func (s *FileSource) Acquire(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}
	layer, err := fgimage.Load(s.path)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	return Frame{Image: layer.Image, Width: layer.Width(), Height: layer.Height(), DPI: layer.DPI}, nil
}

// Watch calls onChange after the file is written or replaced, once the
// debounce period has passed without further events. It returns when ctx
// is cancelled or the source is closed.
func (s *FileSource) Watch(ctx context.Context, onChange func()) error {
	absPath, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", s.path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors often replace files with a rename, so watch the directory.
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	s.mu.Lock()
	s.watcher = w
	s.mu.Unlock()
	defer s.stopWatch()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Name != absPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				s.schedule(onChange)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("capture: watcher error: %v", err)
		}
	}
}

func (s *FileSource) schedule(onChange func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, onChange)
}

func (s *FileSource) stopWatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
}

// Close stops any running Watch.
func (s *FileSource) Close() error {
	s.stopWatch()
	return nil
}
