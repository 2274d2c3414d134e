package app

// EventType identifies different session events.
type EventType int

const (
	// EventChanged fires after every mutation with the new Snapshot.
	EventChanged EventType = iota
	// EventCalibrationRequested fires with the [2]geometry.Point2D reference
	// pair when a calibration pair completes and a real length is needed.
	EventCalibrationRequested
	// EventFrameAcquired fires with the surface geometry.Size after a new
	// base frame is installed.
	EventFrameAcquired
	// EventError fires with the error of a failed command.
	EventError
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type. Listeners run
// on the caller's goroutine without the session lock held.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
