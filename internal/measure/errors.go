package measure

import "errors"

var (
	// ErrInvalidLength is returned when a calibration length is not a finite
	// positive number, or the reference points coincide.
	ErrInvalidLength = errors.New("invalid calibration length")

	// ErrDegenerateAngle is returned when an angle arm has zero length.
	ErrDegenerateAngle = errors.New("degenerate angle: vertex coincides with an endpoint")
)
