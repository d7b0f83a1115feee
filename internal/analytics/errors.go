package analytics

import "errors"

// Sentinel errors for the analytics package.
var (
	// ErrNoReadings indicates the requested window contains no readings.
	ErrNoReadings = errors.New("no readings in the requested period")

	// ErrInvalidPeriod indicates a nonsensical time window, such as a
	// non-positive period or an end before the start.
	ErrInvalidPeriod = errors.New("invalid analytics period")
)
