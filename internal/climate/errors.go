package climate

import "errors"

var (
	// ErrRoomNotFound is returned when a room ID does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrSensorNotFound is returned when a sensor ID does not exist.
	ErrSensorNotFound = errors.New("sensor not found")

	// ErrSensorInactive is returned when a reading arrives for a
	// deactivated sensor.
	ErrSensorInactive = errors.New("sensor is inactive")

	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrReadingNotFound is returned when a reading ID does not exist.
	ErrReadingNotFound = errors.New("reading not found")

	// ErrAlertNotFound is returned when an alert ID does not exist.
	ErrAlertNotFound = errors.New("alert not found")

	// ErrInvalidReading is returned when a reading fails validation.
	ErrInvalidReading = errors.New("invalid reading")

	// ErrInvalidThreshold is returned when a threshold update would
	// leave a room with inconsistent limits.
	ErrInvalidThreshold = errors.New("invalid threshold")
)
