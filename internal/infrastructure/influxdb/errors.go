package influxdb

import "errors"

// Sentinel errors, matched with errors.Is. Write failures are not
// here: writes are async and surface through the SetOnError callback.
var (
	ErrNotConnected     = errors.New("influxdb: not connected")
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled means the influxdb section of config.yaml is off.
	// The telemetry mirror is optional; callers treat this as "run
	// without long-horizon history", not as a failure.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
