package climate

import "time"

// Climate device types. Each type corrects exactly one out-of-range
// condition.
const (
	DeviceAirConditioner = "air_conditioner"
	DeviceHeater         = "heater"
	DeviceDehumidifier   = "dehumidifier"
	DeviceHumidifier     = "humidifier"
)

// Device status values.
const (
	DeviceStatusOn    = "on"
	DeviceStatusOff   = "off"
	DeviceStatusError = "error"
)

// IsValidDeviceType reports whether t is a known climate device type.
func IsValidDeviceType(t string) bool {
	switch t {
	case DeviceAirConditioner, DeviceHeater, DeviceDehumidifier, DeviceHumidifier:
		return true
	}
	return false
}

// Alert types raised by the processing pipeline.
const (
	AlertTemperatureHigh = "temperature_high"
	AlertTemperatureLow  = "temperature_low"
	AlertHumidityHigh    = "humidity_high"
	AlertHumidityLow     = "humidity_low"
	AlertAnomalyDetected = "anomaly_detected"
)

// Alert severities. Temperature breaches and anomalies are warnings;
// humidity breaches are informational.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Room represents a monitored physical space with its climate limits.
//
// Every limit is optional and independent. A nil limit means no check
// is performed on that side of the dimension; a room with no limits at
// all is monitored for anomalies only.
type Room struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	TempMin            *float64  `json:"temp_min,omitempty"`
	TempMax            *float64  `json:"temp_max,omitempty"`
	HumidityMin        *float64  `json:"humidity_min,omitempty"`
	HumidityMax        *float64  `json:"humidity_max,omitempty"`
	AutoControlEnabled bool      `json:"auto_control_enabled"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HasThreshold reports whether the room has at least one climate limit
// configured. Rooms without limits skip threshold evaluation entirely.
func (r *Room) HasThreshold() bool {
	return r.TempMin != nil || r.TempMax != nil ||
		r.HumidityMin != nil || r.HumidityMax != nil
}

// Sensor represents a telemetry source installed in a room.
type Sensor struct {
	ID         string     `json:"id"`
	RoomID     string     `json:"room_id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	IsActive   bool       `json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ClimateDevice represents a controllable appliance in a room.
type ClimateDevice struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SensorReading is a single telemetry sample. Either dimension may be
// absent; a reading with both absent is invalid.
type SensorReading struct {
	ID          int64     `json:"id"`
	SensorID    string    `json:"sensor_id"`
	Temperature *float64  `json:"temperature,omitempty"`
	Humidity    *float64  `json:"humidity,omitempty"`
	IsAnomaly   bool      `json:"is_anomaly"`
	RecordedAt  time.Time `json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Alert records a threshold breach or detected anomaly.
type Alert struct {
	ID             int64      `json:"id"`
	RoomID         string     `json:"room_id"`
	SensorID       *string    `json:"sensor_id,omitempty"`
	ReadingID      *int64     `json:"reading_id,omitempty"`
	Type           string     `json:"alert_type"`
	Severity       string     `json:"severity"`
	Message        string     `json:"message"`
	Value          *float64   `json:"value,omitempty"`
	ThresholdValue *float64   `json:"threshold_value,omitempty"`
	IsResolved     bool       `json:"is_resolved"`
	CreatedAt      time.Time  `json:"created_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// DeviceCommand is an audit record of a command issued to a device.
type DeviceCommand struct {
	ID        int64     `json:"id"`
	DeviceID  string    `json:"device_id"`
	ReadingID *int64    `json:"reading_id,omitempty"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
}

// ProcessingResult summarises one run of the advanced processing pipeline.
type ProcessingResult struct {
	Success          bool  `json:"success"`
	ReadingID        int64 `json:"reading_id"`
	IsAnomaly        bool  `json:"is_anomaly"`
	CommandsExecuted int   `json:"commands_executed"`
	AlertsCreated    int   `json:"alerts_created"`
	ThresholdChecked bool  `json:"threshold_checked"`
}

// AutoControlResult summarises one auto-control evaluation for a reading.
type AutoControlResult struct {
	AutoControlEnabled bool                `json:"auto_control_enabled"`
	TemperatureOK      bool                `json:"temperature_ok"`
	HumidityOK         bool                `json:"humidity_ok"`
	Actions            []AutoControlAction `json:"actions"`
}

// AutoControlAction is a single corrective step taken (or skipped) by
// auto-control. Action is "none" with a Reason when no device could act.
type AutoControlAction struct {
	Action     string `json:"action"`
	DeviceID   string `json:"device_id,omitempty"`
	DeviceType string `json:"device_type,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ThresholdViolation describes a single limit breach found by
// EvaluateThresholds.
type ThresholdViolation struct {
	Type     string
	Severity string
	Value    float64
	Limit    float64
	Message  string
}
