package climate

import (
	"context"
	"fmt"
	"time"
)

// Climate conditions a room can be in when a limit is breached.
const (
	ConditionTooHot   = "too_hot"
	ConditionTooCold  = "too_cold"
	ConditionTooHumid = "too_humid"
	ConditionTooDry   = "too_dry"
)

// Device command actions.
const (
	ActionTurnOn  = "turn_on"
	ActionTurnOff = "turn_off"
)

// conditionDevice maps a climate condition to the device type that
// corrects it.
var conditionDevice = map[string]string{
	ConditionTooHot:   DeviceAirConditioner,
	ConditionTooCold:  DeviceHeater,
	ConditionTooHumid: DeviceDehumidifier,
	ConditionTooDry:   DeviceHumidifier,
}

// alertCondition maps threshold alert types to the condition they imply.
// Anomaly alerts have no corrective condition.
var alertCondition = map[string]string{
	AlertTemperatureHigh: ConditionTooHot,
	AlertTemperatureLow:  ConditionTooCold,
	AlertHumidityHigh:    ConditionTooHumid,
	AlertHumidityLow:     ConditionTooDry,
}

// DeviceTypeFor returns the device type that corrects a condition.
func DeviceTypeFor(condition string) (string, bool) {
	t, ok := conditionDevice[condition]
	return t, ok
}

// ConditionForAlert returns the climate condition implied by a
// threshold alert type, if any.
func ConditionForAlert(alertType string) (string, bool) {
	c, ok := alertCondition[alertType]
	return c, ok
}

// Dispatcher issues corrective commands to climate devices.
//
// A dispatch selects the room's device of the type matching the
// condition, records a turn_on command, and marks the device running.
// When a room has several devices of the same type the first by name
// is used.
type Dispatcher struct {
	repo Repository
}

// NewDispatcher creates a dispatcher backed by the given repository.
func NewDispatcher(repo Repository) *Dispatcher {
	return &Dispatcher{repo: repo}
}

// Dispatch turns on the device that corrects the given condition in a
// room.
//
// readingID links the command to the reading that triggered it and may
// be nil for manually triggered dispatches. reason is recorded on the
// command for auditing.
//
// Dispatching against a device that is already on succeeds without
// writing anything: the status needs no transition and the audit trail
// records transitions, not repeats.
//
// Returns ErrDeviceNotFound when the room has no device of the
// required type, and an error for unknown conditions.
func (d *Dispatcher) Dispatch(ctx context.Context, roomID, condition string, readingID *int64, reason string) (*DeviceCommand, error) {
	deviceType, ok := DeviceTypeFor(condition)
	if !ok {
		return nil, fmt.Errorf("unknown climate condition %q", condition)
	}

	device, err := d.repo.FindDeviceByType(ctx, roomID, deviceType)
	if err != nil {
		return nil, err
	}

	cmd := &DeviceCommand{
		DeviceID:  device.ID,
		ReadingID: readingID,
		Action:    ActionTurnOn,
		Reason:    reason,
		IssuedAt:  time.Now().UTC(),
	}
	if device.Status == DeviceStatusOn {
		return cmd, nil
	}
	if err := d.repo.InsertCommand(ctx, cmd); err != nil {
		return nil, err
	}
	if err := d.repo.UpdateDeviceStatus(ctx, device.ID, DeviceStatusOn); err != nil {
		return nil, err
	}
	return cmd, nil
}
