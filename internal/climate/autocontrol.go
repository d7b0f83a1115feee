package climate

import (
	"context"
	"errors"
	"fmt"
)

// Auto-control corrective action names.
const (
	AutoActionCooling       = "cooling"
	AutoActionHeating       = "heating"
	AutoActionDehumidifying = "dehumidifying"
	AutoActionHumidifying   = "humidifying"
	AutoActionNone          = "none"
)

// ReasonDeviceNotFound marks an auto-control step skipped because the
// room lacks the required device type.
const ReasonDeviceNotFound = "device_not_found"

// autoActionDevice maps each corrective action to the device type that
// performs it.
var autoActionDevice = map[string]string{
	AutoActionCooling:       DeviceAirConditioner,
	AutoActionHeating:       DeviceHeater,
	AutoActionDehumidifying: DeviceDehumidifier,
	AutoActionHumidifying:   DeviceHumidifier,
}

// AutoController evaluates stored readings against room limits and
// switches on corrective devices when auto-control is enabled.
type AutoController struct {
	repo Repository
}

// NewAutoController creates an auto-controller backed by the given
// repository.
func NewAutoController(repo Repository) *AutoController {
	return &AutoController{repo: repo}
}

// Evaluate runs auto-control for a stored reading.
//
// When the room has auto-control disabled, or no climate limits at
// all, the result carries AutoControlEnabled false and no actions.
// Limit checks are inclusive: a value exactly on a limit is in range,
// and unset limits are not checked. Each out-of-range dimension
// produces one action; a missing device yields an action "none" with
// reason "device_not_found" instead of an error.
func (a *AutoController) Evaluate(ctx context.Context, readingID int64) (*AutoControlResult, error) {
	reading, err := a.repo.GetReading(ctx, readingID)
	if err != nil {
		return nil, err
	}
	sensor, err := a.repo.GetSensor(ctx, reading.SensorID)
	if err != nil {
		return nil, err
	}
	room, err := a.repo.GetRoom(ctx, sensor.RoomID)
	if err != nil {
		return nil, err
	}

	result := &AutoControlResult{
		AutoControlEnabled: room.AutoControlEnabled && room.HasThreshold(),
		TemperatureOK:      true,
		HumidityOK:         true,
		Actions:            []AutoControlAction{},
	}
	if !result.AutoControlEnabled {
		return result, nil
	}

	if reading.Temperature != nil {
		switch {
		case room.TempMax != nil && *reading.Temperature > *room.TempMax:
			result.TemperatureOK = false
			if err := a.act(ctx, room.ID, reading.ID, AutoActionCooling, result); err != nil {
				return nil, err
			}
		case room.TempMin != nil && *reading.Temperature < *room.TempMin:
			result.TemperatureOK = false
			if err := a.act(ctx, room.ID, reading.ID, AutoActionHeating, result); err != nil {
				return nil, err
			}
		}
	}

	if reading.Humidity != nil {
		switch {
		case room.HumidityMax != nil && *reading.Humidity > *room.HumidityMax:
			result.HumidityOK = false
			if err := a.act(ctx, room.ID, reading.ID, AutoActionDehumidifying, result); err != nil {
				return nil, err
			}
		case room.HumidityMin != nil && *reading.Humidity < *room.HumidityMin:
			result.HumidityOK = false
			if err := a.act(ctx, room.ID, reading.ID, AutoActionHumidifying, result); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// act switches on the device for one corrective action and records the
// outcome on the result.
func (a *AutoController) act(ctx context.Context, roomID string, readingID int64, action string, result *AutoControlResult) error {
	deviceType := autoActionDevice[action]

	device, err := a.repo.FindDeviceByType(ctx, roomID, deviceType)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			result.Actions = append(result.Actions, AutoControlAction{
				Action:     AutoActionNone,
				DeviceType: deviceType,
				Reason:     ReasonDeviceNotFound,
			})
			return nil
		}
		return err
	}

	// Re-evaluating the same reading must not pile up audit rows: a
	// device that is already running is reported as acted on without
	// another command record.
	if device.Status != DeviceStatusOn {
		cmd := &DeviceCommand{
			DeviceID:  device.ID,
			ReadingID: &readingID,
			Action:    ActionTurnOn,
			Reason:    action,
		}
		if err := a.repo.InsertCommand(ctx, cmd); err != nil {
			return fmt.Errorf("recording %s command: %w", action, err)
		}
		if err := a.repo.UpdateDeviceStatus(ctx, device.ID, DeviceStatusOn); err != nil {
			return fmt.Errorf("switching on %s: %w", device.ID, err)
		}
	}

	result.Actions = append(result.Actions, AutoControlAction{
		Action:     action,
		DeviceID:   device.ID,
		DeviceType: deviceType,
	})
	return nil
}
