package climate

import "fmt"

// Physical plausibility bounds for incoming readings. Values outside
// these ranges indicate sensor malfunction and are rejected outright.
const (
	MinTemperature = -50.0
	MaxTemperature = 100.0
	MinHumidity    = 0.0
	MaxHumidity    = 100.0
)

// ValidateReading checks a reading for physical plausibility.
//
// At least one dimension must be present. Temperature must lie within
// [-50, 100] degrees Celsius and humidity within [0, 100] percent,
// bounds inclusive.
func ValidateReading(reading *SensorReading) error {
	if reading.Temperature == nil && reading.Humidity == nil {
		return fmt.Errorf("%w: at least one of temperature or humidity is required", ErrInvalidReading)
	}
	if reading.Temperature != nil {
		t := *reading.Temperature
		if t < MinTemperature || t > MaxTemperature {
			return fmt.Errorf("%w: temperature %.1f out of range [%.0f, %.0f]",
				ErrInvalidReading, t, MinTemperature, MaxTemperature)
		}
	}
	if reading.Humidity != nil {
		h := *reading.Humidity
		if h < MinHumidity || h > MaxHumidity {
			return fmt.Errorf("%w: humidity %.1f out of range [%.0f, %.0f]",
				ErrInvalidReading, h, MinHumidity, MaxHumidity)
		}
	}
	return nil
}

// ValidateRoom validates a Room before persistence.
func ValidateRoom(r *Room) error {
	if r.Name == "" {
		return fmt.Errorf("%w: room name cannot be empty", ErrInvalidThreshold)
	}
	return validateLimits(r.TempMin, r.TempMax, r.HumidityMin, r.HumidityMax)
}

// validateLimits checks that the set threshold bounds are internally
// consistent. Unset bounds constrain nothing.
func validateLimits(tempMin, tempMax, humMin, humMax *float64) error {
	if tempMin != nil && tempMax != nil && *tempMin >= *tempMax {
		return fmt.Errorf("%w: temp_min %.1f must be below temp_max %.1f",
			ErrInvalidThreshold, *tempMin, *tempMax)
	}
	if humMin != nil && humMax != nil && *humMin >= *humMax {
		return fmt.Errorf("%w: humidity_min %.1f must be below humidity_max %.1f",
			ErrInvalidThreshold, *humMin, *humMax)
	}
	if humMin != nil && *humMin < MinHumidity {
		return fmt.Errorf("%w: humidity_min %.1f must lie within [%.0f, %.0f]",
			ErrInvalidThreshold, *humMin, MinHumidity, MaxHumidity)
	}
	if humMax != nil && *humMax > MaxHumidity {
		return fmt.Errorf("%w: humidity_max %.1f must lie within [%.0f, %.0f]",
			ErrInvalidThreshold, *humMax, MinHumidity, MaxHumidity)
	}
	return nil
}
