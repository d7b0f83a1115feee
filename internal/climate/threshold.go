package climate

import "fmt"

// EvaluateThresholds compares a reading against the room's climate
// limits and returns one violation per breached limit.
//
// Comparisons are strict: a value exactly equal to a limit is in range
// and produces no violation. Absent dimensions and unset limits are
// skipped, so a room with only a temp_max checks nothing else.
//
// Temperature breaches carry warning severity, humidity breaches info.
func EvaluateThresholds(reading *SensorReading, room *Room) []ThresholdViolation {
	var violations []ThresholdViolation

	if reading.Temperature != nil {
		t := *reading.Temperature
		switch {
		case room.TempMax != nil && t > *room.TempMax:
			violations = append(violations, ThresholdViolation{
				Type:     AlertTemperatureHigh,
				Severity: SeverityWarning,
				Value:    t,
				Limit:    *room.TempMax,
				Message:  fmt.Sprintf("Temperature %.1f°C is above maximum %.1f°C", t, *room.TempMax),
			})
		case room.TempMin != nil && t < *room.TempMin:
			violations = append(violations, ThresholdViolation{
				Type:     AlertTemperatureLow,
				Severity: SeverityWarning,
				Value:    t,
				Limit:    *room.TempMin,
				Message:  fmt.Sprintf("Temperature %.1f°C is below minimum %.1f°C", t, *room.TempMin),
			})
		}
	}

	if reading.Humidity != nil {
		h := *reading.Humidity
		switch {
		case room.HumidityMax != nil && h > *room.HumidityMax:
			violations = append(violations, ThresholdViolation{
				Type:     AlertHumidityHigh,
				Severity: SeverityInfo,
				Value:    h,
				Limit:    *room.HumidityMax,
				Message:  fmt.Sprintf("Humidity %.1f%% is above maximum %.1f%%", h, *room.HumidityMax),
			})
		case room.HumidityMin != nil && h < *room.HumidityMin:
			violations = append(violations, ThresholdViolation{
				Type:     AlertHumidityLow,
				Severity: SeverityInfo,
				Value:    h,
				Limit:    *room.HumidityMin,
				Message:  fmt.Sprintf("Humidity %.1f%% is below minimum %.1f%%", h, *room.HumidityMin),
			})
		}
	}

	return violations
}
