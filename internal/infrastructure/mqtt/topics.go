package mqtt

import "fmt"

// Topic prefixes for the AeroSense MQTT hierarchy.
//
// Sensor firmware publishes raw telemetry to the flat scheme:
// aerosense/telemetry/{sensor_id}. Core publishes processed results
// under aerosense/core/ and system status under aerosense/system/.
const (
	// TopicPrefix is the base for all AeroSense topics.
	TopicPrefix = "aerosense"

	// TopicPrefixTelemetry is the base for raw sensor telemetry.
	TopicPrefixTelemetry = "aerosense/telemetry"

	// TopicPrefixCore is the base for all core topics.
	TopicPrefixCore = "aerosense/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "aerosense/system"
)

// Topics provides builders for AeroSense MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	alertTopic := topics.CoreAlert("room-living")
//	// Returns: "aerosense/core/alert/room-living"
type Topics struct{}

// Telemetry returns the topic a sensor publishes raw readings to.
//
// Example: aerosense/telemetry/sensor-bedroom-1
func (Topics) Telemetry(sensorID string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixTelemetry, sensorID)
}

// CoreReadingAccepted returns the topic for processed reading results.
// Published after a reading passes validation and the full pipeline runs.
//
// Example: aerosense/core/reading/sensor-bedroom-1/accepted
func (Topics) CoreReadingAccepted(sensorID string) string {
	return fmt.Sprintf("%s/reading/%s/accepted", TopicPrefixCore, sensorID)
}

// CoreAlert returns the topic for alerts raised in a room.
//
// Example: aerosense/core/alert/room-living
func (Topics) CoreAlert(roomID string) string {
	return fmt.Sprintf("%s/alert/%s", TopicPrefixCore, roomID)
}

// CoreDeviceCommand returns the topic for commands dispatched to a
// climate device.
//
// Example: aerosense/core/device/ac-living/command
func (Topics) CoreDeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/command", TopicPrefixCore, deviceID)
}

// SystemStatus returns the system status topic.
//
// Example: aerosense/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllTelemetry returns a pattern matching telemetry from every sensor.
//
// Pattern: aerosense/telemetry/+
func (Topics) AllTelemetry() string {
	return fmt.Sprintf("%s/+", TopicPrefixTelemetry)
}

// AllCoreAlerts returns a pattern matching all alerts.
//
// Pattern: aerosense/core/alert/+
func (Topics) AllCoreAlerts() string {
	return fmt.Sprintf("%s/alert/+", TopicPrefixCore)
}

// AllDeviceCommands returns a pattern matching all device commands.
//
// Pattern: aerosense/core/device/+/command
func (Topics) AllDeviceCommands() string {
	return fmt.Sprintf("%s/device/+/command", TopicPrefixCore)
}

// AllTopics returns a pattern matching all AeroSense topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: aerosense/#
func (Topics) AllTopics() string {
	return "aerosense/#"
}

// TelemetrySensorID extracts the sensor ID from a telemetry topic.
// Returns an empty string if the topic does not match the scheme.
func TelemetrySensorID(topic string) string {
	prefix := TopicPrefixTelemetry + "/"
	if len(topic) <= len(prefix) || topic[:len(prefix)] != prefix {
		return ""
	}
	return topic[len(prefix):]
}
