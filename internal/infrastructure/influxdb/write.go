package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteReading mirrors an accepted sensor reading to InfluxDB. The
// write is non-blocking; points are batched and sent asynchronously.
// Nil dimensions are omitted, and a reading with neither dimension is
// dropped rather than written as an empty point.
func (c *Client) WriteReading(sensorID, roomID string, temperature, humidity *float64, recordedAt time.Time) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{}
	if temperature != nil {
		fields["temperature"] = *temperature
	}
	if humidity != nil {
		fields["humidity"] = *humidity
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"climate_readings",
		map[string]string{
			"sensor_id": sensorID,
			"room_id":   roomID,
		},
		fields,
		recordedAt,
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceStatus records a climate device status change, for
// tracking device duty cycles over time.
func (c *Client) WriteDeviceStatus(deviceID, deviceType string, on bool) {
	if !c.IsConnected() {
		return
	}

	running := 0.0
	if on {
		running = 1.0
	}

	point := write.NewPoint(
		"device_status",
		map[string]string{
			"device_id": deviceID,
			"type":      deviceType,
		},
		map[string]interface{}{
			"running": running,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
