// Package influxdb provides InfluxDB connectivity for AeroSense Core.
//
// It wraps the official influxdb-client-go v2 library with AeroSense-specific
// patterns for connection management, reading mirroring, and health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Long-horizon climate reading history
//   - Climate device duty-cycle tracking
//
// SQLite remains the system of record; the InfluxDB mirror is optional
// and the processing pipeline never fails because a mirror write failed.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "aerosense",
//	    Bucket: "climate",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Mirror an accepted reading
//	temp, hum := 21.5, 45.0
//	client.WriteReading("sensor-bedroom-1", "room-bedroom", &temp, &hum, time.Now())
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency telemetry data.
package influxdb
