// Package climate implements the sensor-telemetry processing core.
//
// It owns the domain model (rooms, sensors, climate devices, readings,
// alerts, device commands) and the pipeline that turns a raw reading
// into persisted state: validation, threshold evaluation, statistical
// anomaly detection, alert creation, and corrective device dispatch.
//
// The advanced processing pipeline runs inside a single SQLite
// transaction so a reading is either fully processed (reading, alerts,
// commands, device status) or not stored at all.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use from multiple goroutines
// (SQLite WAL mode + connection pooling). Processor and AutoController
// are stateless beyond their dependencies and safe to share.
package climate
