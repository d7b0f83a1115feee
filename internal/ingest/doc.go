// Package ingest consumes raw sensor telemetry from the MQTT broker and
// feeds it through the reading-processing pipeline.
//
// Sensor firmware publishes JSON samples to aerosense/telemetry/{sensor_id}.
// The consumer decodes each sample, runs the full pipeline (validation,
// anomaly detection, threshold alerts, device dispatch), and publishes the
// outcome back to the aerosense/core/ topic hierarchy so dashboards and
// other services can follow along without a database connection.
//
// Thread Safety: Consumer and Publisher are safe for concurrent use.
package ingest
