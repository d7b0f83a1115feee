// Package api implements the HTTP REST API and WebSocket server for AeroSense Core.
//
// This package provides:
//   - REST endpoints for room, sensor, and device CRUD
//   - Reading ingest and advanced processing with rolling statistics
//   - Analytics, report, and alert endpoints
//   - WebSocket hub for real-time reading, alert, and command broadcasts
//   - JWT authentication with ticket-based WebSocket auth
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// The API server sits between clients (dashboards, integrations, sensors
// posting over HTTP) and the climate pipeline. Ingested readings run the
// full processing pipeline; the resulting readings, alerts, and device
// commands are broadcast to subscribed WebSocket clients through the Hub,
// which the pipeline sees as one of its publishers.
//
// # Security
//
// Authentication uses JWT tokens issued against config-provisioned
// credentials. The device ingest path and health check are unauthenticated;
// everything else requires a bearer token. WebSocket connections use
// single-use tickets to prevent token leakage in URLs.
//
// # Graceful Degradation
//
// The server operates without MQTT and without InfluxDB. Ingest over HTTP,
// queries, and WebSocket streaming keep working; only the broker-side
// telemetry path is absent.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
