// Package logging provides structured logging for AeroSense Core,
// built on log/slog.
//
// Every component takes a *logging.Logger and narrows it with With,
// so a reading's journey through ingest, processing, and auto-control
// can be followed by its component field:
//
//	logger := logging.New(cfg.Logging, version)
//	ingest := logger.With("component", "ingest")
//	ingest.Info("reading accepted", "sensor_id", id)
//
// Configured via the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log MQTT credentials, JWT secrets, or API tokens.
package logging
