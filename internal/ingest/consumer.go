package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aerosense/aerosense-core/internal/climate"
	"github.com/aerosense/aerosense-core/internal/infrastructure/logging"
	"github.com/aerosense/aerosense-core/internal/infrastructure/mqtt"
)

// processTimeout bounds pipeline work for a single telemetry message.
const processTimeout = 10 * time.Second

// Broker is the subset of the MQTT client the ingest path needs.
// This allows mocking in tests and flexibility in implementation.
type Broker interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic pattern.
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error

	// Unsubscribe removes a subscription.
	Unsubscribe(topic string) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// telemetryPayload is the JSON body sensors publish to telemetry topics.
// The sensor ID comes from the topic, not the payload.
type telemetryPayload struct {
	Temperature *float64   `json:"temperature,omitempty"`
	Humidity    *float64   `json:"humidity,omitempty"`
	RecordedAt  *time.Time `json:"recorded_at,omitempty"`
}

// Consumer subscribes to sensor telemetry and runs each sample through
// the processing pipeline.
type Consumer struct {
	broker    Broker
	processor *climate.Processor
	qos       byte
	topics    mqtt.Topics
	logger    *logging.Logger
}

// NewConsumer creates a telemetry consumer. It does not subscribe until
// Start() is called.
func NewConsumer(broker Broker, processor *climate.Processor, qos byte, logger *logging.Logger) (*Consumer, error) {
	if broker == nil {
		return nil, fmt.Errorf("mqtt broker is required")
	}
	if processor == nil {
		return nil, fmt.Errorf("reading processor is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Consumer{
		broker:    broker,
		processor: processor,
		qos:       qos,
		logger:    logger.With("component", "ingest"),
	}, nil
}

// Start subscribes to the telemetry topic pattern. The subscription
// survives broker reconnects; see the mqtt client for details.
func (c *Consumer) Start() error {
	topic := c.topics.AllTelemetry()
	if err := c.broker.Subscribe(topic, c.qos, c.handleTelemetry); err != nil {
		return fmt.Errorf("subscribing to telemetry: %w", err)
	}
	c.logger.Info("telemetry ingest started", "topic", topic)
	return nil
}

// Close removes the telemetry subscription.
func (c *Consumer) Close() error {
	if err := c.broker.Unsubscribe(c.topics.AllTelemetry()); err != nil {
		return fmt.Errorf("unsubscribing from telemetry: %w", err)
	}
	return nil
}

// handleTelemetry decodes one telemetry message and runs the pipeline.
//
// Malformed messages are logged and dropped rather than returned as
// errors: a broken sensor must not wedge the subscription.
func (c *Consumer) handleTelemetry(topic string, payload []byte) error {
	sensorID := mqtt.TelemetrySensorID(topic)
	if sensorID == "" {
		c.logger.Warn("telemetry on unexpected topic", "topic", topic)
		return nil
	}

	var sample telemetryPayload
	if err := json.Unmarshal(payload, &sample); err != nil {
		c.logger.Warn("malformed telemetry payload", "sensor_id", sensorID, "error", err)
		return nil
	}

	reading := &climate.SensorReading{
		SensorID:    sensorID,
		Temperature: sample.Temperature,
		Humidity:    sample.Humidity,
	}
	if sample.RecordedAt != nil {
		reading.RecordedAt = sample.RecordedAt.UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	result, err := c.processor.Process(ctx, reading)
	if err != nil {
		c.logger.Warn("telemetry rejected", "sensor_id", sensorID, "error", err)
		return nil
	}

	c.logger.Debug("telemetry processed",
		"sensor_id", sensorID,
		"reading_id", result.ReadingID,
		"alerts", result.AlertsCreated,
		"commands", result.CommandsExecuted,
	)
	return nil
}
