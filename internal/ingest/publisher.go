package ingest

import (
	"context"
	"encoding/json"

	"github.com/aerosense/aerosense-core/internal/climate"
	"github.com/aerosense/aerosense-core/internal/infrastructure/logging"
	"github.com/aerosense/aerosense-core/internal/infrastructure/mqtt"
)

// Publisher mirrors pipeline outcomes onto the aerosense/core/ topics.
//
// Publisher implements climate.Publisher. Publish failures are logged
// and dropped; the pipeline result is already committed by the time
// these callbacks run.
type Publisher struct {
	broker Broker
	qos    byte
	topics mqtt.Topics
	logger *logging.Logger
}

// NewPublisher creates an MQTT publisher for pipeline events.
func NewPublisher(broker Broker, qos byte, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		broker: broker,
		qos:    qos,
		logger: logger.With("component", "ingest_publisher"),
	}
}

// acceptedEvent is the payload published when a reading clears the pipeline.
type acceptedEvent struct {
	Reading *climate.SensorReading `json:"reading"`
	RoomID  string                 `json:"room_id"`
}

// ReadingAccepted publishes the accepted reading to
// aerosense/core/reading/{sensor_id}/accepted.
func (p *Publisher) ReadingAccepted(_ context.Context, reading *climate.SensorReading, roomID string) {
	p.publish(p.topics.CoreReadingAccepted(reading.SensorID), acceptedEvent{
		Reading: reading,
		RoomID:  roomID,
	})
}

// AlertRaised publishes the alert to aerosense/core/alert/{room_id}.
func (p *Publisher) AlertRaised(_ context.Context, alert *climate.Alert) {
	p.publish(p.topics.CoreAlert(alert.RoomID), alert)
}

// CommandIssued publishes the command to
// aerosense/core/device/{device_id}/command.
func (p *Publisher) CommandIssued(_ context.Context, cmd *climate.DeviceCommand) {
	p.publish(p.topics.CoreDeviceCommand(cmd.DeviceID), cmd)
}

func (p *Publisher) publish(topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal event", "topic", topic, "error", err)
		return
	}
	if err := p.broker.Publish(topic, data, p.qos, false); err != nil {
		p.logger.Warn("event publish failed", "topic", topic, "error", err)
	}
}
