package mqtt

import (
	"fmt"
)

// Payloads above 1MB are rejected before reaching the broker. Sensor
// telemetry and alert events are a few hundred bytes; anything near
// this limit is a malfunction.
const maxPayloadSize = 1 << 20

// Publish sends a message to the given topic and waits for the broker
// to acknowledge it, subject to the publish timeout.
//
// QoS 0 is fire and forget, 1 guarantees delivery but may duplicate,
// 2 guarantees exactly-once at higher cost. Alert and command events
// go out at the configured QoS with retained false; only the system
// status topic is retained.
//
//	topic := mqtt.Topics{}.CoreDeviceCommand("ac-living")
//	err := client.Publish(topic, []byte(`{"action":"turn_on"}`), 1, false)
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}
