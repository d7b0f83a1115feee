// Package mqtt provides MQTT client connectivity for AeroSense Core.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// AeroSense uses MQTT as the telemetry transport between sensor firmware
// and the Core. Sensors publish raw readings to aerosense/telemetry/{id};
// Core publishes processed results, alerts, and device commands under
// aerosense/core/. The broker (Mosquitto) decouples Core from the sensor
// fleet.
//
//	Sensor Fleet → MQTT Broker → AeroSense Core → Climate Devices
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all sensor telemetry
//	err = client.Subscribe(mqtt.Topics{}.AllTelemetry(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish device command
//	topic := mqtt.Topics{}.CoreDeviceCommand("ac-living")
//	client.Publish(topic, []byte(`{"action":"turn_on"}`), 1, false)
package mqtt
