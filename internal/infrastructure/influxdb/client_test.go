package influxdb_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aerosense/aerosense-core/internal/infrastructure/config"
	"github.com/aerosense/aerosense-core/internal/infrastructure/influxdb"
)

// testConfig matches the local dev InfluxDB in docker-compose.yml.
func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "aerosense-dev-token",
		Org:           "aerosense",
		Bucket:        "climate",
		BatchSize:     100,
		FlushInterval: 1, // 1 second for faster test feedback
	}
}

func skipIfNoInfluxDB(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION") == "" {
		client, err := influxdb.Connect(testConfig())
		if err != nil {
			t.Skip("InfluxDB not available, skipping integration test")
		}
		client.Close()
	}
}

// connectForWrite opens a client and captures async write errors so a
// test can assert the flush stayed clean.
func connectForWrite(t *testing.T) (*influxdb.Client, func() error) {
	t.Helper()
	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() {
		client.Close() //nolint:errcheck // Test cleanup
	})

	var mu sync.Mutex
	var writeErr error
	client.SetOnError(func(err error) {
		mu.Lock()
		writeErr = err
		mu.Unlock()
	})

	flushAndCheck := func() error {
		client.Flush()
		// The error callback is async; give it a moment.
		time.Sleep(100 * time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		return writeErr
	}
	return client, flushAndCheck
}

func TestConnect(t *testing.T) {
	skipIfNoInfluxDB(t)

	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := influxdb.Connect(cfg)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:59999" // Nothing listens here

	if _, err := influxdb.Connect(cfg); err == nil {
		t.Fatal("Connect() succeeded against a dead port")
	}
}

func TestConnect_DefaultBatchSettings(t *testing.T) {
	skipIfNoInfluxDB(t)
	cfg := testConfig()
	cfg.BatchSize = 0
	cfg.FlushInterval = 0

	client, err := influxdb.Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false with default batch settings")
	}
}

func TestHealthCheck(t *testing.T) {
	skipIfNoInfluxDB(t)

	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestWriteReading(t *testing.T) {
	skipIfNoInfluxDB(t)
	client, flushAndCheck := connectForWrite(t)

	temp, hum := 21.5, 45.0
	client.WriteReading("test-sensor-001", "test-room", &temp, &hum, time.Now())

	if err := flushAndCheck(); err != nil {
		t.Errorf("write error = %v", err)
	}
}

func TestWriteReading_PartialDimensions(t *testing.T) {
	skipIfNoInfluxDB(t)
	client, flushAndCheck := connectForWrite(t)

	// Temperature-only; the humidity field is omitted from the point.
	temp := 19.0
	client.WriteReading("test-sensor-002", "test-room", &temp, nil, time.Now())

	// Both nil is dropped entirely, not an error.
	client.WriteReading("test-sensor-002", "test-room", nil, nil, time.Now())

	if err := flushAndCheck(); err != nil {
		t.Errorf("write error = %v", err)
	}
}

func TestWriteDeviceStatus(t *testing.T) {
	skipIfNoInfluxDB(t)
	client, flushAndCheck := connectForWrite(t)

	client.WriteDeviceStatus("test-ac-001", "air_conditioner", true)

	if err := flushAndCheck(); err != nil {
		t.Errorf("write error = %v", err)
	}
}

func TestClose(t *testing.T) {
	skipIfNoInfluxDB(t)

	client, err := influxdb.Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	temp := 20.0
	client.WriteReading("close-test", "test-room", &temp, nil, time.Now())

	// Close flushes the pending point and disconnects.
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
}
