package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// testConfig returns a minimal valid config with MQTT and InfluxDB
// disabled, backed by a temp database.
func testConfig(t *testing.T, port int) string {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	dbPath := filepath.Join(tmpDir, "test.db")

	configContent := `
database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: ` + strconv.Itoa(port) + `
  timeouts:
    read: 30
    write: 60
    idle: 120

security:
  jwt:
    secret: "test-secret-for-development-only-padding"
  admin:
    username: "admin"
    password: "test-password"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("AEROSENSE_CONFIG")
	defer os.Setenv("AEROSENSE_CONFIG", originalEnv)

	os.Setenv("AEROSENSE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is empty.
func TestRun_MissingDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
database:
  path: ""

mqtt:
  enabled: false

influxdb:
  enabled: false

security:
  jwt:
    secret: "test-secret-for-development-only-padding"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("AEROSENSE_CONFIG")
	defer os.Setenv("AEROSENSE_CONFIG", originalEnv)
	os.Setenv("AEROSENSE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("AEROSENSE_CONFIG")
	defer os.Setenv("AEROSENSE_CONFIG", originalEnv)

	os.Unsetenv("AEROSENSE_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("AEROSENSE_CONFIG")
	defer os.Setenv("AEROSENSE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("AEROSENSE_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_StartupAndShutdown tests full startup with MQTT and InfluxDB
// disabled, then shutdown via context cancellation.
func TestRun_StartupAndShutdown(t *testing.T) {
	configPath := testConfig(t, 18931)

	originalEnv := os.Getenv("AEROSENSE_CONFIG")
	defer os.Setenv("AEROSENSE_CONFIG", originalEnv)
	os.Setenv("AEROSENSE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}
