package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
database:
  path: /tmp/aerosense-test.db
api:
  host: 127.0.0.1
  port: 9090
mqtt:
  enabled: true
  broker:
    host: broker.local
    port: 1883
analytics:
  cache_ttl: 600
security:
  jwt:
    secret: this-is-a-test-secret-at-least-32-chars
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/aerosense-test.db" {
		t.Errorf("Database.Path = %q, want /tmp/aerosense-test.db", cfg.Database.Path)
	}
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want 127.0.0.1", cfg.API.Host)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	if !cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = false, want true")
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want broker.local", cfg.MQTT.Broker.Host)
	}
	if cfg.Analytics.CacheTTL != 600 {
		t.Errorf("Analytics.CacheTTL = %d, want 600", cfg.Analytics.CacheTTL)
	}

	// Values not present in the file keep their defaults.
	if cfg.Analytics.AnomalyWindow != 100 {
		t.Errorf("Analytics.AnomalyWindow = %d, want default 100", cfg.Analytics.AnomalyWindow)
	}
	if cfg.Analytics.AnomalySigma != 3.0 {
		t.Errorf("Analytics.AnomalySigma = %v, want default 3.0", cfg.Analytics.AnomalySigma)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default info", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() should fail for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("not: [valid: yaml"), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should fail for invalid YAML")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	// No JWT secret anywhere.
	content := `
database:
  path: /tmp/test.db
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should fail validation without a JWT secret")
	}
	if !strings.Contains(err.Error(), "jwt.secret") {
		t.Errorf("error should mention jwt.secret, got: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
database:
  path: /tmp/from-file.db
security:
  jwt:
    secret: this-is-a-test-secret-at-least-32-chars
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	t.Setenv("AEROSENSE_DATABASE_PATH", "/tmp/from-env.db")
	t.Setenv("AEROSENSE_API_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != "/tmp/from-env.db" {
		t.Errorf("Database.Path = %q, want env override /tmp/from-env.db", cfg.Database.Path)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("API.Port = %d, want env override 7070", cfg.API.Port)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Security.JWT.Secret = "this-is-a-test-secret-at-least-32-chars"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing database path",
			modify:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "port too low",
			modify:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port too high",
			modify:  func(c *Config) { c.API.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid mqtt qos",
			modify:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "zero cache ttl",
			modify:  func(c *Config) { c.Analytics.CacheTTL = 0 },
			wantErr: true,
		},
		{
			name:    "negative sigma",
			modify:  func(c *Config) { c.Analytics.AnomalySigma = -1 },
			wantErr: true,
		},
		{
			name:    "window smaller than min samples",
			modify:  func(c *Config) { c.Analytics.AnomalyWindow = 5 },
			wantErr: true,
		},
		{
			name:    "short jwt secret",
			modify:  func(c *Config) { c.Security.JWT.Secret = "short" },
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			modify:  func(c *Config) { c.Security.JWT.Secret = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
