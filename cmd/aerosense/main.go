// AeroSense Core - Room Climate Monitoring Platform
//
// This is the main entry point for the AeroSense Core application.
// AeroSense collects temperature and humidity telemetry from room
// sensors, runs each sample through validation, anomaly detection, and
// threshold checks, and reacts by raising alerts and driving climate
// devices. Telemetry arrives over MQTT or the HTTP ingest endpoint;
// results stream out over MQTT, WebSocket, and an optional InfluxDB
// mirror.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/aerosense/aerosense-core/migrations"

	"github.com/aerosense/aerosense-core/internal/analytics"
	"github.com/aerosense/aerosense-core/internal/api"
	"github.com/aerosense/aerosense-core/internal/climate"
	"github.com/aerosense/aerosense-core/internal/infrastructure/config"
	"github.com/aerosense/aerosense-core/internal/infrastructure/database"
	"github.com/aerosense/aerosense-core/internal/infrastructure/influxdb"
	"github.com/aerosense/aerosense-core/internal/infrastructure/logging"
	"github.com/aerosense/aerosense-core/internal/infrastructure/mqtt"
	"github.com/aerosense/aerosense-core/internal/ingest"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting AeroSense Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	repo := climate.NewSQLiteRepository(db.DB)

	// Connect to MQTT broker (optional; readings can also arrive over HTTP)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled, telemetry via HTTP ingest only")
	}

	// Connect to InfluxDB (optional long-horizon telemetry mirror)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Analytics over the stored readings, shared cache for summaries
	// and reports.
	cache := analytics.NewCache(time.Duration(cfg.Analytics.CacheTTL) * time.Second)
	aggregator := analytics.NewAggregator(repo, cache, log)
	reports := analytics.NewGenerator(repo, cache, log)

	// The WebSocket hub is created up front so the processor can stream
	// events to connected clients.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// Fan pipeline events out to every configured sink.
	publishers := climate.MultiPublisher{hub}
	if mqttClient != nil {
		publishers = append(publishers, ingest.NewPublisher(mqttClient, byte(cfg.MQTT.QoS), log))
	}
	if influxClient != nil {
		publishers = append(publishers, &influxMirror{client: influxClient, repo: repo})
	}

	detector := climate.NewAnomalyDetector(
		cfg.Analytics.AnomalyWindow,
		cfg.Analytics.AnomalyMinSamples,
		cfg.Analytics.AnomalySigma,
	)
	processor := climate.NewProcessor(repo, detector, publishers, log)
	autoControl := climate.NewAutoController(repo)

	// Start the HTTP API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Security:    cfg.Security,
		Logger:      log,
		Repo:        repo,
		Processor:   processor,
		AutoControl: autoControl,
		Aggregator:  aggregator,
		Reports:     reports,
		ExternalHub: hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Start the MQTT telemetry consumer
	if mqttClient != nil {
		consumer, consumerErr := ingest.NewConsumer(mqttClient, processor, byte(cfg.MQTT.QoS), log)
		if consumerErr != nil {
			return fmt.Errorf("creating telemetry consumer: %w", consumerErr)
		}
		if startErr := consumer.Start(); startErr != nil {
			return fmt.Errorf("starting telemetry consumer: %w", startErr)
		}
		defer func() {
			log.Info("stopping telemetry consumer")
			if closeErr := consumer.Close(); closeErr != nil {
				log.Error("error closing telemetry consumer", "error", closeErr)
			}
		}()
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Telemetry consumer (if MQTT enabled)
	// 2. API server
	// 3. InfluxDB (if enabled)
	// 4. MQTT (if enabled)
	// 5. Database

	log.Info("AeroSense Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses AEROSENSE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("AEROSENSE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// influxMirror adapts the InfluxDB client to the pipeline's publisher
// interface. Alerts carry no numeric series and are not mirrored.
type influxMirror struct {
	client *influxdb.Client
	repo   climate.Repository
}

// ReadingAccepted implements climate.Publisher.
func (m *influxMirror) ReadingAccepted(_ context.Context, reading *climate.SensorReading, roomID string) {
	m.client.WriteReading(reading.SensorID, roomID, reading.Temperature, reading.Humidity, reading.RecordedAt)
}

// AlertRaised implements climate.Publisher.
func (m *influxMirror) AlertRaised(_ context.Context, _ *climate.Alert) {
	// Alerts live in SQLite and on the alert topics; nothing to mirror.
}

// CommandIssued implements climate.Publisher.
// Commands in this system only ever switch devices on.
func (m *influxMirror) CommandIssued(ctx context.Context, cmd *climate.DeviceCommand) {
	device, err := m.repo.GetDevice(ctx, cmd.DeviceID)
	if err != nil {
		return
	}
	m.client.WriteDeviceStatus(device.ID, device.Type, true)
}
