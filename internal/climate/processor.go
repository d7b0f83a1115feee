package climate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aerosense/aerosense-core/internal/infrastructure/logging"
)

// Publisher receives notifications after the processing pipeline
// commits. Implementations must not block; slow consumers should
// buffer internally.
type Publisher interface {
	ReadingAccepted(ctx context.Context, reading *SensorReading, roomID string)
	AlertRaised(ctx context.Context, alert *Alert)
	CommandIssued(ctx context.Context, cmd *DeviceCommand)
}

// MultiPublisher fans notifications out to several publishers in order.
type MultiPublisher []Publisher

func (m MultiPublisher) ReadingAccepted(ctx context.Context, reading *SensorReading, roomID string) {
	for _, p := range m {
		p.ReadingAccepted(ctx, reading, roomID)
	}
}

func (m MultiPublisher) AlertRaised(ctx context.Context, alert *Alert) {
	for _, p := range m {
		p.AlertRaised(ctx, alert)
	}
}

func (m MultiPublisher) CommandIssued(ctx context.Context, cmd *DeviceCommand) {
	for _, p := range m {
		p.CommandIssued(ctx, cmd)
	}
}

// Processor runs the reading pipeline: validation, persistence,
// threshold evaluation, anomaly detection, and device dispatch.
//
// All writes from one reading happen in a single transaction. A
// failure at any step rolls everything back, so a reading is either
// fully processed or absent.
type Processor struct {
	repo     Repository
	detector *AnomalyDetector
	pub      Publisher
	logger   *logging.Logger
}

// NewProcessor creates a processor. pub may be nil when no downstream
// notifications are wanted.
func NewProcessor(repo Repository, detector *AnomalyDetector, pub Publisher, logger *logging.Logger) *Processor {
	if detector == nil {
		detector = NewAnomalyDetector(DefaultAnomalyWindow, DefaultAnomalyMinSamples, DefaultAnomalySigma)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Processor{
		repo:     repo,
		detector: detector,
		pub:      pub,
		logger:   logger.With("component", "processor"),
	}
}

// Process runs the full pipeline for one incoming reading.
//
// The reading is validated, checked against its sensor and room,
// stored, evaluated against the room's limits, and tested for
// statistical anomalies against the sensor's recent history. Threshold
// breaches raise alerts, and when the room has auto-control enabled
// they also turn on the matching corrective device. Anomalies raise a
// warning alert but trigger no device.
//
// On success the stored reading's generated ID is set and a
// ProcessingResult summarises what happened. Publishers are notified
// only after the transaction commits.
func (p *Processor) Process(ctx context.Context, reading *SensorReading) (*ProcessingResult, error) {
	// Sensor resolution comes first: an unknown sensor is rejected as
	// not-found even when its values are also implausible.
	sensor, err := p.repo.GetSensor(ctx, reading.SensorID)
	if err != nil {
		return nil, err
	}
	if !sensor.IsActive {
		return nil, fmt.Errorf("%w: sensor %s", ErrSensorInactive, sensor.ID)
	}
	if err := ValidateReading(reading); err != nil {
		return nil, err
	}
	room, err := p.repo.GetRoom(ctx, sensor.RoomID)
	if err != nil {
		return nil, err
	}

	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = time.Now().UTC()
	}

	// History is captured before the insert so the reading under test
	// never skews its own baseline.
	history, err := p.repo.ListRecentReadings(ctx, reading.SensorID, p.detector.Window())
	if err != nil {
		return nil, err
	}

	reading.IsAnomaly = p.detector.IsAnomaly(reading, history)

	var (
		alerts   []*Alert
		commands []*DeviceCommand
		result   = &ProcessingResult{ThresholdChecked: room.HasThreshold(), IsAnomaly: reading.IsAnomaly}
	)

	err = p.repo.InTx(ctx, func(txRepo Repository) error {
		if err := txRepo.InsertReading(ctx, reading); err != nil {
			return err
		}
		if err := txRepo.TouchSensor(ctx, sensor.ID, reading.RecordedAt); err != nil {
			return err
		}

		dispatcher := NewDispatcher(txRepo)
		for _, v := range EvaluateThresholds(reading, room) {
			alert := &Alert{
				RoomID:         room.ID,
				SensorID:       &sensor.ID,
				ReadingID:      &reading.ID,
				Type:           v.Type,
				Severity:       v.Severity,
				Message:        v.Message,
				Value:          &v.Value,
				ThresholdValue: &v.Limit,
			}
			if err := txRepo.InsertAlert(ctx, alert); err != nil {
				return err
			}
			alerts = append(alerts, alert)

			// Alerts are always raised, but devices only move when the
			// room has auto-control switched on.
			if !room.AutoControlEnabled {
				continue
			}
			condition, ok := ConditionForAlert(v.Type)
			if !ok {
				continue
			}
			cmd, err := dispatcher.Dispatch(ctx, room.ID, condition, &reading.ID, v.Type)
			if err != nil {
				if errors.Is(err, ErrDeviceNotFound) {
					// The room has no corrective device for this
					// condition. The alert alone is enough.
					continue
				}
				return err
			}
			commands = append(commands, cmd)
		}

		if reading.IsAnomaly {
			alert := &Alert{
				RoomID:    room.ID,
				SensorID:  &sensor.ID,
				ReadingID: &reading.ID,
				Type:      AlertAnomalyDetected,
				Severity:  SeverityWarning,
				Message:   fmt.Sprintf("Anomalous reading detected from sensor %s", sensor.ID),
			}
			if err := txRepo.InsertAlert(ctx, alert); err != nil {
				return err
			}
			alerts = append(alerts, alert)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Success = true
	result.ReadingID = reading.ID
	result.AlertsCreated = len(alerts)
	result.CommandsExecuted = len(commands)

	p.logger.Debug("reading processed",
		"sensor_id", sensor.ID,
		"room_id", room.ID,
		"reading_id", reading.ID,
		"alerts", result.AlertsCreated,
		"commands", result.CommandsExecuted,
		"anomaly", result.IsAnomaly)

	if p.pub != nil {
		p.pub.ReadingAccepted(ctx, reading, room.ID)
		for _, a := range alerts {
			p.pub.AlertRaised(ctx, a)
		}
		for _, c := range commands {
			p.pub.CommandIssued(ctx, c)
		}
	}

	return result, nil
}
