package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/aerosense/aerosense-core/internal/climate"
	"github.com/aerosense/aerosense-core/internal/infrastructure/logging"
)

// Trend classifications.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendFluctuating      = "fluctuating"
	TrendInsufficientData = "insufficient_data"
)

// Trend detection tolerances per dimension, in the dimension's unit.
const (
	TempTrendThreshold     = 1.0
	HumidityTrendThreshold = 5.0
)

// minTrendReadings is the smallest window that produces a trend verdict.
const minTrendReadings = 10

// DimensionSummary holds windowed statistics for one dimension.
type DimensionSummary struct {
	Stats
	Trend string `json:"trend"`
}

// Summary is the windowed analytics payload for a room, or for all
// rooms when RoomID is empty.
type Summary struct {
	RoomID       string            `json:"room_id,omitempty"`
	PeriodDays   int               `json:"period_days"`
	ReadingCount int               `json:"reading_count"`
	Temperature  *DimensionSummary `json:"temperature,omitempty"`
	Humidity     *DimensionSummary `json:"humidity,omitempty"`
	AnomalyCount int               `json:"anomaly_count"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// AnalyticsResult wraps a summary with its cache provenance.
type AnalyticsResult struct {
	Data      *Summary `json:"data"`
	FromCache bool     `json:"from_cache"`
}

// Aggregator computes windowed summaries over stored readings with a
// read-through cache.
type Aggregator struct {
	repo   climate.Repository
	cache  *Cache
	logger *logging.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewAggregator creates an aggregator. cache may not be nil.
func NewAggregator(repo climate.Repository, cache *Cache, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Aggregator{
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "analytics"),
		now:    time.Now,
	}
}

// GetAnalytics returns the windowed summary for a room, or across all
// rooms when roomID is empty.
//
// A fresh cache entry is returned verbatim with FromCache true.
// Otherwise the summary is recomputed from readings recorded in the
// last periodDays days, cached, and returned with FromCache false.
// A window containing no readings yields ErrNoReadings and writes
// nothing to the cache.
func (a *Aggregator) GetAnalytics(ctx context.Context, roomID string, periodDays int) (*AnalyticsResult, error) {
	if periodDays <= 0 {
		return nil, fmt.Errorf("%w: period_days %d", ErrInvalidPeriod, periodDays)
	}

	key := SummaryKey(roomID, periodDays)
	if cached, ok := a.cache.Get(key); ok {
		if summary, ok := cached.(*Summary); ok {
			return &AnalyticsResult{Data: summary, FromCache: true}, nil
		}
	}

	since := a.now().UTC().AddDate(0, 0, -periodDays)
	var (
		readings []climate.SensorReading
		err      error
	)
	if roomID == "" {
		readings, err = a.repo.ListReadingsSince(ctx, since)
	} else {
		if _, err := a.repo.GetRoom(ctx, roomID); err != nil {
			return nil, err
		}
		readings, err = a.repo.ListReadingsByRoomSince(ctx, roomID, since)
	}
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, ErrNoReadings
	}

	summary := a.summarize(roomID, periodDays, readings)
	a.cache.Set(key, summary)

	a.logger.Debug("analytics recomputed",
		"room_id", roomID,
		"period_days", periodDays,
		"readings", len(readings))

	return &AnalyticsResult{Data: summary, FromCache: false}, nil
}

// summarize builds a Summary from chronologically ordered readings.
func (a *Aggregator) summarize(roomID string, periodDays int, readings []climate.SensorReading) *Summary {
	summary := &Summary{
		RoomID:       roomID,
		PeriodDays:   periodDays,
		ReadingCount: len(readings),
		GeneratedAt:  a.now().UTC(),
	}

	temps := temperatures(readings)
	if len(temps) > 0 {
		summary.Temperature = &DimensionSummary{
			Stats: Summarize(temps),
			Trend: twoBucketTrend(readings, temperatures, TempTrendThreshold),
		}
	}
	hums := humidities(readings)
	if len(hums) > 0 {
		summary.Humidity = &DimensionSummary{
			Stats: Summarize(hums),
			Trend: twoBucketTrend(readings, humidities, HumidityTrendThreshold),
		}
	}

	for i := range readings {
		if readings[i].IsAnomaly {
			summary.AnomalyCount++
		}
	}
	return summary
}

// twoBucketTrend splits readings into chronological halves and
// compares the per-half means of one dimension.
func twoBucketTrend(readings []climate.SensorReading, extract func([]climate.SensorReading) []float64, threshold float64) string {
	if len(readings) < minTrendReadings {
		return TrendInsufficientData
	}

	half := len(readings) / 2
	first := extract(readings[:half])
	second := extract(readings[half:])
	if len(first) == 0 || len(second) == 0 {
		return TrendInsufficientData
	}

	delta := mean(second) - mean(first)
	switch {
	case delta > threshold:
		return TrendIncreasing
	case delta < -threshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// temperatures extracts non-absent temperature values in order.
func temperatures(readings []climate.SensorReading) []float64 {
	values := make([]float64, 0, len(readings))
	for i := range readings {
		if readings[i].Temperature != nil {
			values = append(values, *readings[i].Temperature)
		}
	}
	return values
}

// humidities extracts non-absent humidity values in order.
func humidities(readings []climate.SensorReading) []float64 {
	values := make([]float64, 0, len(readings))
	for i := range readings {
		if readings[i].Humidity != nil {
			values = append(values, *readings[i].Humidity)
		}
	}
	return values
}
