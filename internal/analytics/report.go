package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aerosense/aerosense-core/internal/climate"
	"github.com/aerosense/aerosense-core/internal/infrastructure/logging"
)

// Report trend tolerances. Tighter than the summary trend because the
// report compares three buckets instead of two.
const (
	ReportTempTolerance     = 1.0
	ReportHumidityTolerance = 3.0
)

// defaultReportWindow is used when neither an explicit range nor a
// relative period is given.
const defaultReportWindow = 7 * 24 * time.Hour

// ReportParams selects the readings a report covers. An explicit
// Start/End range wins over PeriodHours; with neither set the report
// covers the last seven days. An empty RoomID covers all rooms.
type ReportParams struct {
	RoomID      string
	Start       *time.Time
	End         *time.Time
	PeriodHours int
}

// window resolves the params to a concrete [start, end) range.
func (p *ReportParams) window(now time.Time) (start, end time.Time, err error) {
	switch {
	case p.Start != nil && p.End != nil:
		start, end = p.Start.UTC(), p.End.UTC()
	case p.Start != nil || p.End != nil:
		return start, end, fmt.Errorf("%w: start and end must be given together", ErrInvalidPeriod)
	case p.PeriodHours > 0:
		end = now
		start = now.Add(-time.Duration(p.PeriodHours) * time.Hour)
	case p.PeriodHours < 0:
		return start, end, fmt.Errorf("%w: period_hours %d", ErrInvalidPeriod, p.PeriodHours)
	default:
		end = now
		start = now.Add(-defaultReportWindow)
	}
	if !start.Before(end) {
		return start, end, fmt.Errorf("%w: start %s not before end %s",
			ErrInvalidPeriod, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return start, end, nil
}

// cacheKey hashes the parameters as given, before the window is
// resolved against the clock. A relative request like "last 24 hours"
// therefore keys to the same entry on every repeat, instead of minting
// a fresh key each time now() moves.
func (p *ReportParams) cacheKey() string {
	fmtTime := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	}
	canonical := fmt.Sprintf("report|room=%s|start=%s|end=%s|period=%d",
		p.RoomID, fmtTime(p.Start), fmtTime(p.End), p.PeriodHours)
	sum := sha256.Sum256([]byte(canonical))
	return "report_" + hex.EncodeToString(sum[:])
}

// ReportDimension holds per-dimension report statistics.
type ReportDimension struct {
	Stats
	StdDev float64   `json:"std_dev"`
	MinAt  time.Time `json:"min_at"`
	MaxAt  time.Time `json:"max_at"`
	Trend  string    `json:"trend"`
}

// HourlyBucket is the average of all readings whose timestamp falls
// within one clock hour.
type HourlyBucket struct {
	Hour           time.Time `json:"hour"`
	AvgTemperature *float64  `json:"avg_temperature,omitempty"`
	AvgHumidity    *float64  `json:"avg_humidity,omitempty"`
	Count          int       `json:"count"`
}

// Report is the full analytical report over a time window.
type Report struct {
	RoomID       string           `json:"room_id,omitempty"`
	Start        time.Time        `json:"start"`
	End          time.Time        `json:"end"`
	ReadingCount int              `json:"reading_count"`
	Temperature  *ReportDimension `json:"temperature,omitempty"`
	Humidity     *ReportDimension `json:"humidity,omitempty"`
	Hourly       []HourlyBucket   `json:"hourly"`
	AnomalyCount int              `json:"anomaly_count"`
	AnomalyRate  float64          `json:"anomaly_rate"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// ReportResult wraps a report with its cache provenance.
type ReportResult struct {
	Data      *Report `json:"data"`
	FromCache bool    `json:"from_cache"`
}

// Generator produces reports over stored readings with a read-through
// cache.
type Generator struct {
	repo   climate.Repository
	cache  *Cache
	logger *logging.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewGenerator creates a report generator. cache may not be nil.
func NewGenerator(repo climate.Repository, cache *Cache, logger *logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "reports"),
		now:    time.Now,
	}
}

// Generate builds (or returns the cached) report for the given
// parameters. An empty window yields ErrNoReadings and writes nothing
// to the cache.
func (g *Generator) Generate(ctx context.Context, params ReportParams) (*ReportResult, error) {
	start, end, err := params.window(g.now().UTC())
	if err != nil {
		return nil, err
	}

	key := params.cacheKey()
	if cached, ok := g.cache.Get(key); ok {
		if report, ok := cached.(*Report); ok {
			return &ReportResult{Data: report, FromCache: true}, nil
		}
	}

	var readings []climate.SensorReading
	if params.RoomID == "" {
		readings, err = g.repo.ListReadingsBetween(ctx, start, end)
	} else {
		if _, err := g.repo.GetRoom(ctx, params.RoomID); err != nil {
			return nil, err
		}
		readings, err = g.repo.ListReadingsByRoomBetween(ctx, params.RoomID, start, end)
	}
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, ErrNoReadings
	}

	report := g.build(params.RoomID, start, end, readings)
	g.cache.Set(key, report)

	g.logger.Debug("report generated",
		"room_id", params.RoomID,
		"start", start,
		"end", end,
		"readings", len(readings))

	return &ReportResult{Data: report, FromCache: false}, nil
}

// build assembles a report from chronologically ordered readings.
func (g *Generator) build(roomID string, start, end time.Time, readings []climate.SensorReading) *Report {
	report := &Report{
		RoomID:       roomID,
		Start:        start,
		End:          end,
		ReadingCount: len(readings),
		Hourly:       hourlyBuckets(readings),
		GeneratedAt:  g.now().UTC(),
	}

	if temps := temperatures(readings); len(temps) > 0 {
		report.Temperature = reportDimension(readings,
			func(r *climate.SensorReading) *float64 { return r.Temperature },
			temps, temperatures, ReportTempTolerance)
	}
	if hums := humidities(readings); len(hums) > 0 {
		report.Humidity = reportDimension(readings,
			func(r *climate.SensorReading) *float64 { return r.Humidity },
			hums, humidities, ReportHumidityTolerance)
	}

	for i := range readings {
		if readings[i].IsAnomaly {
			report.AnomalyCount++
		}
	}
	report.AnomalyRate = 100 * float64(report.AnomalyCount) / float64(len(readings))
	return report
}

// reportDimension computes one dimension's report block, including the
// timestamps of the first occurrence of each extremal value.
func reportDimension(readings []climate.SensorReading, value func(*climate.SensorReading) *float64,
	values []float64, extract func([]climate.SensorReading) []float64, tolerance float64) *ReportDimension {

	dim := &ReportDimension{
		Stats:  Summarize(values),
		StdDev: sampleStdDev(values),
		Trend:  threeBucketTrend(readings, extract, tolerance),
	}

	for i := range readings {
		v := value(&readings[i])
		if v == nil {
			continue
		}
		if *v == dim.Min && dim.MinAt.IsZero() {
			dim.MinAt = readings[i].RecordedAt
		}
		if *v == dim.Max && dim.MaxAt.IsZero() {
			dim.MaxAt = readings[i].RecordedAt
		}
	}
	return dim
}

// threeBucketTrend splits readings into chronological thirds and
// classifies the movement of one dimension's per-bucket means.
func threeBucketTrend(readings []climate.SensorReading, extract func([]climate.SensorReading) []float64, tolerance float64) string {
	if len(readings) < minTrendReadings {
		return TrendInsufficientData
	}

	third := len(readings) / 3
	b1 := extract(readings[:third])
	b2 := extract(readings[third : 2*third])
	b3 := extract(readings[2*third:])
	if len(b1) == 0 || len(b2) == 0 || len(b3) == 0 {
		return TrendInsufficientData
	}

	m1, m2, m3 := mean(b1), mean(b2), mean(b3)
	switch {
	case m1 < m2 && m2 < m3:
		return TrendIncreasing
	case m1 > m2 && m2 > m3:
		return TrendDecreasing
	case math.Abs(m3-m1) < tolerance:
		// Stability is judged on the net movement between the first
		// and last thirds. A middle bucket that spikes and recovers
		// does not make an otherwise flat window fluctuating.
		return TrendStable
	default:
		return TrendFluctuating
	}
}

// hourlyBuckets averages readings per clock hour, in chronological
// order.
func hourlyBuckets(readings []climate.SensorReading) []HourlyBucket {
	type accumulator struct {
		tempSum, humSum     float64
		tempCount, humCount int
		count               int
	}
	buckets := make(map[time.Time]*accumulator)
	for i := range readings {
		hour := readings[i].RecordedAt.UTC().Truncate(time.Hour)
		acc, ok := buckets[hour]
		if !ok {
			acc = &accumulator{}
			buckets[hour] = acc
		}
		acc.count++
		if readings[i].Temperature != nil {
			acc.tempSum += *readings[i].Temperature
			acc.tempCount++
		}
		if readings[i].Humidity != nil {
			acc.humSum += *readings[i].Humidity
			acc.humCount++
		}
	}

	hours := make([]time.Time, 0, len(buckets))
	for hour := range buckets {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	result := make([]HourlyBucket, 0, len(hours))
	for _, hour := range hours {
		acc := buckets[hour]
		bucket := HourlyBucket{Hour: hour, Count: acc.count}
		if acc.tempCount > 0 {
			avg := acc.tempSum / float64(acc.tempCount)
			bucket.AvgTemperature = &avg
		}
		if acc.humCount > 0 {
			avg := acc.humSum / float64(acc.humCount)
			bucket.AvgHumidity = &avg
		}
		result = append(result, bucket)
	}
	return result
}
