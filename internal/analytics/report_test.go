package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aerosense/aerosense-core/internal/climate"
)

func TestReportParams_Window(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		params    ReportParams
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "explicit range",
			params:    ReportParams{Start: &start, End: &end},
			wantStart: start,
			wantEnd:   end,
		},
		{
			name:      "relative period",
			params:    ReportParams{PeriodHours: 24},
			wantStart: now.Add(-24 * time.Hour),
			wantEnd:   now,
		},
		{
			name:      "default seven days",
			params:    ReportParams{},
			wantStart: now.Add(-7 * 24 * time.Hour),
			wantEnd:   now,
		},
		{
			name:    "start without end",
			params:  ReportParams{Start: &start},
			wantErr: true,
		},
		{
			name:    "end before start",
			params:  ReportParams{Start: &end, End: &start},
			wantErr: true,
		},
		{
			name:    "negative period",
			params:  ReportParams{PeriodHours: -1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd, err := tt.params.window(now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("window() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Errorf("window() error = %v, want ErrInvalidPeriod", err)
				}
				return
			}
			if !gotStart.Equal(tt.wantStart) || !gotEnd.Equal(tt.wantEnd) {
				t.Errorf("window() = [%v, %v), want [%v, %v)", gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestReportCacheKey(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	p1 := ReportParams{RoomID: "room-1", PeriodHours: 24}
	p2 := ReportParams{RoomID: "room-1", PeriodHours: 24}
	if p1.cacheKey() != p2.cacheKey() {
		t.Error("identical parameters produced different keys")
	}
	if p1.cacheKey() == (&ReportParams{RoomID: "room-2", PeriodHours: 24}).cacheKey() {
		t.Error("different rooms share a key")
	}
	if p1.cacheKey() == (&ReportParams{RoomID: "room-1", PeriodHours: 48}).cacheKey() {
		t.Error("different periods share a key")
	}
	if p1.cacheKey() == (&ReportParams{RoomID: "room-1", Start: &start, End: &end}).cacheKey() {
		t.Error("relative and explicit windows share a key")
	}
}

func TestGenerate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	// Two clock hours of readings, one anomalous out of ten.
	base := time.Now().UTC().Add(-3 * time.Hour).Truncate(time.Hour)
	for i := 0; i < 10; i++ {
		insertReading(t, repo,
			fptr(20.0+float64(i)), fptr(40.0+float64(i)),
			base.Add(time.Duration(i)*13*time.Minute), i == 9)
	}

	gen := NewGenerator(repo, NewCache(time.Hour), nil)
	result, err := gen.Generate(ctx, ReportParams{RoomID: "room-1", PeriodHours: 6})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.FromCache {
		t.Error("first call FromCache = true")
	}

	report := result.Data
	if report.ReadingCount != 10 {
		t.Fatalf("ReadingCount = %d, want 10", report.ReadingCount)
	}
	if report.AnomalyCount != 1 || !almostEqual(report.AnomalyRate, 10.0) {
		t.Errorf("anomalies = %d at %v%%, want 1 at 10%%", report.AnomalyCount, report.AnomalyRate)
	}

	if report.Temperature == nil {
		t.Fatal("temperature block missing")
	}
	if report.Temperature.Min != 20.0 || report.Temperature.Max != 29.0 {
		t.Errorf("temperature min/max = %v/%v, want 20/29", report.Temperature.Min, report.Temperature.Max)
	}
	if !report.Temperature.MinAt.Equal(base) {
		t.Errorf("MinAt = %v, want %v", report.Temperature.MinAt, base)
	}
	if !report.Temperature.MaxAt.Equal(base.Add(9 * 13 * time.Minute)) {
		t.Errorf("MaxAt = %v, want timestamp of the max reading", report.Temperature.MaxAt)
	}
	if report.Temperature.StdDev == 0 {
		t.Error("StdDev = 0 for a spread series")
	}
	// Strictly rising thirds.
	if report.Temperature.Trend != TrendIncreasing {
		t.Errorf("temperature trend = %s, want increasing", report.Temperature.Trend)
	}

	if len(report.Hourly) == 0 {
		t.Fatal("no hourly buckets")
	}
	var counted int
	for i, bucket := range report.Hourly {
		if i > 0 && !report.Hourly[i-1].Hour.Before(bucket.Hour) {
			t.Error("hourly buckets not in chronological order")
		}
		if bucket.AvgTemperature == nil {
			t.Error("hourly bucket missing temperature average")
		}
		counted += bucket.Count
	}
	if counted != 10 {
		t.Errorf("hourly buckets account for %d readings, want 10", counted)
	}

	again, err := gen.Generate(ctx, ReportParams{RoomID: "room-1", PeriodHours: 6})
	if err != nil {
		t.Fatalf("Generate() second call error = %v", err)
	}
	if !again.FromCache {
		t.Error("second call FromCache = false, want read-through hit")
	}
}

func TestGenerate_RelativeWindowCacheHit(t *testing.T) {
	// A repeat of the same relative request must hit the cache even
	// though the clock has moved and the resolved window with it.
	repo := setupRepo(t)
	ctx := context.Background()

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertReading(t, repo, fptr(21.0), fptr(45.0), now.Add(-time.Duration(i+1)*time.Hour), false)
	}

	gen := NewGenerator(repo, NewCache(time.Hour), nil)
	gen.now = func() time.Time { return now }

	first, err := gen.Generate(ctx, ReportParams{RoomID: "room-1", PeriodHours: 24})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if first.FromCache {
		t.Error("first call FromCache = true")
	}

	gen.now = func() time.Time { return now.Add(10 * time.Minute) }
	second, err := gen.Generate(ctx, ReportParams{RoomID: "room-1", PeriodHours: 24})
	if err != nil {
		t.Fatalf("Generate() repeat error = %v", err)
	}
	if !second.FromCache {
		t.Error("repeat call FromCache = false, want a hit ten minutes later")
	}
}

func TestGenerate_NoReadings(t *testing.T) {
	repo := setupRepo(t)
	gen := NewGenerator(repo, NewCache(time.Hour), nil)

	if _, err := gen.Generate(context.Background(), ReportParams{RoomID: "room-1"}); !errors.Is(err, ErrNoReadings) {
		t.Errorf("Generate() error = %v, want ErrNoReadings", err)
	}
}

func TestGenerate_UnknownRoom(t *testing.T) {
	repo := setupRepo(t)
	gen := NewGenerator(repo, NewCache(time.Hour), nil)

	if _, err := gen.Generate(context.Background(), ReportParams{RoomID: "ghost"}); !errors.Is(err, climate.ErrRoomNotFound) {
		t.Errorf("Generate() error = %v, want ErrRoomNotFound", err)
	}
}

func TestThreeBucketTrend(t *testing.T) {
	mk := func(values ...float64) []climate.SensorReading {
		readings := make([]climate.SensorReading, len(values))
		for i, v := range values {
			val := v
			readings[i] = climate.SensorReading{Temperature: &val}
		}
		return readings
	}

	tests := []struct {
		name      string
		readings  []climate.SensorReading
		tolerance float64
		want      string
	}{
		{
			name:      "too few readings",
			readings:  mk(1, 2, 3),
			tolerance: 1.0,
			want:      TrendInsufficientData,
		},
		{
			name:      "monotonic increase",
			readings:  mk(20, 20, 20, 22, 22, 22, 24, 24, 24, 24),
			tolerance: 1.0,
			want:      TrendIncreasing,
		},
		{
			name:      "monotonic decrease",
			readings:  mk(24, 24, 24, 22, 22, 22, 20, 20, 20, 20),
			tolerance: 1.0,
			want:      TrendDecreasing,
		},
		{
			name:      "stable within tolerance",
			readings:  mk(20, 20.2, 20, 20.4, 20.1, 20.3, 20, 20.2, 20.4, 20.1),
			tolerance: 1.0,
			want:      TrendStable,
		},
		{
			// A spike in the middle third that fully recovers is net
			// flat, not fluctuating.
			name:      "middle spike recovers to stable",
			readings:  mk(20, 20, 20, 25, 25, 25, 20, 20, 20, 20),
			tolerance: 1.0,
			want:      TrendStable,
		},
		{
			name:      "fluctuating beyond tolerance",
			readings:  mk(20, 20, 20, 25, 25, 25, 22, 22, 22, 22),
			tolerance: 1.0,
			want:      TrendFluctuating,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := threeBucketTrend(tt.readings, temperatures, tt.tolerance); got != tt.want {
				t.Errorf("threeBucketTrend() = %s, want %s", got, tt.want)
			}
		})
	}
}
