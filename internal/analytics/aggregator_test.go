package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aerosense/aerosense-core/internal/climate"
	"github.com/aerosense/aerosense-core/internal/infrastructure/database"
	_ "github.com/aerosense/aerosense-core/migrations"
)

// setupRepo creates a migrated SQLite database with one room and one
// sensor.
func setupRepo(t *testing.T) climate.Repository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "analytics_test.db"),
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		db.Close() //nolint:errcheck // Test cleanup
	})
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	repo := climate.NewSQLiteRepository(db.DB)
	ctx := context.Background()
	room := &climate.Room{
		ID: "room-1", Name: "Office",
		TempMin: fptr(18), TempMax: fptr(25), HumidityMin: fptr(30), HumidityMax: fptr(60),
	}
	if err := repo.CreateRoom(ctx, room); err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	sensor := &climate.Sensor{ID: "sensor-1", RoomID: "room-1", Name: "S1", Type: "climate", IsActive: true}
	if err := repo.CreateSensor(ctx, sensor); err != nil {
		t.Fatalf("CreateSensor() error = %v", err)
	}
	return repo
}

func insertReading(t *testing.T, repo climate.Repository, temp, hum *float64, at time.Time, anomaly bool) {
	t.Helper()
	reading := &climate.SensorReading{
		SensorID:    "sensor-1",
		Temperature: temp,
		Humidity:    hum,
		IsAnomaly:   anomaly,
		RecordedAt:  at,
	}
	if err := repo.InsertReading(context.Background(), reading); err != nil {
		t.Fatalf("InsertReading() error = %v", err)
	}
}

func fptr(v float64) *float64 { return &v }

func TestGetAnalytics(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-2 * time.Hour)
	for i := 0; i < 12; i++ {
		insertReading(t, repo, fptr(20.0+float64(i)*0.5), fptr(45.0), base.Add(time.Duration(i)*time.Minute), i == 3)
	}

	agg := NewAggregator(repo, NewCache(time.Hour), nil)

	result, err := agg.GetAnalytics(ctx, "room-1", 7)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}
	if result.FromCache {
		t.Error("first call FromCache = true, want false")
	}
	data := result.Data
	if data.ReadingCount != 12 || data.AnomalyCount != 1 {
		t.Errorf("data = %+v, want 12 readings and 1 anomaly", data)
	}
	if data.Temperature == nil || data.Humidity == nil {
		t.Fatal("dimension summaries missing")
	}
	if data.Temperature.Min != 20.0 || data.Temperature.Max != 25.5 {
		t.Errorf("temperature min/max = %v/%v, want 20/25.5", data.Temperature.Min, data.Temperature.Max)
	}
	// First half mean 21.25, second half 24.25: delta 3 > 1.0.
	if data.Temperature.Trend != TrendIncreasing {
		t.Errorf("temperature trend = %s, want increasing", data.Temperature.Trend)
	}
	// Constant humidity stays within the 5.0 threshold.
	if data.Humidity.Trend != TrendStable {
		t.Errorf("humidity trend = %s, want stable", data.Humidity.Trend)
	}

	// Second call within the TTL is served from cache with the same
	// payload.
	again, err := agg.GetAnalytics(ctx, "room-1", 7)
	if err != nil {
		t.Fatalf("GetAnalytics() second call error = %v", err)
	}
	if !again.FromCache {
		t.Error("second call FromCache = false, want true")
	}
	if again.Data != data {
		t.Error("cached call returned a different payload")
	}
}

func TestGetAnalytics_TTLExpiryRecomputes(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		insertReading(t, repo, fptr(21.0), nil, time.Now().UTC().Add(-time.Duration(i)*time.Minute), false)
	}

	cache := NewCache(time.Hour)
	base := time.Now().UTC()
	now := base
	cache.now = func() time.Time { return now }

	agg := NewAggregator(repo, cache, nil)

	first, err := agg.GetAnalytics(ctx, "room-1", 7)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}
	if first.FromCache {
		t.Error("first call FromCache = true")
	}

	now = base.Add(2 * time.Hour)
	second, err := agg.GetAnalytics(ctx, "room-1", 7)
	if err != nil {
		t.Fatalf("GetAnalytics() after expiry error = %v", err)
	}
	if second.FromCache {
		t.Error("expired entry served from cache")
	}
}

func TestGetAnalytics_NoReadings(t *testing.T) {
	repo := setupRepo(t)
	cache := NewCache(time.Hour)
	agg := NewAggregator(repo, cache, nil)

	_, err := agg.GetAnalytics(context.Background(), "room-1", 7)
	if !errors.Is(err, ErrNoReadings) {
		t.Fatalf("GetAnalytics() error = %v, want ErrNoReadings", err)
	}
	// The miss must not poison the cache.
	if cache.Len() != 0 {
		t.Errorf("cache has %d entries after not-found, want 0", cache.Len())
	}
}

func TestGetAnalytics_UnknownRoom(t *testing.T) {
	repo := setupRepo(t)
	agg := NewAggregator(repo, NewCache(time.Hour), nil)

	_, err := agg.GetAnalytics(context.Background(), "ghost", 7)
	if !errors.Is(err, climate.ErrRoomNotFound) {
		t.Errorf("GetAnalytics() error = %v, want ErrRoomNotFound", err)
	}
}

func TestGetAnalytics_AllRooms(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		insertReading(t, repo, fptr(21.0), fptr(50.0), time.Now().UTC().Add(-time.Duration(i)*time.Minute), false)
	}

	agg := NewAggregator(repo, NewCache(time.Hour), nil)
	result, err := agg.GetAnalytics(ctx, "", 7)
	if err != nil {
		t.Fatalf("GetAnalytics() all rooms error = %v", err)
	}
	if result.Data.RoomID != "" || result.Data.ReadingCount != 4 {
		t.Errorf("data = %+v, want all-rooms scope with 4 readings", result.Data)
	}
	// Below the trend minimum.
	if result.Data.Temperature.Trend != TrendInsufficientData {
		t.Errorf("trend = %s with 4 readings, want insufficient_data", result.Data.Temperature.Trend)
	}
}

func TestGetAnalytics_InvalidPeriod(t *testing.T) {
	repo := setupRepo(t)
	agg := NewAggregator(repo, NewCache(time.Hour), nil)

	if _, err := agg.GetAnalytics(context.Background(), "room-1", 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("GetAnalytics() error = %v, want ErrInvalidPeriod", err)
	}
}

func TestGetAnalytics_WindowExcludesOldReadings(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	insertReading(t, repo, fptr(99.0), nil, time.Now().UTC().AddDate(0, 0, -10), false)
	insertReading(t, repo, fptr(21.0), nil, time.Now().UTC().Add(-time.Hour), false)

	agg := NewAggregator(repo, NewCache(time.Hour), nil)
	result, err := agg.GetAnalytics(ctx, "room-1", 7)
	if err != nil {
		t.Fatalf("GetAnalytics() error = %v", err)
	}
	if result.Data.ReadingCount != 1 {
		t.Errorf("ReadingCount = %d, want 1 inside the 7 day window", result.Data.ReadingCount)
	}
	if result.Data.Temperature.Max != 21.0 {
		t.Errorf("Max = %v, old reading leaked into the window", result.Data.Temperature.Max)
	}
}

func TestTwoBucketTrend(t *testing.T) {
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
		threshold float64
		want      string
	}{
		{"too few readings", mk(1, 2, 3, 4, 5), 1.0, TrendInsufficientData},
		{"increasing", mk(20, 20, 20, 20, 20, 22, 22, 22, 22, 22), 1.0, TrendIncreasing},
		{"decreasing", mk(22, 22, 22, 22, 22, 20, 20, 20, 20, 20), 1.0, TrendDecreasing},
		{"stable within threshold", mk(20, 20, 20, 20, 20, 20.5, 20.5, 20.5, 20.5, 20.5), 1.0, TrendStable},
		{"delta exactly at threshold is stable", mk(20, 20, 20, 20, 20, 21, 21, 21, 21, 21), 1.0, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := twoBucketTrend(tt.readings, temperatures, tt.threshold); got != tt.want {
				t.Errorf("twoBucketTrend() = %s, want %s", got, tt.want)
			}
		})
	}
}
