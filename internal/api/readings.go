package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aerosense/aerosense-core/internal/analytics"
	"github.com/aerosense/aerosense-core/internal/climate"
)

// statsWindow is the rolling window for the per-sensor statistics
// attached to advanced processing responses.
const statsWindow = 24 * time.Hour

// statsWindowLimit caps how many recent readings feed the rolling
// statistics.
const statsWindowLimit = 1000

// readingRequest is the request body for reading submission endpoints.
type readingRequest struct {
	SensorID    string     `json:"sensor_id"`
	Temperature *float64   `json:"temperature,omitempty"`
	Humidity    *float64   `json:"humidity,omitempty"`
	RecordedAt  *time.Time `json:"recorded_at,omitempty"`
}

func (req *readingRequest) toReading() *climate.SensorReading {
	reading := &climate.SensorReading{
		SensorID:    req.SensorID,
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
	}
	if req.RecordedAt != nil {
		reading.RecordedAt = req.RecordedAt.UTC()
	}
	return reading
}

// sensorStats is the rolling per-sensor statistics block on advanced
// processing responses.
type sensorStats struct {
	WindowHours int              `json:"window_hours"`
	Temperature *analytics.Stats `json:"temperature,omitempty"`
	Humidity    *analytics.Stats `json:"humidity,omitempty"`
}

// processResponse is the advanced processing response: the pipeline
// result plus rolling statistics for the sensor.
type processResponse struct {
	climate.ProcessingResult
	Statistics *sensorStats `json:"statistics,omitempty"`
}

// handleIngestReading runs the pipeline for a device-submitted reading.
// This is the unauthenticated ingest path.
func (s *Server) handleIngestReading(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.SensorID == "" {
		writeBadRequest(w, "sensor_id is required")
		return
	}

	result, err := s.processor.Process(r.Context(), req.toReading())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleProcessReading runs the pipeline and attaches rolling
// statistics for the sensor. This is the authenticated advanced path.
func (s *Server) handleProcessReading(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.SensorID == "" {
		writeBadRequest(w, "sensor_id is required")
		return
	}

	result, err := s.processor.Process(r.Context(), req.toReading())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp := processResponse{ProcessingResult: *result}
	if stats, err := s.rollingStats(r, req.SensorID); err == nil {
		resp.Statistics = stats
	} else {
		s.logger.Warn("rolling statistics unavailable", "sensor_id", req.SensorID, "error", err)
	}

	writeJSON(w, http.StatusCreated, resp)
}

// rollingStats computes per-dimension statistics over the sensor's
// last 24 hours of readings.
func (s *Server) rollingStats(r *http.Request, sensorID string) (*sensorStats, error) {
	readings, err := s.repo.ListRecentReadings(r.Context(), sensorID, statsWindowLimit)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-statsWindow)
	var temps, hums []float64
	for i := range readings {
		if readings[i].RecordedAt.Before(cutoff) {
			continue
		}
		if readings[i].Temperature != nil {
			temps = append(temps, *readings[i].Temperature)
		}
		if readings[i].Humidity != nil {
			hums = append(hums, *readings[i].Humidity)
		}
	}

	stats := &sensorStats{WindowHours: int(statsWindow.Hours())}
	if len(temps) > 0 {
		t := analytics.Summarize(temps)
		stats.Temperature = &t
	}
	if len(hums) > 0 {
		h := analytics.Summarize(hums)
		stats.Humidity = &h
	}
	return stats, nil
}

// handleAutoControl runs the auto-control flow for a stored reading.
func (s *Server) handleAutoControl(w http.ResponseWriter, r *http.Request) {
	if s.autoControl == nil {
		writeInternalError(w, "auto-control not configured")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid reading id")
		return
	}

	result, err := s.autoControl.Evaluate(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetReading returns a stored reading by ID.
func (s *Server) handleGetReading(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid reading id")
		return
	}

	reading, err := s.repo.GetReading(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reading)
}
