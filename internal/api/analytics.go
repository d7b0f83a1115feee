package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aerosense/aerosense-core/internal/analytics"
)

// defaultAnalyticsPeriodDays is the analytics window when the client
// does not supply one.
const defaultAnalyticsPeriodDays = 7

// handleAnalytics returns summary statistics for a room, or for all
// rooms when room_id is absent.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.aggregator == nil {
		writeInternalError(w, "analytics not configured")
		return
	}

	periodDays := defaultAnalyticsPeriodDays
	if raw := r.URL.Query().Get("period_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "period_days must be an integer")
			return
		}
		periodDays = parsed
	}

	result, err := s.aggregator.GetAnalytics(r.Context(), r.URL.Query().Get("room_id"), periodDays)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReport generates a detailed climate report. The window comes
// from an explicit start/end pair, a relative period_hours, or defaults
// to the last seven days.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeInternalError(w, "reports not configured")
		return
	}

	params := analytics.ReportParams{RoomID: r.URL.Query().Get("room_id")}

	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeBadRequest(w, "start must be RFC3339")
			return
		}
		params.Start = &start
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeBadRequest(w, "end must be RFC3339")
			return
		}
		params.End = &end
	}
	if raw := r.URL.Query().Get("period_hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "period_hours must be an integer")
			return
		}
		params.PeriodHours = hours
	}

	report, err := s.reports.Generate(r.Context(), params)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
