package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// defaultListLimit bounds list endpoints when no limit is given.
const defaultListLimit = 100

// maxListLimit is the hard cap on client-supplied limits.
const maxListLimit = 1000

// parseLimit reads an optional "limit" query parameter, clamped to
// [1, maxListLimit].
func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// handleListAlerts returns the newest alerts for a room.
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room_id")
	if roomID == "" {
		writeBadRequest(w, "room_id is required")
		return
	}
	if _, err := s.repo.GetRoom(r.Context(), roomID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	alerts, err := s.repo.ListAlertsByRoom(r.Context(), roomID, parseLimit(r, defaultListLimit))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// handleResolveAlert marks an unresolved alert as resolved.
func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid alert id")
		return
	}

	if err := s.repo.ResolveAlert(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logger.Info("alert resolved", "alert_id", id)
	w.WriteHeader(http.StatusNoContent)
}
