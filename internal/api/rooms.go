package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aerosense/aerosense-core/internal/climate"
)

// createRoomRequest is the request body for room creation. Every
// threshold bound is optional; omitted bounds are left unset.
type createRoomRequest struct {
	ID                 string   `json:"id,omitempty"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	TempMin            *float64 `json:"temp_min,omitempty"`
	TempMax            *float64 `json:"temp_max,omitempty"`
	HumidityMin        *float64 `json:"humidity_min,omitempty"`
	HumidityMax        *float64 `json:"humidity_max,omitempty"`
	AutoControlEnabled bool     `json:"auto_control_enabled"`
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.repo.ListRooms(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	room := &climate.Room{
		ID:                 req.ID,
		Name:               req.Name,
		Description:        req.Description,
		TempMin:            req.TempMin,
		TempMax:            req.TempMax,
		HumidityMin:        req.HumidityMin,
		HumidityMax:        req.HumidityMax,
		AutoControlEnabled: req.AutoControlEnabled,
	}
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if err := climate.ValidateRoom(room); err != nil {
		s.writeDomainError(w, err)
		return
	}

	if err := s.repo.CreateRoom(r.Context(), room); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logger.Info("room created", "room_id", room.ID, "name", room.Name)
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.repo.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.DeleteRoom(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.logger.Info("room deleted", "room_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateThreshold applies a partial threshold update to a room.
// Absent fields keep their current values.
func (s *Server) handleUpdateThreshold(w http.ResponseWriter, r *http.Request) {
	var patch climate.ThresholdPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if patch.IsEmpty() {
		writeBadRequest(w, "at least one threshold field is required")
		return
	}

	room, err := s.repo.UpdateRoomThreshold(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logger.Info("room thresholds updated", "room_id", room.ID)
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleListRoomSensors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.repo.GetRoom(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	sensors, err := s.repo.ListSensorsByRoom(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sensors)
}

func (s *Server) handleListRoomDevices(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.repo.GetRoom(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	devices, err := s.repo.ListDevicesByRoom(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}
