package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aerosense/aerosense-core/internal/climate"
)

// createSensorRequest is the request body for sensor registration.
type createSensorRequest struct {
	ID     string `json:"id,omitempty"`
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
}

// createDeviceRequest is the request body for climate device registration.
type createDeviceRequest struct {
	ID     string `json:"id,omitempty"`
	RoomID string `json:"room_id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	sensors, err := s.repo.ListSensors(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sensors)
}

func (s *Server) handleCreateSensor(w http.ResponseWriter, r *http.Request) {
	var req createSensorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.RoomID == "" || req.Name == "" {
		writeBadRequest(w, "room_id and name are required")
		return
	}

	// The room must exist before a sensor can be attached to it.
	if _, err := s.repo.GetRoom(r.Context(), req.RoomID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	sensor := &climate.Sensor{
		ID:       req.ID,
		RoomID:   req.RoomID,
		Name:     req.Name,
		Type:     req.Type,
		IsActive: true,
	}
	if sensor.ID == "" {
		sensor.ID = uuid.NewString()
	}
	if sensor.Type == "" {
		sensor.Type = "combined"
	}

	if err := s.repo.CreateSensor(r.Context(), sensor); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logger.Info("sensor registered", "sensor_id", sensor.ID, "room_id", sensor.RoomID)
	writeJSON(w, http.StatusCreated, sensor)
}

func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	sensor, err := s.repo.GetSensor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sensor)
}

func (s *Server) handleDeleteSensor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.DeleteSensor(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.logger.Info("sensor removed", "sensor_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req createDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.RoomID == "" || req.Name == "" {
		writeBadRequest(w, "room_id and name are required")
		return
	}
	if !climate.IsValidDeviceType(req.Type) {
		writeBadRequest(w, "unknown device type")
		return
	}
	status := req.Status
	if status == "" {
		status = climate.DeviceStatusOff
	}
	switch status {
	case climate.DeviceStatusOn, climate.DeviceStatusOff, climate.DeviceStatusError:
	default:
		writeBadRequest(w, "unknown device status")
		return
	}

	if _, err := s.repo.GetRoom(r.Context(), req.RoomID); err != nil {
		s.writeDomainError(w, err)
		return
	}

	device := &climate.ClimateDevice{
		ID:     req.ID,
		RoomID: req.RoomID,
		Type:   req.Type,
		Name:   req.Name,
		Status: status,
	}
	if device.ID == "" {
		device.ID = uuid.NewString()
	}

	if err := s.repo.CreateDevice(r.Context(), device); err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.logger.Info("device registered", "device_id", device.ID, "type", device.Type)
	writeJSON(w, http.StatusCreated, device)
}

func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := s.repo.GetDevice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, device)
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.DeleteDevice(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.logger.Info("device removed", "device_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDeviceCommands(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.repo.GetDevice(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	commands, err := s.repo.ListCommandsByDevice(r.Context(), id, parseLimit(r, defaultListLimit))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commands)
}
