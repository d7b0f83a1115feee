package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints (no auth required)
		r.Post("/auth/login", s.handleLogin)

		// Device ingest path (no auth: sensors authenticate at the
		// network edge, matching the MQTT ingest path)
		r.Post("/ingest/readings", s.handleIngestReading)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			// WS ticket requires authentication
			r.Post("/auth/ws-ticket", s.handleWSTicket)

			// Advanced processing path
			r.Post("/readings/process", s.handleProcessReading)
			r.Post("/readings/{id}/auto-control", s.handleAutoControl)
			r.Get("/readings/{id}", s.handleGetReading)

			// Analytics and reports
			r.Get("/analytics", s.handleAnalytics)
			r.Get("/reports", s.handleReport)

			// Room endpoints
			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", s.handleListRooms)
				r.Post("/", s.handleCreateRoom)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetRoom)
					r.Delete("/", s.handleDeleteRoom)
					r.Put("/threshold", s.handleUpdateThreshold)
					r.Get("/sensors", s.handleListRoomSensors)
					r.Get("/devices", s.handleListRoomDevices)
				})
			})

			// Sensor endpoints
			r.Route("/sensors", func(r chi.Router) {
				r.Get("/", s.handleListSensors)
				r.Post("/", s.handleCreateSensor)
				r.Get("/{id}", s.handleGetSensor)
				r.Delete("/{id}", s.handleDeleteSensor)
			})

			// Climate device endpoints
			r.Route("/devices", func(r chi.Router) {
				r.Post("/", s.handleCreateDevice)
				r.Get("/{id}", s.handleGetDevice)
				r.Delete("/{id}", s.handleDeleteDevice)
				r.Get("/{id}/commands", s.handleListDeviceCommands)
			})

			// Alert endpoints
			r.Get("/alerts", s.handleListAlerts)
			r.Post("/alerts/{id}/resolve", s.handleResolveAlert)

			// WebSocket (auth via ticket, validated in handler)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
