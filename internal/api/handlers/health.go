package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// SubscriberCounter reports how many live stream subscribers are connected.
type SubscriberCounter interface {
	SubscriberCount() int
}

// HealthHandler reports process liveness and uptime.
type HealthHandler struct {
	startTime time.Time
	hub       SubscriberCounter
	logger    *slog.Logger
}

// NewHealthHandler creates a health handler anchored at the current time.
func NewHealthHandler(hub SubscriberCounter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		hub:       hub,
		logger:    logger,
	}
}

// HealthResponse is the payload for GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	// Uptime is whole seconds since process start.
	Uptime      int64 `json:"uptime"`
	Subscribers int   `json:"subscribers"`
}

// Get handles GET /api/health.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Timestamp:   time.Now().Format(time.RFC3339),
		Uptime:      int64(time.Since(h.startTime).Seconds()),
		Subscribers: h.hub.SubscriberCount(),
	})
}
