package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/blackicesecure-space/Valtheron/internal/workspace"
)

// StatsHandler serves descriptor counts for the dashboard header.
type StatsHandler struct {
	reader *workspace.Reader
	logger *slog.Logger
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(reader *workspace.Reader, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{reader: reader, logger: logger}
}

// Stats is the payload for GET /api/stats.
type Stats struct {
	Agents    int    `json:"agents"`
	Workflows int    `json:"workflows"`
	Tasks     int    `json:"tasks"`
	Tools     int    `json:"tools"`
	Timestamp string `json:"timestamp"`
}

// Get handles GET /api/stats. A category whose scan fails counts as zero;
// the response itself never fails.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	counts := h.reader.Counts()
	WriteJSON(w, http.StatusOK, Stats{
		Agents:    counts["agents"],
		Workflows: counts["workflows"],
		Tasks:     counts["tasks"],
		Tools:     counts["tools"],
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
