package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/blackicesecure-space/Valtheron/internal/workspace"
)

// LogsHandler serves recent log history pulled from the log files.
type LogsHandler struct {
	logDir string
	logger *slog.Logger
}

// NewLogsHandler creates a logs handler reading from logDir.
func NewLogsHandler(logDir string, logger *slog.Logger) *LogsHandler {
	return &LogsHandler{logDir: logDir, logger: logger}
}

// List handles GET /api/logs?limit=N.
func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := workspace.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := workspace.RecentLogs(h.logDir, limit)
	if err != nil {
		h.logger.Error("recent log scan failed", "dir", h.logDir, "error", err)
		WriteJSON(w, http.StatusOK, []any{})
		return
	}
	WriteJSON(w, http.StatusOK, records)
}
