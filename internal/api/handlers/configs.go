package handlers

import (
	"log/slog"
	"net/http"

	"github.com/blackicesecure-space/Valtheron/internal/workspace"
)

// ConfigsHandler serves descriptor listings and the workspace configuration.
type ConfigsHandler struct {
	reader *workspace.Reader
	logger *slog.Logger
}

// NewConfigsHandler creates a configs handler.
func NewConfigsHandler(reader *workspace.Reader, logger *slog.Logger) *ConfigsHandler {
	return &ConfigsHandler{reader: reader, logger: logger}
}

// ListCategory returns a handler for GET /api/<category>. The response is
// always a JSON array; a failed scan degrades to an empty one.
func (h *ConfigsHandler) ListCategory(category string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		descriptors, err := h.reader.List(category)
		if err != nil {
			h.logger.Error("descriptor scan failed", "category", category, "error", err)
			WriteJSON(w, http.StatusOK, []any{})
			return
		}
		WriteJSON(w, http.StatusOK, descriptors)
	}
}

// WorkspaceConfig handles GET /api/workspace/config. A missing or malformed
// configuration file degrades to an error payload, not a failed response.
func (h *ConfigsHandler) WorkspaceConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.reader.WorkspaceConfig()
	if err != nil {
		h.logger.Warn("workspace config unavailable", "error", err)
		WriteJSON(w, http.StatusOK, map[string]string{"error": "workspace configuration not available"})
		return
	}
	WriteJSON(w, http.StatusOK, cfg)
}
