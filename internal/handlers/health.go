package handlers

import (
	"net/http"
	"time"

	"github.com/nahidhasan98/status-report-assistant/internal/errors"
	"github.com/nahidhasan98/status-report-assistant/internal/models"
)

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.writeAppError(w, errors.InvalidRequest("Method not allowed: "+r.Method))
		return
	}

	response := &models.HealthResponse{
		Status:    "ok",
		Transport: h.transport,
		Tools:     h.toolCount,
		Timestamp: time.Now().Unix(),
	}

	h.writeJSON(w, response, http.StatusOK)
}
