package handlers

import (
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
)

// Handler holds dependencies for the plain HTTP endpoints served next to MCP
type Handler struct {
	transport string
	toolCount int
	log       *logger.Logger
}

// New creates a new handler instance
func New(transport string, toolCount int, log *logger.Logger) *Handler {
	return &Handler{
		transport: transport,
		toolCount: toolCount,
		log:       log,
	}
}
