package handlers

import (
	"net/http"

	"github.com/Karthik2006-In/Honeypot-AI/internal/streaming"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// StreamingHandler exposes the WebSocket event stream.
type StreamingHandler struct {
	hub    *streaming.WebSocketHub
	logger *logger.Logger
}

// NewStreamingHandler creates a new StreamingHandler
func NewStreamingHandler(hub *streaming.WebSocketHub, log *logger.Logger) *StreamingHandler {
	return &StreamingHandler{
		hub:    hub,
		logger: log.WithComponent("streaming-handler"),
	}
}

// HandleWebSocket handles GET /api/v1/stream/ws
func (h *StreamingHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "streaming not enabled")
		return
	}
	h.hub.ServeWebSocket(w, r)
}

// GetStats handles GET /api/v1/stream/stats
func (h *StreamingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	clients := 0
	if h.hub != nil {
		clients = h.hub.ClientCount()
	}
	writeJSON(w, http.StatusOK, map[string]int{"connected_clients": clients})
}
