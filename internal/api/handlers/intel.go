package handlers

import (
	"net/http"
	"strconv"

	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/database/repository"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// IntelHandler serves the archived indicator feed.
type IntelHandler struct {
	intel  *repository.IntelRepository
	logger *logger.Logger
}

// NewIntelHandler creates a new IntelHandler
func NewIntelHandler(intel *repository.IntelRepository, log *logger.Logger) *IntelHandler {
	return &IntelHandler{
		intel:  intel,
		logger: log.WithComponent("intel-handler"),
	}
}

// Recent handles GET /api/v1/intel/recent
func (h *IntelHandler) Recent(w http.ResponseWriter, r *http.Request) {
	// Without an archive the feed is just empty, not an error.
	if h.intel == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"indicators": []models.ArchivedIndicator{},
			"count":      0,
		})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 500")
			return
		}
		limit = n
	}

	indicators, err := h.intel.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list recent indicators")
		writeError(w, http.StatusInternalServerError, "failed to list indicators")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"indicators": indicators,
		"count":      len(indicators),
	})
}
