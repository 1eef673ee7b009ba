package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/honeypot"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/cache"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/database/repository"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// HoneypotHandler handles engagement endpoints
type HoneypotHandler struct {
	config   *config.Config
	engine   *honeypot.Engine
	cache    *cache.RedisCache
	intel    *repository.IntelRepository
	recorder *StatsRecorder
	logger   *logger.Logger
}

// NewHoneypotHandler creates a new HoneypotHandler
func NewHoneypotHandler(
	cfg *config.Config,
	engine *honeypot.Engine,
	c *cache.RedisCache,
	intel *repository.IntelRepository,
	recorder *StatsRecorder,
	log *logger.Logger,
) *HoneypotHandler {
	return &HoneypotHandler{
		config:   cfg,
		engine:   engine,
		cache:    c,
		intel:    intel,
		recorder: recorder,
		logger:   log.WithComponent("honeypot-handler"),
	}
}

// EngageRequest is the request body for an engagement
type EngageRequest struct {
	Message string `json:"message"`
}

// Engage handles POST /api/v1/honeypot/engage
func (h *HoneypotHandler) Engage(w http.ResponseWriter, r *http.Request) {
	var req EngageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	// Benign cache: a message already classified as harmless skips the
	// whole pipeline until the entry expires.
	hash := messageHash(req.Message)
	if h.cache != nil {
		if cached, err := h.cache.GetBenign(r.Context(), hash); err == nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	report, err := h.engine.Engage(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, honeypot.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "message must not be empty")
			return
		}
		h.logger.Error().Err(err).Msg("engagement failed")
		writeError(w, http.StatusInternalServerError, "engagement failed")
		return
	}

	h.recorder.Record(r.Context(), report)

	if h.cache != nil && !report.ScamDetected {
		if err := h.cache.CacheBenign(r.Context(), hash, report); err != nil {
			h.logger.Warn().Err(err).Msg("failed to cache benign result")
		}
	}

	if h.intel != nil && report.ScamDetected {
		if err := h.intel.Archive(r.Context(), report); err != nil {
			h.logger.Warn().Err(err).Msg("failed to archive indicators")
		}
	}

	writeJSON(w, http.StatusOK, report)
}

// PatternsResponse describes the active detection tables.
type PatternsResponse struct {
	Categories []config.CategoryKeywords `json:"categories"`
	Urgency    []string                  `json:"urgency_keywords"`
	Credential []string                  `json:"credential_keywords"`
	Personas   []string                  `json:"personas"`
}

// Patterns handles GET /api/v1/honeypot/patterns
func (h *HoneypotHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	personas := make([]string, 0, len(h.config.Honeypot.Personas.Definitions))
	for id := range h.config.Honeypot.Personas.Definitions {
		personas = append(personas, id)
	}

	writeJSON(w, http.StatusOK, PatternsResponse{
		Categories: h.config.Honeypot.Keywords.Categories,
		Urgency:    h.config.Honeypot.Keywords.Urgency,
		Credential: h.config.Honeypot.Keywords.Credential,
		Personas:   personas,
	})
}

func messageHash(message string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(message))))
	return hex.EncodeToString(sum[:])
}
