package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/cache"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// StatsRecorder accumulates engagement counters. With Redis configured
// the counters survive restarts; otherwise an in-process snapshot is kept.
type StatsRecorder struct {
	cache *cache.RedisCache

	mu    sync.Mutex
	local cache.Stats
}

// NewStatsRecorder creates a recorder over an optional Redis cache.
func NewStatsRecorder(c *cache.RedisCache) *StatsRecorder {
	return &StatsRecorder{
		cache: c,
		local: cache.Stats{ByCategory: make(map[string]int64)},
	}
}

// Record bumps the counters for a finished engagement.
func (s *StatsRecorder) Record(ctx context.Context, report *models.EngagementReport) {
	s.mu.Lock()
	s.local.Engagements++
	if report.ScamDetected {
		s.local.Detected++
		s.local.ByCategory[string(report.ScamType)]++
	}
	if report.Intelligence != nil {
		s.local.Indicators += int64(report.Intelligence.Total())
	}
	if report.Partial {
		s.local.Partial++
	}
	s.mu.Unlock()

	if s.cache != nil {
		s.cache.RecordEngagement(ctx, report)
	}
}

// Snapshot returns the current counters, preferring Redis when available.
func (s *StatsRecorder) Snapshot(ctx context.Context, categories []string) *cache.Stats {
	if s.cache != nil {
		if stats, err := s.cache.GetStats(ctx, categories); err == nil {
			return stats
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := cache.Stats{
		Engagements: s.local.Engagements,
		Detected:    s.local.Detected,
		Indicators:  s.local.Indicators,
		Partial:     s.local.Partial,
		ByCategory:  make(map[string]int64, len(s.local.ByCategory)),
	}
	for k, v := range s.local.ByCategory {
		snapshot.ByCategory[k] = v
	}
	return &snapshot
}

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	config   *config.Config
	recorder *StatsRecorder
	logger   *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(cfg *config.Config, recorder *StatsRecorder, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		config:   cfg,
		recorder: recorder,
		logger:   log.WithComponent("stats"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	categories := make([]string, 0, len(h.config.Honeypot.Keywords.Categories))
	for _, cat := range h.config.Honeypot.Keywords.Categories {
		categories = append(categories, cat.Name)
	}

	stats := h.recorder.Snapshot(r.Context(), categories)
	writeJSON(w, http.StatusOK, stats)
}
