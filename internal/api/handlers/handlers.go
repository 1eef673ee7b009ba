package handlers

import (
	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/honeypot"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/cache"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/database"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/database/repository"
	"github.com/Karthik2006-In/Honeypot-AI/internal/streaming"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Honeypot  *HoneypotHandler
	Stats     *StatsHandler
	Intel     *IntelHandler
	Streaming *StreamingHandler
}

// Dependencies holds dependencies for handlers. Cache, DB, Intel and Hub
// are optional and may be nil when the corresponding subsystem is disabled.
type Dependencies struct {
	Config     *config.Config
	Engine     *honeypot.Engine
	Classifier *honeypot.Classifier
	Personas   *honeypot.PersonaRegistry
	Cache      *cache.RedisCache
	DB         *database.PostgresDB
	Intel      *repository.IntelRepository
	Hub        *streaming.WebSocketHub
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	recorder := NewStatsRecorder(deps.Cache)
	return &Handlers{
		Health:    NewHealthHandler(deps.Config, deps.Cache, deps.DB, deps.Logger),
		Honeypot:  NewHoneypotHandler(deps.Config, deps.Engine, deps.Cache, deps.Intel, recorder, deps.Logger),
		Stats:     NewStatsHandler(deps.Config, recorder, deps.Logger),
		Intel:     NewIntelHandler(deps.Intel, deps.Logger),
		Streaming: NewStreamingHandler(deps.Hub, deps.Logger),
	}
}
