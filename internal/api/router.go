package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Karthik2006-In/Honeypot-AI/internal/api/handlers"
	apimiddleware "github.com/Karthik2006-In/Honeypot-AI/internal/api/middleware"
	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/cache"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   *config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg *config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	// The engagement loop can spend several LLM round trips per request,
	// so the request timeout matches the server write timeout.
	router.Use(middleware.Timeout(r.config.Server.WriteTimeout))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/", r.handlers.Health.Root)
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)
	})

	// API v1 routes (authenticated)
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.APIKeyAuth(r.config.Auth.APIKey))

		api.Route("/honeypot", func(hp chi.Router) {
			hp.Post("/engage", r.handlers.Honeypot.Engage)
			hp.Get("/patterns", r.handlers.Honeypot.Patterns)
		})

		api.Get("/stats", r.handlers.Stats.Get)
		api.Get("/intel/recent", r.handlers.Intel.Recent)

		api.Get("/stream/ws", r.handlers.Streaming.HandleWebSocket)
		api.Get("/stream/stats", r.handlers.Streaming.GetStats)
	})

	// Legacy alias kept for existing clients.
	router.Group(func(legacy chi.Router) {
		legacy.Use(apimiddleware.APIKeyAuth(r.config.Auth.APIKey))
		legacy.Post("/agentic-honeypot", r.handlers.Honeypot.Engage)
	})

	return router
}
