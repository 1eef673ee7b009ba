package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/Karthik2006-In/Honeypot-AI/internal/api"
	"github.com/Karthik2006-In/Honeypot-AI/internal/api/handlers"
	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	grpchealth "github.com/Karthik2006-In/Honeypot-AI/internal/grpc/health"
	"github.com/Karthik2006-In/Honeypot-AI/internal/honeypot"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/cache"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/database"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/database/repository"
	"github.com/Karthik2006-In/Honeypot-AI/internal/llm"
	"github.com/Karthik2006-In/Honeypot-AI/internal/streaming"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Honeypot AI")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional infrastructure: the service runs fully in-memory when
	// Redis, Postgres and NATS are disabled.
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	var db *database.PostgresDB
	var intelRepo *repository.IntelRepository
	if cfg.Database.Enabled {
		db, err = database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without intel archive")
		} else {
			intelRepo = repository.NewIntelRepository(db, log)
			if err := intelRepo.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to ensure intel schema, continuing without intel archive")
				intelRepo = nil
			}
		}
	}
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	var natsPublisher *streaming.NATSPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err = streaming.NewNATSPublisher(cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, continuing without event streaming")
		}
	}

	eventBus := streaming.NewEventBus(natsPublisher, log)
	defer eventBus.Close()

	wsHub := streaming.NewWebSocketHub(log)
	go wsHub.Run(ctx)

	// Honeypot pipeline
	classifier := honeypot.NewClassifier(cfg.Honeypot.Keywords.Categories)
	extractor := honeypot.NewExtractor()
	scorer := honeypot.NewScorer(cfg.Honeypot.Scoring, cfg.Honeypot.Keywords)

	personas, err := honeypot.NewPersonaRegistry(cfg.Honeypot.Personas)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build persona registry")
	}

	agent, err := buildResponder(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build agent responder")
	}

	scammer, err := honeypot.NewScriptedScammer(cfg.Honeypot.ScammerScript)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build scripted counterpart")
	}

	engine, err := honeypot.NewEngine(
		classifier, extractor, scorer, personas,
		agent, scammer,
		cfg.Honeypot.Engagement,
		streaming.NewSinkAdapter(eventBus, wsHub),
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engagement engine")
	}

	h := handlers.NewHandlers(handlers.Dependencies{
		Config:     cfg,
		Engine:     engine,
		Classifier: classifier,
		Personas:   personas,
		Cache:      redisCache,
		DB:         db,
		Intel:      intelRepo,
		Hub:        wsHub,
		Logger:     log,
	})

	router := api.NewRouter(cfg, h, redisCache, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create gRPC listener")
	}

	grpcServer := grpc.NewServer()
	grpchealth.Register(ctx, grpcServer, db, redisCache)

	go func() {
		log.Info().Str("addr", grpcListener.Addr().String()).Msg("starting gRPC server")
		if err := grpcServer.Serve(grpcListener); err != nil {
			log.Fatal().Err(err).Msg("gRPC server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// buildResponder picks the agent reply strategy. The scripted responder
// needs no credentials; the LLM responder requires a provider API key.
func buildResponder(cfg *config.Config, log *logger.Logger) (honeypot.AgentResponder, error) {
	switch cfg.Honeypot.Engagement.Responder {
	case config.ResponderLLM:
		client, err := llm.NewClient(cfg.LLM, log)
		if err != nil {
			return nil, err
		}
		log.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("using LLM responder")
		return llm.NewResponder(client), nil
	default:
		log.Info().Msg("using scripted responder")
		return honeypot.NewScriptedResponder(), nil
	}
}
