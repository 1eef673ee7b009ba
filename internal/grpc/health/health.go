package health

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/cache"
	"github.com/Karthik2006-In/Honeypot-AI/internal/infrastructure/database"
)

const serviceName = "honeypot.v1.HoneypotService"

// Register registers the gRPC health check service and starts a
// background probe of the optional backing stores. A nil db or cache is
// treated as healthy; those subsystems are simply not enabled.
func Register(ctx context.Context, grpcServer *grpc.Server, db *database.PostgresDB, redis *cache.RedisCache) {
	healthServer := health.NewServer()

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				healthServer.Shutdown()
				return
			case <-ticker.C:
			}

			status := grpc_health_v1.HealthCheckResponse_SERVING
			if db != nil {
				if err := db.Ping(ctx); err != nil {
					status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
				}
			}
			if redis != nil {
				if err := redis.Ping(ctx); err != nil {
					status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
				}
			}

			healthServer.SetServingStatus("", status)
			healthServer.SetServingStatus(serviceName, status)
		}
	}()

	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
}
