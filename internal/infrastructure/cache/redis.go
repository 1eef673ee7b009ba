package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Karthik2006-In/Honeypot-AI/internal/config"
	"github.com/Karthik2006-In/Honeypot-AI/internal/domain/models"
	"github.com/Karthik2006-In/Honeypot-AI/pkg/logger"
)

// RedisCache wraps the Redis client with typed operations
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *logger.Logger
}

// NewRedis creates a new Redis client
func NewRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	log = log.WithComponent("redis")
	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info().Msg("connected to Redis successfully")

	return &RedisCache{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		logger:    log,
	}, nil
}

// Client returns the underlying Redis client
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	c.logger.Info().Msg("closing Redis connection")
	return c.client.Close()
}

// Ping checks the Redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// key prepends the namespace prefix to a key
func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.key(key)).Result()
}

// GetJSON retrieves and unmarshals a JSON value from cache
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Set stores a value in cache with optional TTL
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

// SetJSON marshals and stores a value in cache
func (c *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.Set(ctx, key, string(data), ttl)
}

// Delete removes a key from cache
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	prefixedKeys := make([]string, len(keys))
	for i, k := range keys {
		prefixedKeys[i] = c.key(k)
	}
	return c.client.Del(ctx, prefixedKeys...).Err()
}

// Incr increments an integer value
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, c.key(key)).Result()
}

// Pipeline returns a Redis pipeline for batch operations
func (c *RedisCache) Pipeline() redis.Pipeliner {
	return c.client.Pipeline()
}

// Cache key constants
const (
	// KeyBenignPrefix caches negative classifications so repeated
	// harmless messages skip the engagement path.
	KeyBenignPrefix = "cache:benign:"

	// Rate limiting keys
	KeyRateLimitPrefix = "rate_limit:"

	// Engagement counters
	KeyStatsEngagements = "stats:engagements"
	KeyStatsDetected    = "stats:detected"
	KeyStatsIndicators  = "stats:indicators"
	KeyStatsPartial     = "stats:partial"
	KeyStatsCategory    = "stats:category:"
)

// benignTTL bounds how long a negative classification is trusted; the
// keyword tables can change on restart.
const benignTTL = 10 * time.Minute

// CacheBenign marks a message hash as not scam-worthy.
func (c *RedisCache) CacheBenign(ctx context.Context, hash string, report *models.EngagementReport) error {
	return c.SetJSON(ctx, KeyBenignPrefix+hash, report, benignTTL)
}

// GetBenign retrieves a cached negative report. Returns redis.Nil when
// the message has not been seen.
func (c *RedisCache) GetBenign(ctx context.Context, hash string) (*models.EngagementReport, error) {
	var report models.EngagementReport
	if err := c.GetJSON(ctx, KeyBenignPrefix+hash, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// RecordEngagement bumps the engagement counters for a finished run.
// Counter failures are logged, not surfaced; stats are best effort.
func (c *RedisCache) RecordEngagement(ctx context.Context, report *models.EngagementReport) {
	pipe := c.Pipeline()
	pipe.Incr(ctx, c.key(KeyStatsEngagements))
	if report.ScamDetected {
		pipe.Incr(ctx, c.key(KeyStatsDetected))
		pipe.Incr(ctx, c.key(KeyStatsCategory+string(report.ScamType)))
	}
	if report.Intelligence != nil && report.Intelligence.Total() > 0 {
		pipe.IncrBy(ctx, c.key(KeyStatsIndicators), int64(report.Intelligence.Total()))
	}
	if report.Partial {
		pipe.Incr(ctx, c.key(KeyStatsPartial))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to record engagement stats")
	}
}

// Stats is the counter snapshot served by the stats endpoint.
type Stats struct {
	Engagements int64            `json:"engagements"`
	Detected    int64            `json:"detected"`
	Indicators  int64            `json:"indicators"`
	Partial     int64            `json:"partial"`
	ByCategory  map[string]int64 `json:"by_category"`
}

// GetStats reads the engagement counters.
func (c *RedisCache) GetStats(ctx context.Context, categories []string) (*Stats, error) {
	pipe := c.Pipeline()
	engagements := pipe.Get(ctx, c.key(KeyStatsEngagements))
	detected := pipe.Get(ctx, c.key(KeyStatsDetected))
	indicators := pipe.Get(ctx, c.key(KeyStatsIndicators))
	partial := pipe.Get(ctx, c.key(KeyStatsPartial))
	perCategory := make([]*redis.StringCmd, len(categories))
	for i, cat := range categories {
		perCategory[i] = pipe.Get(ctx, c.key(KeyStatsCategory+cat))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	stats := &Stats{ByCategory: make(map[string]int64, len(categories))}
	stats.Engagements, _ = engagements.Int64()
	stats.Detected, _ = detected.Int64()
	stats.Indicators, _ = indicators.Int64()
	stats.Partial, _ = partial.Int64()
	for i, cat := range categories {
		if n, err := perCategory[i].Int64(); err == nil {
			stats.ByCategory[cat] = n
		}
	}
	return stats, nil
}

// CheckRateLimit checks and increments the rate limit counter
// Returns (allowed, remaining, resetTime, error)
func (c *RedisCache) CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, time.Time, error) {
	now := time.Now()
	windowKey := fmt.Sprintf("%s%s:%d", KeyRateLimitPrefix, key, now.Unix()/int64(window.Seconds()))

	pipe := c.Pipeline()
	incr := pipe.Incr(ctx, c.key(windowKey))
	pipe.Expire(ctx, c.key(windowKey), window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, 0, time.Time{}, err
	}

	count := incr.Val()
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := now.Add(window)

	return count <= limit, remaining, resetTime, nil
}
