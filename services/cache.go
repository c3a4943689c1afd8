package services

import (
	"context"
	"encoding/json"
	"errors"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/utils/logger"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const calendarVersionKey = "calendar:version"

// redisClient is the subset of *redis.Client used by the window cache
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Close() error
}

// RedisCalendarCache caches appointment windows in Redis. Keys embed a
// version counter; Invalidate bumps it so every cached window goes stale at
// once and expires through its TTL.
type RedisCalendarCache struct {
	client redisClient
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisCalendarCache connects to Redis and verifies the connection
func NewRedisCalendarCache(ctx context.Context, cfg *models.Config, log logger.Logger) (*RedisCalendarCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Infof("✅ Redis calendar cache connected at %s", cfg.RedisAddr)
	return newRedisCalendarCache(client, cfg.CalendarCacheTTL, log), nil
}

func newRedisCalendarCache(client redisClient, ttl time.Duration, log logger.Logger) *RedisCalendarCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCalendarCache{client: client, ttl: ttl, logger: log}
}

// Version returns the current invalidation counter
func (c *RedisCalendarCache) Version(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, calendarVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func windowKey(version, start, end int64) string {
	return fmt.Sprintf("calendar:v%d:appointments:%d:%d", version, start, end)
}

// GetAppointments returns the window cached under version and whether it was present
func (c *RedisCalendarCache) GetAppointments(ctx context.Context, version, start, end int64) ([]models.Appointment, bool, error) {
	raw, err := c.client.Get(ctx, windowKey(version, start, end)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached window: %w", err)
	}

	var appointments []models.Appointment
	if err := json.Unmarshal(raw, &appointments); err != nil {
		c.logger.Warnf("Discarding corrupt cache entry for %d-%d: %v", start, end, err)
		return nil, false, nil
	}
	return appointments, true, nil
}

// SetAppointments stores a window under version. A version bumped since
// the caller read it leaves the entry unreachable until it expires.
func (c *RedisCalendarCache) SetAppointments(ctx context.Context, version, start, end int64, appointments []models.Appointment) error {
	raw, err := json.Marshal(appointments)
	if err != nil {
		return fmt.Errorf("failed to encode window: %w", err)
	}

	return c.client.Set(ctx, windowKey(version, start, end), raw, c.ttl).Err()
}

// Invalidate makes every cached window stale
func (c *RedisCalendarCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, calendarVersionKey).Err()
}

func (c *RedisCalendarCache) Close() error {
	return c.client.Close()
}

// noopCalendarCache is used when no Redis address is configured
type noopCalendarCache struct{}

func NewNoopCalendarCache() CalendarCache {
	return noopCalendarCache{}
}

func (noopCalendarCache) Version(context.Context) (int64, error) { return 0, nil }

func (noopCalendarCache) GetAppointments(context.Context, int64, int64, int64) ([]models.Appointment, bool, error) {
	return nil, false, nil
}

func (noopCalendarCache) SetAppointments(context.Context, int64, int64, int64, []models.Appointment) error {
	return nil
}

func (noopCalendarCache) Invalidate(context.Context) error { return nil }

func (noopCalendarCache) Close() error { return nil }
