package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go-bookkeeping-ws/internal/model"

	"github.com/redis/go-redis/v9"
)

const dashboardCacheKey = "bookkeeping:dashboard:v1"

// DashboardCache holds at most one dashboard snapshot.
type DashboardCache interface {
	Get(ctx context.Context) (*model.DashboardData, bool)
	Set(ctx context.Context, data *model.DashboardData)
	Clear(ctx context.Context) error
}

// MemoryCache is a mutex guarded single slot with a TTL.
type MemoryCache struct {
	mu       sync.Mutex
	data     *model.DashboardData
	cachedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{ttl: ttl, now: now}
}

func (c *MemoryCache) Get(_ context.Context) (*model.DashboardData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil || c.now().Sub(c.cachedAt) >= c.ttl {
		return nil, false
	}
	return c.data, true
}

func (c *MemoryCache) Set(_ context.Context, data *model.DashboardData) {
	c.mu.Lock()
	c.data = data
	c.cachedAt = c.now()
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.data = nil
	c.cachedAt = time.Time{}
	c.mu.Unlock()
	return nil
}

// RedisCache shares the snapshot between API instances; expiry is left to redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisCache {
	if log == nil {
		log = slog.Default()
	}
	return &RedisCache{client: client, ttl: ttl, log: log}
}

// Get treats redis errors as a miss so the dashboard still renders from the database.
func (c *RedisCache) Get(ctx context.Context) (*model.DashboardData, bool) {
	payload, err := c.client.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("dashboard cache read failed", "error", err)
		}
		return nil, false
	}
	var data model.DashboardData
	if err := json.Unmarshal(payload, &data); err != nil {
		c.log.Warn("dashboard cache payload invalid", "error", err)
		return nil, false
	}
	return &data, true
}

func (c *RedisCache) Set(ctx context.Context, data *model.DashboardData) {
	payload, err := json.Marshal(data)
	if err != nil {
		c.log.Warn("dashboard cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, dashboardCacheKey, payload, c.ttl).Err(); err != nil {
		c.log.Warn("dashboard cache write failed", "error", err)
	}
}

func (c *RedisCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, dashboardCacheKey).Err()
}
