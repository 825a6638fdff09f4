package service

import (
	"context"
	"testing"
	"time"

	"go-bookkeeping-ws/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func sampleDashboard(sales float64) *model.DashboardData {
	return &model.DashboardData{
		Daily: model.DashboardPeriod{Sales: model.MetricData{Amount: sales, Change: model.ChangeData{Type: model.ChangeUp, Percentage: 100}}},
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(5*time.Minute, clock.Now)

	_, ok := cache.Get(ctx)
	assert.False(t, ok, "empty cache")

	data := sampleDashboard(10)
	cache.Set(ctx, data)

	clock.Advance(4*time.Minute + 59*time.Second)
	got, ok := cache.Get(ctx)
	require.True(t, ok)
	assert.Same(t, data, got)

	clock.Advance(time.Second)
	_, ok = cache.Get(ctx)
	assert.False(t, ok, "expired at exactly ttl")
}

func TestMemoryCache_Clear(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(time.Hour, nil)
	cache.Set(ctx, sampleDashboard(1))

	require.NoError(t, cache.Clear(ctx))
	_, ok := cache.Get(ctx)
	assert.False(t, ok)

	// clearing twice is harmless
	require.NoError(t, cache.Clear(ctx))
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisCache(client, 5*time.Minute, nil)

	_, ok := cache.Get(ctx)
	assert.False(t, ok)

	cache.Set(ctx, sampleDashboard(42))
	got, ok := cache.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, 42.0, got.Daily.Sales.Amount)
	assert.Equal(t, model.ChangeUp, got.Daily.Sales.Change.Type)

	mr.FastForward(5 * time.Minute)
	_, ok = cache.Get(ctx)
	assert.False(t, ok, "redis expiry")

	cache.Set(ctx, sampleDashboard(1))
	require.NoError(t, cache.Clear(ctx))
	_, ok = cache.Get(ctx)
	assert.False(t, ok)
}

func TestRedisCache_UnavailableIsMiss(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewRedisCache(client, time.Minute, nil)

	mr.Close()

	cache.Set(ctx, sampleDashboard(1))
	_, ok := cache.Get(ctx)
	assert.False(t, ok)
}
