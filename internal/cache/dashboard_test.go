package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintflow/inventory-engine/internal/config"
	"github.com/paintflow/inventory-engine/internal/domain"
)

func TestViewKey(t *testing.T) {
	assert.Equal(t, "dashboard:summary:default", viewKey(viewSummary, nil))
	assert.Equal(t, "dashboard:dealer_ranking:default", viewKey(viewDealers, regionParams(0)))

	a := viewKey(viewDealers, map[string]string{"region_id": "2", "tier": "Gold"})
	b := viewKey(viewDealers, map[string]string{"tier": " gold ", "region_id": "2"})
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, dashboardKeyPrefix))
	assert.NotEqual(t, a, viewKey(viewDealers, regionParams(3)))
}

func TestNoopDashboardCache(t *testing.T) {
	c, err := NewDashboardCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.SetSummary(ctx, &domain.DashboardSummary{TotalItems: 3}))
	summary, ok, err := c.GetSummary(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, summary)

	require.NoError(t, c.SetHealth(ctx, []domain.LocationHealth{{LocationID: 1}}))
	_, ok, err = c.GetHealth(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.GetDealerRanking(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.InvalidateAll(ctx))
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2}, lockClientName)
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "paintflow-approval-lock", opts.ClientName)
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
	assert.Equal(t, 3*time.Second, opts.ReadTimeout)

	opts, err = redisOptions(config.CacheConfig{}, dashboardClientName)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, "paintflow-dashboard", opts.ClientName)

	opts, err = redisOptions(config.CacheConfig{
		RedisURL:            "redis://:secret@redis.internal:6379/4",
		RedisPoolSize:       25,
		RedisTimeoutSeconds: 1,
	}, dashboardClientName)
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 4, opts.DB)
	assert.Equal(t, 25, opts.PoolSize)
	assert.Equal(t, time.Second, opts.WriteTimeout)

	_, err = redisOptions(config.CacheConfig{RedisURL: "http://nope"}, dashboardClientName)
	assert.Error(t, err)
}

func TestNewRedisDashboardCacheDefaultsTTL(t *testing.T) {
	c := newRedisDashboardCache(nil, 0)
	assert.Equal(t, time.Minute, c.ttl)

	c = newRedisDashboardCache(nil, 5*time.Minute)
	assert.Equal(t, 5*time.Minute, c.ttl)
}

func TestNoopLocker(t *testing.T) {
	locker, err := NewLocker(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	lock, err := locker.Obtain(context.Background(), "transfer:approve:1")
	require.NoError(t, err)
	assert.NoError(t, lock.Release(context.Background()))
}
