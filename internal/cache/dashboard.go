package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/paintflow/inventory-engine/internal/config"
	"github.com/paintflow/inventory-engine/internal/domain"
)

const (
	dashboardKeyPrefix = "dashboard:"
	scanBatchSize      = 100

	viewSummary = "summary"
	viewHealth  = "inventory_health"
	viewDealers = "dealer_ranking"
)

// DashboardCache stores the admin dashboard views. Every write path that
// changes stock calls InvalidateAll.
type DashboardCache interface {
	GetSummary(ctx context.Context) (*domain.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, summary *domain.DashboardSummary) error
	GetHealth(ctx context.Context) ([]domain.LocationHealth, bool, error)
	SetHealth(ctx context.Context, locations []domain.LocationHealth) error
	GetDealerRanking(ctx context.Context, regionID int64) ([]domain.DealerPerformance, bool, error)
	SetDealerRanking(ctx context.Context, regionID int64, ranking []domain.DealerPerformance) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, err := openRedis(cfg, dashboardClientName)
	if err != nil {
		return nil, err
	}

	return newRedisDashboardCache(client, cfg.DashboardTTL()), nil
}

func newRedisDashboardCache(client *redis.Client, ttl time.Duration) *redisDashboardCache {
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &redisDashboardCache{client: client, ttl: ttl}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetSummary(ctx context.Context) (*domain.DashboardSummary, bool, error) {
	var summary domain.DashboardSummary
	ok, err := c.get(ctx, viewKey(viewSummary, nil), &summary)
	if !ok || err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, summary *domain.DashboardSummary) error {
	return c.set(ctx, viewKey(viewSummary, nil), summary)
}

func (c *redisDashboardCache) GetHealth(ctx context.Context) ([]domain.LocationHealth, bool, error) {
	var locations []domain.LocationHealth
	ok, err := c.get(ctx, viewKey(viewHealth, nil), &locations)
	if !ok || err != nil {
		return nil, false, err
	}
	return locations, true, nil
}

func (c *redisDashboardCache) SetHealth(ctx context.Context, locations []domain.LocationHealth) error {
	return c.set(ctx, viewKey(viewHealth, nil), locations)
}

func (c *redisDashboardCache) GetDealerRanking(ctx context.Context, regionID int64) ([]domain.DealerPerformance, bool, error) {
	var ranking []domain.DealerPerformance
	ok, err := c.get(ctx, viewKey(viewDealers, regionParams(regionID)), &ranking)
	if !ok || err != nil {
		return nil, false, err
	}
	return ranking, true, nil
}

func (c *redisDashboardCache) SetDealerRanking(ctx context.Context, regionID int64, ranking []domain.DealerPerformance) error {
	return c.set(ctx, viewKey(viewDealers, regionParams(regionID)), ranking)
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	removed, err := unlinkMatching(ctx, c.client, dashboardKeyPrefix+"*", scanBatchSize)
	if err != nil {
		return err
	}
	log.Debug().Int("keys", removed).Msg("dashboard cache invalidated")
	return nil
}

func (c *redisDashboardCache) get(ctx context.Context, key string, dest any) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode dashboard cache %s: %w", key, err)
	}
	return true, nil
}

func (c *redisDashboardCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode dashboard cache %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopDashboardCache) GetSummary(ctx context.Context) (*domain.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetSummary(ctx context.Context, summary *domain.DashboardSummary) error {
	return nil
}

func (n *noopDashboardCache) GetHealth(ctx context.Context) ([]domain.LocationHealth, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetHealth(ctx context.Context, locations []domain.LocationHealth) error {
	return nil
}

func (n *noopDashboardCache) GetDealerRanking(ctx context.Context, regionID int64) ([]domain.DealerPerformance, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetDealerRanking(ctx context.Context, regionID int64, ranking []domain.DealerPerformance) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func regionParams(regionID int64) map[string]string {
	if regionID == 0 {
		return nil
	}
	return map[string]string{"region_id": fmt.Sprintf("%d", regionID)}
}

// viewKey builds "dashboard:<view>:<hash>" where hash covers the sorted
// params, or "default" when there are none.
func viewKey(view string, params map[string]string) string {
	return fmt.Sprintf("%s%s:%s", dashboardKeyPrefix, view, paramsHash(params))
}

func paramsHash(params map[string]string) string {
	parts := make([]string, 0, len(params))
	for k, v := range params {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		parts = append(parts, strings.ToLower(k)+"="+strings.ToLower(v))
	}

	if len(parts) == 0 {
		return "default"
	}

	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
