package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paintflow/inventory-engine/internal/config"
)

// Client names show up in CLIENT LIST so operators can tell the dashboard
// connections from the approval lock connections.
const (
	dashboardClientName = "paintflow-dashboard"
	lockClientName      = "paintflow-approval-lock"

	defaultDashboardTTL = time.Minute
)

// openRedis connects a named client and checks it answers within the
// configured timeout.
func openRedis(cfg config.CacheConfig, name string) (*redis.Client, error) {
	opts, err := redisOptions(cfg, name)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RedisTimeout())
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s ping failed: %w", name, err)
	}
	return client, nil
}

// redisOptions prefers REDIS_URL and falls back to host and port. Pool size
// and timeouts from the config override whatever the URL carries.
func redisOptions(cfg config.CacheConfig, name string) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		host, port := cfg.RedisHost, cfg.RedisPort
		if host == "" {
			host = "127.0.0.1"
		}
		if port == "" {
			port = "6379"
		}
		opts = &redis.Options{
			Addr:     net.JoinHostPort(host, port),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	opts.ClientName = name
	if cfg.RedisPoolSize > 0 {
		opts.PoolSize = cfg.RedisPoolSize
	}
	timeout := cfg.RedisTimeout()
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return opts, nil
}

// unlinkMatching removes every key matching pattern, one SCAN page at a time.
func unlinkMatching(ctx context.Context, client *redis.Client, pattern string, pageSize int64) (int, error) {
	removed := 0
	iter := client.Scan(ctx, 0, pattern, pageSize).Iterator()
	page := make([]string, 0, pageSize)

	flush := func() error {
		if len(page) == 0 {
			return nil
		}
		n, err := client.Unlink(ctx, page...).Result()
		if err != nil {
			return fmt.Errorf("redis unlink failed: %w", err)
		}
		removed += int(n)
		page = page[:0]
		return nil
	}

	for iter.Next(ctx) {
		page = append(page, iter.Val())
		if int64(len(page)) >= pageSize {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan failed: %w", err)
	}
	if err := flush(); err != nil {
		return removed, err
	}
	return removed, nil
}
