package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"

	"github.com/paintflow/inventory-engine/internal/config"
	"github.com/paintflow/inventory-engine/internal/domain"
)

const lockKeyPrefix = "lock:"

// Lock is a held lock.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker hands out short-lived exclusive locks by key. Obtain fails with
// domain.ErrConflict when the key is already held.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

type redisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

type noopLocker struct{}

type noopLock struct{}

// NewLocker returns a Redis-backed locker, or a noop locker when caching is
// disabled.
func NewLocker(cfg config.CacheConfig) (Locker, error) {
	if !cfg.Enabled {
		return NewNoopLocker(), nil
	}

	client, err := openRedis(cfg, lockClientName)
	if err != nil {
		return nil, err
	}

	return &redisLocker{client: redislock.New(client), ttl: cfg.ApprovalLockTTL()}, nil
}

func NewNoopLocker() Locker {
	return noopLocker{}
}

func (l *redisLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	lock, err := l.client.Obtain(ctx, lockKeyPrefix+key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s is locked", domain.ErrConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}
	return lock, nil
}

func (noopLocker) Obtain(context.Context, string) (Lock, error) {
	return noopLock{}, nil
}

func (noopLock) Release(context.Context) error {
	return nil
}
