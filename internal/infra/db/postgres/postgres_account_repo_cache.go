package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
	"edu-activation-core/internal/infra/metrics"
	red "edu-activation-core/internal/infra/redis"
)

var _ repository.AccountRepository = (*accountRepoCacheDecorator)(nil)

// accountRepoCacheDecorator serves FindByID/FindByEmail from Redis. Every
// read of an account happens on dashboard load, so this is the hot path.
type accountRepoCacheDecorator struct {
	inner repository.AccountRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewAccountRepoCacheDecorator(inner repository.AccountRepository, cache red.RedisClient, ttl time.Duration) repository.AccountRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &accountRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

// Save invalidates all keys for the account before writing through.
func (d *accountRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	_ = d.cache.Del(ctx, accountIDKey(a.ID), accountEmailKey(a.Email))
	return d.inner.Save(ctx, tx, a)
}

func (d *accountRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	return d.cached(ctx, accountIDKey(id), func() (*model.Account, error) {
		return d.inner.FindByID(ctx, tx, id)
	})
}

func (d *accountRepoCacheDecorator) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	return d.cached(ctx, accountEmailKey(email), func() (*model.Account, error) {
		return d.inner.FindByEmail(ctx, tx, email)
	})
}

func (d *accountRepoCacheDecorator) cached(ctx context.Context, key string, load func() (*model.Account, error)) (*model.Account, error) {
	// A Redis outage behaves like a miss and falls through to the store.
	if val, err := d.cache.Get(ctx, key); err == nil {
		var a model.Account
		if json.Unmarshal([]byte(val), &a) == nil {
			metrics.IncCacheRequest("account", "hit")
			return &a, nil
		}
	}

	metrics.IncCacheRequest("account", "miss")
	a, err := load()
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(a); err == nil {
		_ = d.cache.Set(ctx, key, string(bytes), d.ttl)
	}
	return a, nil
}

// List and the counters always hit the store; admin views need fresh data.
func (d *accountRepoCacheDecorator) List(ctx context.Context, tx repository.Tx) ([]*model.Account, error) {
	return d.inner.List(ctx, tx)
}

func (d *accountRepoCacheDecorator) CountAccounts(ctx context.Context, tx repository.Tx) (int, error) {
	return d.inner.CountAccounts(ctx, tx)
}

func (d *accountRepoCacheDecorator) CountEntitled(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	return d.inner.CountEntitled(ctx, tx, now)
}

func (d *accountRepoCacheDecorator) CountPending(ctx context.Context, tx repository.Tx) (int, error) {
	return d.inner.CountPending(ctx, tx)
}

func (d *accountRepoCacheDecorator) FindExpiring(ctx context.Context, tx repository.Tx, now time.Time, withinDays int) ([]*model.Account, error) {
	return d.inner.FindExpiring(ctx, tx, now, withinDays)
}

func accountIDKey(id string) string       { return fmt.Sprintf("account:id:%s", id) }
func accountEmailKey(email string) string { return fmt.Sprintf("account:email:%s", email) }
