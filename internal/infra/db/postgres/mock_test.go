//go:build !integration

package postgres

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
	red "edu-activation-core/internal/infra/redis"
)

var _ red.RedisClient = (*mockRedisClient)(nil)

type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc    func(ctx context.Context, keys ...string) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", redis.Nil
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	if m.IncrFunc != nil {
		return m.IncrFunc(ctx, key)
	}
	return 0, nil
}

func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	if m.ExpireFunc != nil {
		return m.ExpireFunc(ctx, key, expiration)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }

var _ repository.AccountRepository = (*mockInnerAccountRepo)(nil)

type mockInnerAccountRepo struct {
	SaveFunc        func(ctx context.Context, tx repository.Tx, a *model.Account) error
	FindByIDFunc    func(ctx context.Context, tx repository.Tx, id string) (*model.Account, error)
	FindByEmailFunc func(ctx context.Context, tx repository.Tx, email string) (*model.Account, error)
}

func (m *mockInnerAccountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, a)
	}
	return nil
}

func (m *mockInnerAccountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockInnerAccountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, tx, email)
	}
	return nil, domain.ErrNotFound
}

func (m *mockInnerAccountRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Account, error) {
	return nil, nil
}

func (m *mockInnerAccountRepo) CountAccounts(ctx context.Context, tx repository.Tx) (int, error) {
	return 0, nil
}

func (m *mockInnerAccountRepo) CountEntitled(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	return 0, nil
}

func (m *mockInnerAccountRepo) CountPending(ctx context.Context, tx repository.Tx) (int, error) {
	return 0, nil
}

func (m *mockInnerAccountRepo) FindExpiring(ctx context.Context, tx repository.Tx, now time.Time, withinDays int) ([]*model.Account, error) {
	return nil, nil
}
