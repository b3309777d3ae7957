//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// -----------------------------
// MockTxManager
// -----------------------------

// MockTxManager runs the callback without a real transaction; the mem repos
// below are already safe for concurrent use.
type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// -----------------------------
// MockActivationCodeRepo
// -----------------------------

type MockActivationCodeRepo struct {
	mu    sync.Mutex
	store map[string]*model.ActivationCode

	SaveFunc      func(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error
	SaveBatchFunc func(ctx context.Context, tx repository.Tx, codes []*model.ActivationCode) error
	ExistsFunc    func(ctx context.Context, tx repository.Tx, code string) (bool, error)
	ConsumeFunc   func(ctx context.Context, tx repository.Tx, code, accountID string, at time.Time) (bool, error)
}

func NewMockActivationCodeRepo() *MockActivationCodeRepo {
	return &MockActivationCodeRepo{store: make(map[string]*model.ActivationCode)}
}

func (m *MockActivationCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[code.Code]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *code
	m.store[code.Code] = &cp
	return nil
}

func (m *MockActivationCodeRepo) SaveBatch(ctx context.Context, tx repository.Tx, codes []*model.ActivationCode) error {
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, tx, codes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range codes {
		if _, ok := m.store[c.Code]; ok {
			return domain.ErrAlreadyExists
		}
	}
	for _, c := range codes {
		cp := *c
		m.store[c.Code] = &cp
	}
	return nil
}

func (m *MockActivationCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockActivationCodeRepo) Exists(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, tx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.store[code]
	return ok, nil
}

// Consume mirrors the conditional UPDATE of the Postgres repo: the check and
// the flip happen under one lock, so exactly one caller wins.
func (m *MockActivationCodeRepo) Consume(ctx context.Context, tx repository.Tx, code, accountID string, at time.Time) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, tx, code, accountID, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok || c.IsUsed {
		return false, nil
	}
	c.IsUsed = true
	c.UsedBy = &accountID
	usedAt := at
	c.UsedAt = &usedAt
	return true, nil
}

func (m *MockActivationCodeRepo) CountIssued(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

func (m *MockActivationCodeRepo) CountUsed(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.store {
		if c.IsUsed {
			n++
		}
	}
	return n, nil
}

// -----------------------------
// MockAccountRepo
// -----------------------------

type MockAccountRepo struct {
	mu    sync.Mutex
	store map[string]*model.Account

	SaveFunc     func(ctx context.Context, tx repository.Tx, a *model.Account) error
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Account, error)
}

func NewMockAccountRepo() *MockAccountRepo {
	return &MockAccountRepo{store: make(map[string]*model.Account)}
}

func (m *MockAccountRepo) put(a *model.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.store[a.ID] = &cp
}

func (m *MockAccountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, a)
	}
	m.put(a)
	return nil
}

func (m *MockAccountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockAccountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.store {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockAccountRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Account, 0, len(m.store))
	for _, a := range m.store {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockAccountRepo) CountAccounts(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store), nil
}

func (m *MockAccountRepo) CountEntitled(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.store {
		if a.Entitled(now) {
			n++
		}
	}
	return n, nil
}

func (m *MockAccountRepo) CountPending(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, a := range m.store {
		if !a.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *MockAccountRepo) FindExpiring(ctx context.Context, tx repository.Tx, now time.Time, withinDays int) ([]*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cut := now.Add(time.Duration(withinDays) * 24 * time.Hour)
	var out []*model.Account
	for _, a := range m.store {
		if a.Entitled(now) && a.SubscriptionEnd.Before(cut) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// -----------------------------
// MockSectionRepo
// -----------------------------

type MockSectionRepo struct {
	mu       sync.Mutex
	sections []*model.Section
}

func NewMockSectionRepo(sections ...*model.Section) *MockSectionRepo {
	return &MockSectionRepo{sections: sections}
}

func (m *MockSectionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sections = append(m.sections, &cp)
	return nil
}

func (m *MockSectionRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Section, len(m.sections))
	copy(out, m.sections)
	return out, nil
}

// -----------------------------
// MockRateLimiter
// -----------------------------

type MockRateLimiter struct {
	AllowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key, limit, window)
	}
	return true, nil
}
