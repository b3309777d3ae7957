//go:build !integration

package web_test

import (
	"context"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/usecase"
)

// Fake use cases with overridable behavior, one Func field per operation.

type fakeRedemptionUC struct {
	RedeemFunc func(ctx context.Context, accountID, rawCode string) (*usecase.RedemptionResult, error)
}

func (f *fakeRedemptionUC) Redeem(ctx context.Context, accountID, rawCode string) (*usecase.RedemptionResult, error) {
	if f.RedeemFunc != nil {
		return f.RedeemFunc(ctx, accountID, rawCode)
	}
	return nil, domain.ErrCodeNotFound
}

type fakeIssuerUC struct {
	IssueBatchFunc func(ctx context.Context, count int, level model.Level, durationDays int) ([]*model.ActivationCode, error)
	IssueCodeFunc  func(ctx context.Context, rawCode string, level model.Level, durationDays int) (*model.ActivationCode, error)
}

func (f *fakeIssuerUC) IssueBatch(ctx context.Context, count int, level model.Level, durationDays int) ([]*model.ActivationCode, error) {
	if f.IssueBatchFunc != nil {
		return f.IssueBatchFunc(ctx, count, level, durationDays)
	}
	return nil, domain.ErrInvalidArgument
}

func (f *fakeIssuerUC) IssueCode(ctx context.Context, rawCode string, level model.Level, durationDays int) (*model.ActivationCode, error) {
	if f.IssueCodeFunc != nil {
		return f.IssueCodeFunc(ctx, rawCode, level, durationDays)
	}
	return nil, domain.ErrInvalidArgument
}

type fakeAccessUC struct {
	VisibleSectionsFunc func(ctx context.Context, accountID string) ([]*model.Section, error)
}

func (f *fakeAccessUC) VisibleSections(ctx context.Context, accountID string) ([]*model.Section, error) {
	if f.VisibleSectionsFunc != nil {
		return f.VisibleSectionsFunc(ctx, accountID)
	}
	return nil, domain.ErrNotFound
}

type fakeAccountUC struct {
	RegisterOrFetchFunc func(ctx context.Context, id, email string, level model.Level) (*model.Account, error)
	GetByIDFunc         func(ctx context.Context, id string) (*model.Account, error)
	ListFunc            func(ctx context.Context) ([]*model.Account, error)
}

func (f *fakeAccountUC) RegisterOrFetch(ctx context.Context, id, email string, level model.Level) (*model.Account, error) {
	if f.RegisterOrFetchFunc != nil {
		return f.RegisterOrFetchFunc(ctx, id, email, level)
	}
	return nil, domain.ErrInvalidArgument
}

func (f *fakeAccountUC) GetByID(ctx context.Context, id string) (*model.Account, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAccountUC) List(ctx context.Context) ([]*model.Account, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return nil, nil
}

func (f *fakeAccountUC) Count(ctx context.Context) (int, error)         { return 0, nil }
func (f *fakeAccountUC) CountEntitled(ctx context.Context) (int, error) { return 0, nil }
func (f *fakeAccountUC) CountPending(ctx context.Context) (int, error)  { return 0, nil }

type fakeStatsUC struct {
	OverviewFunc func(ctx context.Context) (*usecase.Stats, error)
}

func (f *fakeStatsUC) Overview(ctx context.Context) (*usecase.Stats, error) {
	if f.OverviewFunc != nil {
		return f.OverviewFunc(ctx)
	}
	return &usecase.Stats{}, nil
}
