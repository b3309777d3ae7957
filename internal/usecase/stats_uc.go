package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"edu-activation-core/internal/domain/ports/repository"
	"edu-activation-core/internal/infra/logging"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// Stats is the admin dashboard overview.
type Stats struct {
	TotalAccounts    int `json:"totalAccounts"`
	EntitledAccounts int `json:"entitledAccounts"`
	PendingAccounts  int `json:"pendingAccounts"`
	CodesIssued      int `json:"codesIssued"`
	CodesUsed        int `json:"codesUsed"`
}

type StatsUseCase interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statsUC struct {
	accounts repository.AccountRepository
	codes    repository.ActivationCodeRepository
	log      *zerolog.Logger

	now func() time.Time
}

func NewStatsUseCase(accounts repository.AccountRepository, codes repository.ActivationCodeRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{accounts: accounts, codes: codes, log: logger, now: time.Now}
}

func (uc *statsUC) Overview(ctx context.Context) (*Stats, error) {
	defer logging.TraceDuration(uc.log, "StatsUC.Overview")()

	var (
		s   Stats
		err error
	)
	if s.TotalAccounts, err = uc.accounts.CountAccounts(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if s.EntitledAccounts, err = uc.accounts.CountEntitled(ctx, repository.NoTX, uc.now()); err != nil {
		return nil, err
	}
	if s.PendingAccounts, err = uc.accounts.CountPending(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if s.CodesIssued, err = uc.codes.CountIssued(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if s.CodesUsed, err = uc.codes.CountUsed(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	return &s, nil
}
