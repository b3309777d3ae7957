package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
	"edu-activation-core/internal/infra/logging"
)

// Compile-time check
var _ AccessUseCase = (*accessUC)(nil)

// AccessUseCase computes the subset of the content catalog an account may
// see. It never mutates anything.
type AccessUseCase interface {
	VisibleSections(ctx context.Context, accountID string) ([]*model.Section, error)
}

type accessUC struct {
	accounts repository.AccountRepository
	sections repository.SectionRepository
	log      *zerolog.Logger

	now func() time.Time
}

func NewAccessUseCase(accounts repository.AccountRepository, sections repository.SectionRepository, logger *zerolog.Logger) *accessUC {
	return &accessUC{accounts: accounts, sections: sections, log: logger, now: time.Now}
}

// VisibleSections loads the account and catalog and applies FilterVisible.
// Runs on every dashboard load, so it stays read-only and allocation-light.
func (uc *accessUC) VisibleSections(ctx context.Context, accountID string) ([]*model.Section, error) {
	defer logging.TraceDuration(uc.log, "AccessUC.VisibleSections")()

	account, err := uc.accounts.FindByID(ctx, repository.NoTX, accountID)
	if err != nil {
		return nil, fmt.Errorf("find account %s: %w", accountID, err)
	}
	catalog, err := uc.sections.List(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return FilterVisible(account, catalog, uc.now()), nil
}

// FilterVisible returns the visible subset of catalog in input order. Pure
// and idempotent; exported so callers holding both records can skip the
// store round-trips.
func FilterVisible(account *model.Account, catalog []*model.Section, now time.Time) []*model.Section {
	visible := make([]*model.Section, 0, len(catalog))
	for _, s := range catalog {
		if s.VisibleTo(account, now) {
			visible = append(visible, s)
		}
	}
	return visible
}
