package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
	"edu-activation-core/internal/infra/logging"
)

// Compile-time check
var _ AccountUseCase = (*accountUC)(nil)

// AccountUseCase exposes account operations used by registration and admin
// flows. The identity provider owns credentials; we only mirror its uid.
type AccountUseCase interface {
	RegisterOrFetch(ctx context.Context, id, email string, level model.Level) (*model.Account, error)
	GetByID(ctx context.Context, id string) (*model.Account, error)
	List(ctx context.Context) ([]*model.Account, error)
	Count(ctx context.Context) (int, error)
	CountEntitled(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type accountUC struct {
	accounts repository.AccountRepository
	tm       repository.TransactionManager
	log      *zerolog.Logger

	now func() time.Time
}

func NewAccountUseCase(accounts repository.AccountRepository, tm repository.TransactionManager, logger *zerolog.Logger) *accountUC {
	return &accountUC{accounts: accounts, tm: tm, log: logger, now: time.Now}
}

// RegisterOrFetch returns the existing account for id or creates an inactive
// student account. Find and save run in a serializable transaction so a
// double-submitted registration cannot create twins.
func (u *accountUC) RegisterOrFetch(ctx context.Context, id, email string, level model.Level) (*model.Account, error) {
	defer logging.TraceDuration(u.log, "AccountUC.RegisterOrFetch")()

	var account *model.Account
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		existing, err := u.accounts.FindByID(ctx, tx, id)
		if err == nil {
			account = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		na, err := model.NewAccount(id, email, level)
		if err != nil {
			return err
		}
		if err := u.accounts.Save(ctx, tx, na); err != nil {
			return err
		}
		account = na
		u.log.Info().Str("account_id", na.ID).Str("level", string(na.Level)).Msg("account registered")
		return nil
	})
	return account, err
}

func (u *accountUC) GetByID(ctx context.Context, id string) (*model.Account, error) {
	defer logging.TraceDuration(u.log, "AccountUC.GetByID")()
	return u.accounts.FindByID(ctx, repository.NoTX, id)
}

func (u *accountUC) List(ctx context.Context) ([]*model.Account, error) {
	defer logging.TraceDuration(u.log, "AccountUC.List")()
	return u.accounts.List(ctx, repository.NoTX)
}

func (u *accountUC) Count(ctx context.Context) (int, error) {
	return u.accounts.CountAccounts(ctx, repository.NoTX)
}

func (u *accountUC) CountEntitled(ctx context.Context) (int, error) {
	return u.accounts.CountEntitled(ctx, repository.NoTX, u.now())
}

func (u *accountUC) CountPending(ctx context.Context) (int, error) {
	return u.accounts.CountPending(ctx, repository.NoTX)
}
