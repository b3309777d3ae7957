package repository

import (
	"context"
	"time"

	"edu-activation-core/internal/domain/model"
)

// AccountRepository is the port for user accounts.
type AccountRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Account) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Account, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Account, error)
	// List returns accounts newest-first.
	List(ctx context.Context, tx Tx) ([]*model.Account, error)

	// --- Statistics read-only methods ---
	CountAccounts(ctx context.Context, tx Tx) (int, error)
	// CountEntitled counts accounts whose subscription window covers `now`.
	CountEntitled(ctx context.Context, tx Tx, now time.Time) (int, error)
	// CountPending counts accounts that never activated.
	CountPending(ctx context.Context, tx Tx) (int, error)
	// FindExpiring returns activated accounts whose window ends within the
	// given number of days from `now`.
	FindExpiring(ctx context.Context, tx Tx, now time.Time, withinDays int) ([]*model.Account, error)
}
