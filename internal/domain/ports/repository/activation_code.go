package repository

import (
	"context"
	"time"

	"edu-activation-core/internal/domain/model"
)

// ActivationCodeRepository is the port for managing activation codes.
type ActivationCodeRepository interface {
	// Save creates a new activation code.
	Save(ctx context.Context, tx Tx, code *model.ActivationCode) error
	// SaveBatch inserts all codes or none. Callers wrap it in a transaction
	// via TransactionManager; implementations must not commit partially.
	SaveBatch(ctx context.Context, tx Tx, codes []*model.ActivationCode) error
	// FindByCode returns the code record regardless of redemption state.
	FindByCode(ctx context.Context, tx Tx, code string) (*model.ActivationCode, error)
	// Exists reports whether a code record is present.
	Exists(ctx context.Context, tx Tx, code string) (bool, error)
	// Consume flips is_used false→true and stamps used_by/used_at in one
	// conditional write. Returns false when the code was already used, so
	// exactly one of any set of concurrent callers observes true.
	Consume(ctx context.Context, tx Tx, code, accountID string, at time.Time) (bool, error)
	// CountIssued / CountUsed power the admin statistics.
	CountIssued(ctx context.Context, tx Tx) (int, error)
	CountUsed(ctx context.Context, tx Tx) (int, error)
}
