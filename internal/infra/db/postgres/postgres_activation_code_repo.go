package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.ActivationCodeRepository = (*activationCodeRepo)(nil)

type activationCodeRepo struct {
	pool *pgxpool.Pool
}

func NewActivationCodeRepo(pool *pgxpool.Pool) repository.ActivationCodeRepository {
	return &activationCodeRepo{pool: pool}
}

const codeColumns = `code, level, duration_days, batch_id, is_used, used_by, used_at, created_at`

func (r *activationCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	const q = `
INSERT INTO activation_codes (code, level, duration_days, batch_id, is_used, used_by, used_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		code.Code, nullableLevel(code.Level), code.DurationDays, code.BatchID,
		code.IsUsed, code.UsedBy, code.UsedAt, code.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveBatch inserts every code of a batch. Callers pass a tx handle from
// TransactionManager so the whole batch commits or rolls back together.
func (r *activationCodeRepo) SaveBatch(ctx context.Context, tx repository.Tx, codes []*model.ActivationCode) error {
	for _, c := range codes {
		if err := r.Save(ctx, tx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *activationCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.ActivationCode, error) {
	const q = `SELECT ` + codeColumns + ` FROM activation_codes WHERE code = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, code)
	if err != nil {
		return nil, err
	}
	return scanCode(row)
}

func (r *activationCodeRepo) Exists(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT EXISTS(SELECT 1 FROM activation_codes WHERE code = $1);`, code)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

// Consume is the redemption commit point: a single conditional write that
// succeeds for exactly one caller per code.
func (r *activationCodeRepo) Consume(ctx context.Context, tx repository.Tx, code, accountID string, at time.Time) (bool, error) {
	const q = `
UPDATE activation_codes
   SET is_used = TRUE, used_by = $2, used_at = $3
 WHERE code = $1 AND is_used = FALSE;
`
	tag, err := execSQL(ctx, r.pool, tx, q, code, accountID, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *activationCodeRepo) CountIssued(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM activation_codes;`)
}

func (r *activationCodeRepo) CountUsed(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM activation_codes WHERE is_used = TRUE;`)
}

func (r *activationCodeRepo) countWhere(ctx context.Context, tx repository.Tx, q string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanCode(row pgx.Row) (*model.ActivationCode, error) {
	var (
		ac    model.ActivationCode
		level *string
	)
	err := row.Scan(&ac.Code, &level, &ac.DurationDays, &ac.BatchID, &ac.IsUsed, &ac.UsedBy, &ac.UsedAt, &ac.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if level != nil {
		ac.Level = model.Level(*level)
	}
	return &ac, nil
}

// nullableLevel maps the "no level override" zero value to NULL.
func nullableLevel(l model.Level) *string {
	if l == "" {
		return nil
	}
	s := string(l)
	return &s
}
