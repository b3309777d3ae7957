package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
)

var _ repository.AccountRepository = (*accountRepo)(nil)

type accountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) repository.AccountRepository {
	return &accountRepo{pool: pool}
}

const accountColumns = `id, email, role, level, is_active, sub_start, sub_end, created_at`

func (r *accountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	const q = `
INSERT INTO accounts (id, email, role, level, is_active, sub_start, sub_end, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  email=$2, role=$3, level=$4, is_active=$5, sub_start=$6, sub_end=$7;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		a.ID, a.Email, a.Role, a.Level, a.IsActive, a.SubscriptionStart, a.SubscriptionEnd, a.CreatedAt,
	)
	return err
}

func (r *accountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanAccount(row)
}

func (r *accountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanAccount(row)
}

func (r *accountRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountRepo) CountAccounts(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM accounts;`)
}

func (r *accountRepo) CountEntitled(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM accounts WHERE is_active = TRUE AND sub_end > $1;`, now)
}

func (r *accountRepo) CountPending(ctx context.Context, tx repository.Tx) (int, error) {
	return r.countWhere(ctx, tx, `SELECT COUNT(*) FROM accounts WHERE is_active = FALSE;`)
}

func (r *accountRepo) FindExpiring(ctx context.Context, tx repository.Tx, now time.Time, withinDays int) ([]*model.Account, error) {
	const q = `
SELECT ` + accountColumns + `
  FROM accounts
 WHERE is_active = TRUE AND sub_end > $1 AND sub_end <= $2
 ORDER BY sub_end;
`
	cut := now.Add(time.Duration(withinDays) * 24 * time.Hour)
	rows, err := queryRows(ctx, r.pool, tx, q, now, cut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountRepo) countWhere(ctx context.Context, tx repository.Tx, q string, args ...interface{}) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, q, args...)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Email, &a.Role, &a.Level, &a.IsActive, &a.SubscriptionStart, &a.SubscriptionEnd, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &a, nil
}
