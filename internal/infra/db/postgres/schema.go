package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the tables if they do not exist. Intended for seeding
// and test environments; production migrations run out of band.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS accounts (
    id         TEXT PRIMARY KEY,
    email      TEXT NOT NULL UNIQUE,
    role       TEXT NOT NULL,
    level      TEXT NOT NULL,
    is_active  BOOLEAN NOT NULL DEFAULT FALSE,
    sub_start  TIMESTAMPTZ,
    sub_end    TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS activation_codes (
    code          TEXT PRIMARY KEY,
    level         TEXT,
    duration_days INTEGER NOT NULL CHECK (duration_days > 0),
    batch_id      TEXT NOT NULL DEFAULT '',
    is_used       BOOLEAN NOT NULL DEFAULT FALSE,
    used_by       TEXT,
    used_at       TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL,
    CHECK (is_used = ((used_by IS NOT NULL) AND (used_at IS NOT NULL)))
);

CREATE TABLE IF NOT EXISTS sections (
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    allowed_roles  TEXT[] NOT NULL DEFAULT '{}',
    allowed_levels TEXT[] NOT NULL DEFAULT '{}',
    content_url    TEXT NOT NULL DEFAULT '',
    created_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accounts_sub_end ON accounts (sub_end) WHERE is_active = TRUE;
CREATE INDEX IF NOT EXISTS idx_codes_batch ON activation_codes (batch_id);
`
	_, err := pool.Exec(ctx, ddl)
	return err
}
