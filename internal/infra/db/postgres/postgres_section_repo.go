package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
)

var _ repository.SectionRepository = (*sectionRepo)(nil)

type sectionRepo struct {
	pool *pgxpool.Pool
}

func NewSectionRepo(pool *pgxpool.Pool) repository.SectionRepository {
	return &sectionRepo{pool: pool}
}

func (r *sectionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Section) error {
	const q = `
INSERT INTO sections (id, title, description, allowed_roles, allowed_levels, content_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  title=$2, description=$3, allowed_roles=$4, allowed_levels=$5, content_url=$6;
`
	_, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.Title, s.Description, rolesToStrings(s.AllowedRoles), levelsToStrings(s.AllowedLevels), s.ContentURL, s.CreatedAt,
	)
	return err
}

func (r *sectionRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Section, error) {
	const q = `
SELECT id, title, description, allowed_roles, allowed_levels, content_url, created_at
  FROM sections
 ORDER BY created_at DESC;
`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Section
	for rows.Next() {
		var (
			s      model.Section
			roles  []string
			levels []string
		)
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &roles, &levels, &s.ContentURL, &s.CreatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrReadDatabaseRow
		}
		s.AllowedRoles = stringsToRoles(roles)
		s.AllowedLevels = stringsToLevels(levels)
		out = append(out, &s)
	}
	return out, rows.Err()
}

func rolesToStrings(rs []model.Role) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

func levelsToStrings(ls []model.Level) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(l)
	}
	return out
}

func stringsToRoles(ss []string) []model.Role {
	out := make([]model.Role, len(ss))
	for i, s := range ss {
		out[i] = model.Role(s)
	}
	return out
}

func stringsToLevels(ss []string) []model.Level {
	out := make([]model.Level, len(ss))
	for i, s := range ss {
		out[i] = model.Level(s)
	}
	return out
}
