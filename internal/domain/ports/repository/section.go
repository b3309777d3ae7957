package repository

import (
	"context"

	"edu-activation-core/internal/domain/model"
)

// SectionRepository is the port for the content catalog. The core treats the
// catalog as read-only; Save exists for seeding and admin tooling.
type SectionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Section) error
	// List returns the catalog newest-first, the order dashboards render it.
	List(ctx context.Context, tx Tx) ([]*model.Section, error)
}
