package usecase

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
	"edu-activation-core/internal/infra/logging"
	"edu-activation-core/internal/infra/metrics"
)

// Compile-time check
var _ IssuerUseCase = (*issuerUC)(nil)

// IssuerUseCase creates activation codes, either in bulk with generated
// strings or one at a time with an admin-chosen string.
type IssuerUseCase interface {
	IssueBatch(ctx context.Context, count int, level model.Level, durationDays int) ([]*model.ActivationCode, error)
	IssueCode(ctx context.Context, rawCode string, level model.Level, durationDays int) (*model.ActivationCode, error)
}

const (
	maxBatchSize = 500
	// slotRetries bounds regeneration attempts per batch slot before the
	// whole batch fails.
	slotRetries = 5
)

type issuerUC struct {
	codes repository.ActivationCodeRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewIssuerUseCase(codes repository.ActivationCodeRepository, tm repository.TransactionManager, logger *zerolog.Logger) *issuerUC {
	return &issuerUC{codes: codes, tm: tm, log: logger}
}

// IssueBatch generates count unique codes and persists them in one atomic
// multi-row write; partial batches are never visible.
func (uc *issuerUC) IssueBatch(ctx context.Context, count int, level model.Level, durationDays int) ([]*model.ActivationCode, error) {
	defer logging.TraceDuration(uc.log, "IssuerUC.IssueBatch")()

	if count <= 0 || count > maxBatchSize || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if level != "" && !level.Valid() {
		return nil, domain.ErrInvalidArgument
	}

	batchID := ulid.Make().String()
	batch := make([]*model.ActivationCode, 0, count)
	seen := make(map[string]struct{}, count)

	for slot := 0; slot < count; slot++ {
		code, err := uc.uniqueCode(ctx, seen)
		if err != nil {
			return nil, err
		}
		seen[code] = struct{}{}

		ac, err := model.NewActivationCode(code, level, durationDays)
		if err != nil {
			return nil, err
		}
		ac.BatchID = batchID
		batch = append(batch, ac)
	}

	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		return uc.codes.SaveBatch(ctx, tx, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("save batch %s: %w", batchID, err)
	}

	metrics.AddCodesIssued(count, "batch")
	uc.log.Info().Str("batch_id", batchID).Int("count", count).Int("duration_days", durationDays).Msg("activation code batch issued")
	return batch, nil
}

// IssueCode persists a single admin-chosen code (the manual issuance path).
func (uc *issuerUC) IssueCode(ctx context.Context, rawCode string, level model.Level, durationDays int) (*model.ActivationCode, error) {
	defer logging.TraceDuration(uc.log, "IssuerUC.IssueCode")()

	ac, err := model.NewActivationCode(rawCode, level, durationDays)
	if err != nil {
		return nil, err
	}

	exists, err := uc.codes.Exists(ctx, repository.NoTX, ac.Code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}
	if err := uc.codes.Save(ctx, repository.NoTX, ac); err != nil {
		return nil, fmt.Errorf("save code: %w", err)
	}

	metrics.AddCodesIssued(1, "manual")
	uc.log.Info().Str("code", ac.Code).Msg("activation code issued manually")
	return ac, nil
}

// uniqueCode regenerates until the candidate collides with neither the
// current batch nor the store, within slotRetries attempts.
func (uc *issuerUC) uniqueCode(ctx context.Context, seen map[string]struct{}) (string, error) {
	for attempt := 0; attempt < slotRetries; attempt++ {
		code, err := generateActivationCode()
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		exists, err := uc.codes.Exists(ctx, repository.NoTX, code)
		if err != nil {
			return "", fmt.Errorf("check code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", domain.ErrGenerationExhausted
}
