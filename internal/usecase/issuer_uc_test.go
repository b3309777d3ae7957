//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
	"edu-activation-core/internal/usecase"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func TestIssuerUseCase_IssueBatch(t *testing.T) {
	ctx := context.Background()
	testLogger := newTestLogger()

	t.Run("produces exactly N distinct well-formed codes", func(t *testing.T) {
		codeRepo := NewMockActivationCodeRepo()
		uc := usecase.NewIssuerUseCase(codeRepo, NewMockTxManager(), testLogger)

		batch, err := uc.IssueBatch(ctx, 20, model.LevelOne, 90)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if len(batch) != 20 {
			t.Fatalf("expected 20 codes, got %d", len(batch))
		}

		seen := make(map[string]struct{})
		for _, c := range batch {
			if len(c.Code) != 8 {
				t.Errorf("code %q is not 8 characters", c.Code)
			}
			for _, r := range c.Code {
				if !strings.ContainsRune(codeAlphabet, r) {
					t.Errorf("code %q contains ambiguous character %q", c.Code, r)
				}
			}
			if _, dup := seen[c.Code]; dup {
				t.Errorf("duplicate code %q in batch", c.Code)
			}
			seen[c.Code] = struct{}{}
			if c.IsUsed || c.UsedBy != nil || c.UsedAt != nil {
				t.Errorf("code %q must be issued unused", c.Code)
			}
			if c.Level != model.LevelOne || c.DurationDays != 90 {
				t.Errorf("code %q carries wrong level/duration", c.Code)
			}
			if c.BatchID == "" {
				t.Errorf("code %q missing batch id", c.Code)
			}
			if c.BatchID != batch[0].BatchID {
				t.Errorf("codes of one batch must share a batch id")
			}
		}
	})

	t.Run("a second batch never overlaps the first", func(t *testing.T) {
		codeRepo := NewMockActivationCodeRepo()
		uc := usecase.NewIssuerUseCase(codeRepo, NewMockTxManager(), testLogger)

		first, err := uc.IssueBatch(ctx, 5, model.LevelOne, 90)
		if err != nil {
			t.Fatalf("first batch: %v", err)
		}
		second, err := uc.IssueBatch(ctx, 5, model.LevelOne, 90)
		if err != nil {
			t.Fatalf("second batch: %v", err)
		}

		firstSet := make(map[string]struct{}, len(first))
		for _, c := range first {
			firstSet[c.Code] = struct{}{}
		}
		for _, c := range second {
			if _, clash := firstSet[c.Code]; clash {
				t.Errorf("code %q appears in both batches", c.Code)
			}
		}
		if first[0].BatchID == second[0].BatchID {
			t.Error("separate batches must carry separate batch ids")
		}
	})

	t.Run("regenerates a colliding slot instead of overwriting", func(t *testing.T) {
		codeRepo := NewMockActivationCodeRepo()

		// First two existence checks collide, then the store is clear.
		checks := 0
		codeRepo.ExistsFunc = func(ctx context.Context, tx repository.Tx, code string) (bool, error) {
			checks++
			return checks <= 2, nil
		}
		uc := usecase.NewIssuerUseCase(codeRepo, NewMockTxManager(), testLogger)

		batch, err := uc.IssueBatch(ctx, 3, model.LevelTwo, 30)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if len(batch) != 3 {
			t.Fatalf("expected 3 codes, got %d", len(batch))
		}
		if checks < 5 {
			t.Errorf("expected regeneration checks beyond the batch size, got %d", checks)
		}
	})

	t.Run("fails the whole batch with GenerationExhausted after bounded retries", func(t *testing.T) {
		codeRepo := NewMockActivationCodeRepo()
		codeRepo.ExistsFunc = func(ctx context.Context, tx repository.Tx, code string) (bool, error) {
			return true, nil // every candidate collides
		}
		saved := false
		codeRepo.SaveBatchFunc = func(ctx context.Context, tx repository.Tx, codes []*model.ActivationCode) error {
			saved = true
			return nil
		}
		uc := usecase.NewIssuerUseCase(codeRepo, NewMockTxManager(), testLogger)

		_, err := uc.IssueBatch(ctx, 2, model.LevelOne, 30)
		if !errors.Is(err, domain.ErrGenerationExhausted) {
			t.Fatalf("expected ErrGenerationExhausted, got %v", err)
		}
		if saved {
			t.Error("no partial batch may be written")
		}
	})

	t.Run("a failing batch write leaves nothing behind", func(t *testing.T) {
		codeRepo := NewMockActivationCodeRepo()
		codeRepo.SaveBatchFunc = func(ctx context.Context, tx repository.Tx, codes []*model.ActivationCode) error {
			return domain.ErrStoreUnavailable
		}
		uc := usecase.NewIssuerUseCase(codeRepo, NewMockTxManager(), testLogger)

		if _, err := uc.IssueBatch(ctx, 4, model.LevelOne, 30); err == nil {
			t.Fatal("expected the batch to fail")
		}
		if n, _ := codeRepo.CountIssued(ctx, repository.NoTX); n != 0 {
			t.Errorf("expected no codes persisted, found %d", n)
		}
	})

	t.Run("rejects invalid arguments", func(t *testing.T) {
		uc := usecase.NewIssuerUseCase(NewMockActivationCodeRepo(), NewMockTxManager(), testLogger)

		cases := []struct {
			name  string
			count int
			level model.Level
			days  int
		}{
			{"zero count", 0, model.LevelOne, 30},
			{"negative count", -1, model.LevelOne, 30},
			{"oversized count", 501, model.LevelOne, 30},
			{"zero duration", 5, model.LevelOne, 0},
			{"bogus level", 5, model.Level("grade 13"), 30},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := uc.IssueBatch(ctx, tc.count, tc.level, tc.days); !errors.Is(err, domain.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
			})
		}
	})
}

func TestIssuerUseCase_IssueCode(t *testing.T) {
	ctx := context.Background()
	testLogger := newTestLogger()

	t.Run("persists a manual admin code, normalized", func(t *testing.T) {
		codeRepo := NewMockActivationCodeRepo()
		uc := usecase.NewIssuerUseCase(codeRepo, NewMockTxManager(), testLogger)

		code, err := uc.IssueCode(ctx, " excel2025 ", model.LevelThree, 60)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if code.Code != "EXCEL2025" {
			t.Errorf("expected normalized code EXCEL2025, got %q", code.Code)
		}
		if code.BatchID != "" {
			t.Error("manual codes carry no batch id")
		}
		if ok, _ := codeRepo.Exists(ctx, repository.NoTX, "EXCEL2025"); !ok {
			t.Error("expected the code to be persisted")
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		codeRepo := NewMockActivationCodeRepo()
		uc := usecase.NewIssuerUseCase(codeRepo, NewMockTxManager(), testLogger)

		if _, err := uc.IssueCode(ctx, "TWICE123", model.LevelOne, 30); err != nil {
			t.Fatalf("first issue: %v", err)
		}
		if _, err := uc.IssueCode(ctx, "twice123", model.LevelOne, 30); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("rejects malformed codes", func(t *testing.T) {
		uc := usecase.NewIssuerUseCase(NewMockActivationCodeRepo(), NewMockTxManager(), testLogger)

		for _, raw := range []string{"", "abc", "THISCODEISWAYTOOLONG"} {
			if _, err := uc.IssueCode(ctx, raw, model.LevelOne, 30); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("IssueCode(%q): expected ErrInvalidArgument, got %v", raw, err)
			}
		}
	})
}
