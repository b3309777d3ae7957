package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
	"edu-activation-core/internal/domain/ports/repository"
	"edu-activation-core/internal/infra/logging"
	"edu-activation-core/internal/infra/metrics"
)

// Compile-time check
var _ RedemptionUseCase = (*redemptionUC)(nil)

// RateLimiter is the minimal limiting interface the engine needs. A nil
// limiter disables limiting (tests, single-tenant deployments).
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RedemptionResult carries the post-commit state of both records.
type RedemptionResult struct {
	Code    *model.ActivationCode
	Account *model.Account
}

// RedemptionUseCase converts a single-use activation code into account
// entitlement. It is the only writer of the code's used flag.
type RedemptionUseCase interface {
	Redeem(ctx context.Context, accountID, rawCode string) (*RedemptionResult, error)
}

const (
	redeemAttemptLimit  = 10
	redeemAttemptWindow = time.Minute

	// accountUpdateRetries bounds the post-commit account write retries.
	// The consume write is the commit point; the account update must be
	// driven to completion, never rolled back into the code.
	accountUpdateRetries = 3
)

type redemptionUC struct {
	codes    repository.ActivationCodeRepository
	accounts repository.AccountRepository
	limiter  RateLimiter
	log      *zerolog.Logger

	now func() time.Time
}

func NewRedemptionUseCase(codes repository.ActivationCodeRepository, accounts repository.AccountRepository, limiter RateLimiter, logger *zerolog.Logger) *redemptionUC {
	return &redemptionUC{
		codes:    codes,
		accounts: accounts,
		limiter:  limiter,
		log:      logger,
		now:      time.Now,
	}
}

// Redeem validates and atomically consumes rawCode for accountID.
//
// Ordering is code-then-account: the conditional consume write is the commit
// point, and the account update is retried to completion afterwards. A used
// code with a stale account is repairable by support; a code that grants
// entitlement twice is not.
func (uc *redemptionUC) Redeem(ctx context.Context, accountID, rawCode string) (*RedemptionResult, error) {
	defer logging.TraceDuration(uc.log, "RedemptionUC.Redeem")()

	code := model.NormalizeCode(rawCode)
	if !model.ValidCodeFormat(code) {
		metrics.IncRedemption("invalid")
		return nil, domain.ErrInvalidCode
	}

	if uc.limiter != nil {
		ok, err := uc.limiter.Allow(ctx, redeemAttemptKey(accountID), redeemAttemptLimit, redeemAttemptWindow)
		if err != nil {
			// Limiter outage must not take redemption down with it.
			uc.log.Warn().Err(err).Msg("rate limiter unavailable, allowing attempt")
		} else if !ok {
			metrics.IncRedemption("rate_limited")
			return nil, domain.ErrTooManyAttempts
		}
	}

	account, err := uc.accounts.FindByID(ctx, repository.NoTX, accountID)
	if err != nil {
		return nil, fmt.Errorf("find account %s: %w", accountID, err)
	}

	rec, err := uc.codes.FindByCode(ctx, repository.NoTX, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncRedemption("not_found")
			return nil, domain.ErrCodeNotFound
		}
		return nil, fmt.Errorf("find code: %w", err)
	}
	if rec.IsUsed {
		metrics.IncRedemption("conflict")
		return nil, domain.ErrCodeAlreadyUsed
	}

	now := uc.now()

	// Commit point. Exactly one concurrent caller sees ok==true; everyone
	// else lost the race after the pre-check above.
	ok, err := uc.codes.Consume(ctx, repository.NoTX, code, accountID, now)
	if err != nil {
		return nil, fmt.Errorf("consume code: %w", err)
	}
	if !ok {
		metrics.IncRedemption("conflict")
		return nil, domain.ErrCodeAlreadyUsed
	}
	if err := rec.MarkUsed(accountID, now); err != nil {
		// The store already committed the transition; mirror it locally.
		uc.log.Warn().Err(err).Str("code", rec.Code).Msg("local code state out of sync")
	}

	uc.applyEntitlement(account, rec, now)

	if err := uc.saveAccountRetrying(ctx, account); err != nil {
		metrics.IncRedemption("account_update_failed")
		uc.log.Error().Err(err).
			Str("code", rec.Code).
			Str("account_id", accountID).
			Msg("code consumed but account update failed; needs repair")
		return nil, fmt.Errorf("code %s consumed but account update failed: %w", rec.Code, err)
	}

	metrics.IncRedemption("success")
	uc.log.Info().
		Str("code", rec.Code).
		Str("account_id", accountID).
		Time("sub_end", *account.SubscriptionEnd).
		Msg("activation code redeemed")

	return &RedemptionResult{Code: rec, Account: account}, nil
}

// applyEntitlement computes the new subscription window. Renewals extend
// from max(now, current end) so early renewal never loses purchased days.
func (uc *redemptionUC) applyEntitlement(a *model.Account, code *model.ActivationCode, now time.Time) {
	base := now
	if a.IsActive && a.SubscriptionEnd != nil && a.SubscriptionEnd.After(now) {
		base = *a.SubscriptionEnd
	}
	end := base.Add(time.Duration(code.DurationDays) * 24 * time.Hour)

	a.IsActive = true
	a.SubscriptionStart = &now
	a.SubscriptionEnd = &end
	if code.Level != "" {
		a.Level = code.Level
	}
}

func (uc *redemptionUC) saveAccountRetrying(ctx context.Context, a *model.Account) error {
	// Detach from the caller's deadline: once the code is consumed this
	// write may not be abandoned.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	var err error
	for attempt := 0; attempt < accountUpdateRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
		if err = uc.accounts.Save(ctx, repository.NoTX, a); err == nil {
			return nil
		}
		uc.log.Warn().Err(err).Int("attempt", attempt+1).Str("account_id", a.ID).Msg("account save failed")
	}
	return err
}

func redeemAttemptKey(accountID string) string {
	return "redeem_attempts:" + accountID
}
