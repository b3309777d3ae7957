package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"edu-activation-core/internal/domain/ports/repository"
	"edu-activation-core/internal/infra/metrics"
)

// ExpiryWorker periodically refreshes entitlement gauges and logs accounts
// whose window ends soon. It never mutates accounts: entitlement expiry is a
// read-time derivation, and the stored flag keeps meaning "ever activated".
type ExpiryWorker struct {
	interval    time.Duration
	horizonDays int
	accounts    repository.AccountRepository
	log         *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, horizonDays int, accounts repository.AccountRepository, logger *zerolog.Logger) *ExpiryWorker {
	wlog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval:    interval,
		horizonDays: horizonDays,
		accounts:    accounts,
		log:         &wlog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	now := time.Now()

	entitled, err := w.accounts.CountEntitled(ctx, repository.NoTX, now)
	if err != nil {
		w.log.Error().Err(err).Msg("count entitled accounts")
		return
	}
	total, err := w.accounts.CountAccounts(ctx, repository.NoTX)
	if err != nil {
		w.log.Error().Err(err).Msg("count accounts")
		return
	}
	pending, err := w.accounts.CountPending(ctx, repository.NoTX)
	if err != nil {
		w.log.Error().Err(err).Msg("count pending accounts")
		return
	}
	expired := total - entitled - pending
	metrics.SetAccountsTotal(entitled, expired, pending)

	expiring, err := w.accounts.FindExpiring(ctx, repository.NoTX, now, w.horizonDays)
	if err != nil {
		w.log.Error().Err(err).Msg("find expiring accounts")
		return
	}
	metrics.SetAccountsExpiringSoon(len(expiring))
	if len(expiring) > 0 {
		w.log.Info().Int("count", len(expiring)).Int("horizon_days", w.horizonDays).Msg("accounts expiring soon")
	}
}
