package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"edu-activation-core/internal/config"
	pg "edu-activation-core/internal/infra/db/postgres"
	"edu-activation-core/internal/infra/i18n"
	"edu-activation-core/internal/infra/logging"
	"edu-activation-core/internal/infra/metrics"
	red "edu-activation-core/internal/infra/redis"
	"edu-activation-core/internal/infra/sched"
	"edu-activation-core/internal/infra/web"
	"edu-activation-core/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	tm := pg.NewTxManager(pool)

	// ---- Repositories ----
	codeRepo := pg.NewActivationCodeRepo(pool)
	accountRepo := pg.NewAccountRepo(pool)
	sectionRepo := pg.NewSectionRepo(pool)

	// ---- Redis (optional: cache + rate limiting degrade away without it) ----
	var limiter usecase.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
		accountRepo = pg.NewAccountRepoCacheDecorator(accountRepo, redisClient, cfg.Redis.TTL)
	} else {
		logger.Warn().Msg("redis.url not set; account cache and rate limiting disabled")
	}

	// ---- Use cases ----
	redeemUC := usecase.NewRedemptionUseCase(codeRepo, accountRepo, limiter, logger)
	issuerUC := usecase.NewIssuerUseCase(codeRepo, tm, logger)
	accessUC := usecase.NewAccessUseCase(accountRepo, sectionRepo, logger)
	accountUC := usecase.NewAccountUseCase(accountRepo, tm, logger)
	statsUC := usecase.NewStatsUseCase(accountRepo, codeRepo, logger)

	// ---- i18n ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Server.Locale)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Sweeper.Interval, cfg.Sweeper.ExpiryHorizon, accountRepo, logger)
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("expiry worker stopped")
		}
	}()

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Server.JWTSecret, !cfg.Runtime.Dev, cfg.Server.SessionTTL)
	srv := web.NewServer(redeemUC, issuerUC, accessUC, accountUC, statsUC, auth, cfg.Server.APIKey, tr, logger)
	go func() {
		if err := srv.ListenAndServe(cfg.Server); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}
	cancel()
}
