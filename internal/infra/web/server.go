package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"edu-activation-core/internal/config"
	"edu-activation-core/internal/infra/i18n"
	"edu-activation-core/internal/infra/logging"
	"edu-activation-core/internal/usecase"
)

// Server exposes the core's entry points (redemption, issuance, access) to
// the UI layer over HTTP. It holds no business logic of its own.
type Server struct {
	redeemUC  usecase.RedemptionUseCase
	issuerUC  usecase.IssuerUseCase
	accessUC  usecase.AccessUseCase
	accountUC usecase.AccountUseCase
	statsUC   usecase.StatsUseCase
	auth      *AuthManager
	apiKey    string
	tr        *i18n.Translator
	log       *zerolog.Logger
}

func NewServer(
	redeemUC usecase.RedemptionUseCase,
	issuerUC usecase.IssuerUseCase,
	accessUC usecase.AccessUseCase,
	accountUC usecase.AccountUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	apiKey string,
	tr *i18n.Translator,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		redeemUC:  redeemUC,
		issuerUC:  issuerUC,
		accessUC:  accessUC,
		accountUC: accountUC,
		statsUC:   statsUC,
		auth:      auth,
		apiKey:    apiKey,
		tr:        tr,
		log:       logger,
	}
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.traceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/redeem", s.handleRedeem)
		r.Post("/accounts", s.handleRegister)
		r.Get("/accounts/{id}", s.handleGetAccount)
		r.Get("/accounts/{id}/sections", s.handleVisibleSections)

		r.Post("/admin/login", s.handleAdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.adminMiddleware)
			r.Get("/accounts", s.handleListAccounts)
			r.Post("/codes", s.handleIssueCode)
			r.Post("/codes/batch", s.handleIssueBatch)
			r.Get("/stats", s.handleStats)
		})
	})

	return r
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe(cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.log.Info().Int("port", cfg.Port).Msg("HTTP server listening")
	return srv.ListenAndServe()
}

// traceMiddleware stamps every request with a trace id for log correlation.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set("X-Trace-ID", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware accepts either a bearer API key or a minted admin session.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if key := bearerKey(r); key != "" {
			if key != s.apiKey {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		if s.auth != nil && s.auth.Verify(r) == nil {
			next.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}
