package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"edu-activation-core/internal/domain"
	"edu-activation-core/internal/domain/model"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels to HTTP statuses and localized messages.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		status = http.StatusInternalServerError
		key    = "store_error"
	)
	switch {
	case errors.Is(err, domain.ErrInvalidCode), errors.Is(err, domain.ErrInvalidArgument):
		status, key = http.StatusBadRequest, "code_invalid"
	case errors.Is(err, domain.ErrCodeNotFound):
		status, key = http.StatusNotFound, "code_not_found"
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		status, key = http.StatusConflict, "code_already_used"
	case errors.Is(err, domain.ErrAlreadyExists):
		status, key = http.StatusConflict, "code_exists"
	case errors.Is(err, domain.ErrNotFound):
		status, key = http.StatusNotFound, "account_not_found"
	case errors.Is(err, domain.ErrTooManyAttempts):
		status, key = http.StatusTooManyRequests, "too_many_attempts"
	case errors.Is(err, domain.ErrGenerationExhausted):
		status, key = http.StatusConflict, "store_error"
	default:
		s.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Message: s.tr.T(key)})
}

type redeemRequest struct {
	AccountID string `json:"uid"`
	Code      string `json:"code"`
}

type redeemResponse struct {
	Account *model.Account `json:"account"`
	Message string         `json:"message"`
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request", Message: s.tr.T("code_invalid")})
		return
	}
	res, err := s.redeemUC.Redeem(r.Context(), req.AccountID, req.Code)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redeemResponse{Account: res.Account, Message: s.tr.T("redeemed")})
}

type registerRequest struct {
	ID    string      `json:"uid"`
	Email string      `json:"email"`
	Level model.Level `json:"level"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}
	account, err := s.accountUC.RegisterOrFetch(r.Context(), req.ID, req.Email, req.Level)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.accountUC.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleVisibleSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.accessUC.VisibleSections(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accountUC.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

type issueCodeRequest struct {
	Code         string      `json:"code"`
	Level        model.Level `json:"level"`
	DurationDays int         `json:"durationDays"`
}

func (s *Server) handleIssueCode(w http.ResponseWriter, r *http.Request) {
	var req issueCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}
	code, err := s.issuerUC.IssueCode(r.Context(), req.Code, req.Level, req.DurationDays)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, code)
}

type issueBatchRequest struct {
	Count        int         `json:"count"`
	Level        model.Level `json:"level"`
	DurationDays int         `json:"durationDays"`
}

func (s *Server) handleIssueBatch(w http.ResponseWriter, r *http.Request) {
	var req issueBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request"})
		return
	}
	codes, err := s.issuerUC.IssueBatch(r.Context(), req.Count, req.Level, req.DurationDays)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, codes)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Overview(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type adminLoginRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if s.apiKey == "" || req.Key != s.apiKey {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if _, err := s.auth.Mint(w); err != nil {
		s.log.Error().Err(err).Msg("mint admin session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
