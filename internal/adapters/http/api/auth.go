package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/portal/internal/adapters/http/middleware"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/pkg/logger"
	"github.com/okian/portal/pkg/metrics"
)

const maxSignInBody = 1 << 12

// AuthHandler handles sign-in and sign-out.
type AuthHandler struct {
	svc     Service
	limiter *middleware.RateLimiter
	secure  bool
	log     logger.Logger
}

// signInRequest mirrors the OpenAPI schema for POST /api/v1/signin.
type signInRequest struct {
	Email string `json:"email"`
}

func (s signInRequest) validate() error {
	if strings.TrimSpace(s.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrBadRequest)
	}
	return nil
}

type signInResponse struct {
	Token  string       `json:"token"`
	Player model.Player `json:"player"`
}

// HandleSignIn handles POST /api/v1/signin.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.AllowRequest(r) {
		metrics.RecordSignIn(metrics.SignInThrottled)
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "rate_limited", ErrThrottled)
		return
	}

	var req signInRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSignInBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid json body", ErrBadRequest))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	token, p, err := h.svc.SignIn(r.Context(), req.Email)
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}

	middleware.SetSessionCookie(w, token, h.secure)
	writeJSON(w, http.StatusOK, signInResponse{Token: token, Player: p})
}

// HandleSignOut handles POST /api/v1/signout. It always succeeds.
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	h.svc.SignOut(r.Context(), middleware.TokenFromRequest(r))
	middleware.ClearSessionCookie(w, h.secure)
	w.WriteHeader(http.StatusNoContent)
}
