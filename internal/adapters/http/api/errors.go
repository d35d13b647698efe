package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/portal/internal/adapters/playerapi"
	service "github.com/okian/portal/internal/app"
	"github.com/okian/portal/pkg/logger"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrThrottled   = errors.New("too many sign-in attempts; try again later")
	ErrUnavailable = errors.New("player api unavailable")
)

// writeServiceError maps service and upstream errors onto HTTP statuses.
// Server-side failures are logged and answered without internal detail.
func writeServiceError(ctx context.Context, log logger.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrNotSignedIn):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, service.ErrPlayerNotFound), errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, playerapi.ErrUpstream):
		log.Error(ctx, "player api request failed", logger.Error(err))
		writeError(w, http.StatusBadGateway, "upstream_error", ErrUnavailable)
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to send
		writeError(w, http.StatusRequestTimeout, "canceled", nil)
	default:
		log.Error(ctx, "request failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
