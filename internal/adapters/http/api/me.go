package api

import (
	"net/http"
	"strings"

	"github.com/okian/portal/internal/domain/identity"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
)

// MeHandler serves the signed-in player's data. Its routes sit behind
// RequireAPIAuth, so a player is always in the request context.
type MeHandler struct {
	svc Service
	log logger.Logger
}

type statsResponse struct {
	Metrics sessionstats.DerivedMetrics `json:"metrics"`
	Cards   []types.StatCard           `json:"cards"`
}

func player(r *http.Request) model.Player {
	p, _ := identity.PlayerFromContext(r.Context())
	return p
}

// HandleMe handles GET /api/v1/me.
func (h *MeHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, player(r))
}

// HandleSessions handles GET /api/v1/me/sessions. Sessions are most recent first.
func (h *MeHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.Sessions(r.Context(), player(r))
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	if sessions == nil {
		sessions = []model.TrainingSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// HandleAppointments handles GET /api/v1/me/appointments.
func (h *MeHandler) HandleAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.svc.Appointments(r.Context(), player(r))
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

// HandleStats handles GET /api/v1/me/stats.
func (h *MeHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	m, cards, err := h.svc.Stats(r.Context(), player(r))
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Metrics: m, Cards: cards})
}

// HandleSession handles GET /api/v1/sessions/{id}.
func (h *MeHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	ts, err := h.svc.Session(r.Context(), player(r), id)
	if err != nil {
		writeServiceError(r.Context(), h.log, w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}
