// Package upstream serves the player API's REST endpoints from a repository.
// It stands in for the real player API during development and tests.
package upstream

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/portal/internal/adapters/repository"
	"github.com/okian/portal/pkg/logger"
)

// Prefix is where the player API is rooted on the mock server.
const Prefix = "/api"

type handler struct {
	store repository.Store
}

// Register attaches the player API routes under Prefix.
func Register(mux *http.ServeMux, store repository.Store) {
	h := &handler{store: store}
	mux.HandleFunc("GET "+Prefix+"/players/{id}", h.player)
	// players/email/{email} overlaps players/{id}/sessions, so both shapes share one route.
	mux.HandleFunc("GET "+Prefix+"/players/{id}/{rest}", h.playerResource)
	mux.HandleFunc("GET "+Prefix+"/sessions/{id}", h.session)
}

func (h *handler) playerResource(w http.ResponseWriter, r *http.Request) {
	id, rest := r.PathValue("id"), r.PathValue("rest")
	switch {
	case id == "email":
		h.playerByEmail(w, r, rest)
	case rest == "sessions":
		h.sessions(w, r, id)
	case rest == "appointments":
		h.appointments(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}

func (h *handler) playerByEmail(w http.ResponseWriter, r *http.Request, email string) {
	p, err := h.store.PlayerByEmail(r.Context(), email)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Player not found"})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) player(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.Player(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Player not found"})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) sessions(w http.ResponseWriter, r *http.Request, playerID string) {
	sessions, err := h.store.Sessions(r.Context(), playerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *handler) appointments(w http.ResponseWriter, r *http.Request, playerID string) {
	appts, err := h.store.Appointments(r.Context(), playerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// session answers an unknown id with 200 and a null body, like the real API.
func (h *handler) session(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Session(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.Get().Error(r.Context(), "mock player api failure",
		logger.String("path", r.URL.Path),
		logger.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
