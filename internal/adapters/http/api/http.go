// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/portal/internal/adapters/http/middleware"
	service "github.com/okian/portal/internal/app"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
)

// Prefix is the root of the versioned JSON API.
const Prefix = "/api/v1"

// Service is the portal behaviour the JSON API exposes. *service.Service
// satisfies it.
type Service interface {
	middleware.Identifier

	SignIn(ctx context.Context, email string) (string, model.Player, error)
	SignOut(ctx context.Context, token string)

	Sessions(ctx context.Context, p model.Player) ([]model.TrainingSession, error)
	Appointments(ctx context.Context, p model.Player) ([]model.Appointment, error)
	Session(ctx context.Context, p model.Player, sessionID string) (model.TrainingSession, error)
	Stats(ctx context.Context, p model.Player) (sessionstats.DerivedMetrics, []types.StatCard, error)
}

var _ Service = (*service.Service)(nil)

// Server wires HTTP routes for the business API.
type Server struct {
	svc           Service
	limiter       *middleware.RateLimiter
	secureCookies bool
	log           logger.Logger

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	authHandler   *AuthHandler
	meHandler     *MeHandler
}

// Option configures a Server.
type Option func(*Server)

// WithSignInLimiter throttles sign-in attempts per client IP.
func WithSignInLimiter(l *middleware.RateLimiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(svc Service, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{svc: svc}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.authHandler = &AuthHandler{svc: svc, limiter: s.limiter, secure: s.secureCookies, log: s.log}
	s.meHandler = &MeHandler{svc: svc, log: s.log}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", middleware.MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /statusz", middleware.MetricsMiddleware(s.statsHandler.HandleStats, "statusz"))

	mux.HandleFunc("POST "+Prefix+"/signin", middleware.MetricsMiddleware(s.authHandler.HandleSignIn, "signin"))
	mux.HandleFunc("POST "+Prefix+"/signout", middleware.MetricsMiddleware(s.authHandler.HandleSignOut, "signout"))

	mux.HandleFunc("GET "+Prefix+"/me", s.authed(s.meHandler.HandleMe, "me"))
	mux.HandleFunc("GET "+Prefix+"/me/sessions", s.authed(s.meHandler.HandleSessions, "me_sessions"))
	mux.HandleFunc("GET "+Prefix+"/me/appointments", s.authed(s.meHandler.HandleAppointments, "me_appointments"))
	mux.HandleFunc("GET "+Prefix+"/me/stats", s.authed(s.meHandler.HandleStats, "me_stats"))
	mux.HandleFunc("GET "+Prefix+"/sessions/{id}", s.authed(s.meHandler.HandleSession, "session"))
}

// authed resolves the caller's identity and rejects anonymous requests with 401.
func (s *Server) authed(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	chain := middleware.Chain(h, middleware.Authenticate(s.svc), middleware.RequireAPIAuth)
	return middleware.MetricsMiddleware(chain.ServeHTTP, endpoint)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
