// Package site renders the player portal as server-side HTML pages.
package site

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/okian/portal/internal/adapters/http/middleware"
	service "github.com/okian/portal/internal/app"
	"github.com/okian/portal/internal/domain/identity"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
	"github.com/okian/portal/pkg/metrics"
)

// Service is the portal behaviour the pages need. *service.Service satisfies it.
type Service interface {
	middleware.Identifier

	SignIn(ctx context.Context, email string) (string, model.Player, error)
	SignOut(ctx context.Context, token string)
	Dashboard(ctx context.Context, p model.Player) (service.Dashboard, error)
	Session(ctx context.Context, p model.Player, sessionID string) (model.TrainingSession, error)
	Stats(ctx context.Context, p model.Player) (sessionstats.DerivedMetrics, []types.StatCard, error)
}

var _ Service = (*service.Service)(nil)

// Handler serves the HTML pages.
type Handler struct {
	svc           Service
	csrfKey       []byte
	secureCookies bool
	limiter       *middleware.RateLimiter
	loc           *time.Location
	log           logger.Logger

	pages map[string]*template.Template
	about template.HTML
}

// Option configures a Handler.
type Option func(*Handler)

// WithCSRFKey sets the 32 byte key that signs CSRF tokens.
func WithCSRFKey(key []byte) Option {
	return func(h *Handler) {
		h.csrfKey = key
	}
}

// WithSecureCookies marks the session and CSRF cookies Secure.
func WithSecureCookies(secure bool) Option {
	return func(h *Handler) {
		h.secureCookies = secure
	}
}

// WithSignInLimiter throttles sign-in form posts per client IP.
func WithSignInLimiter(l *middleware.RateLimiter) Option {
	return func(h *Handler) {
		h.limiter = l
	}
}

// WithLocation sets the time zone dates are shown in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		if loc != nil {
			h.loc = loc
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// New parses the embedded templates and returns a ready Handler.
func New(svc Service, opts ...Option) (*Handler, error) {
	if svc == nil {
		return nil, ErrService
	}
	h := &Handler{svc: svc, loc: time.Local}
	for _, opt := range opts {
		opt(h)
	}
	if len(h.csrfKey) != 32 {
		return nil, ErrCSRFKey
	}
	if h.log == nil {
		h.log = logger.Named("site")
	}
	if err := h.parsePages(); err != nil {
		return nil, err
	}
	return h, nil
}

// Register attaches the page routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	csrfFailed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, http.StatusForbidden, pageError, pageData{Title: "Error", Error: msgFormExpired})
	})
	base := []func(http.Handler) http.Handler{
		middleware.SecurityHeaders,
		middleware.CSRF(h.csrfKey, h.secureCookies, csrfFailed),
		middleware.Authenticate(h.svc),
	}
	open := func(fn http.HandlerFunc, endpoint string) http.HandlerFunc {
		return middleware.MetricsMiddleware(middleware.Chain(fn, base...).ServeHTTP, endpoint)
	}
	authed := func(fn http.HandlerFunc, endpoint string) http.HandlerFunc {
		mws := append(base[:len(base):len(base)], middleware.RequireAuth)
		return middleware.MetricsMiddleware(middleware.Chain(fn, mws...).ServeHTTP, endpoint)
	}

	mux.HandleFunc("GET /{$}", open(h.handleSignInPage, "site_signin"))
	mux.HandleFunc("POST /signin", open(h.handleSignIn, "site_signin_post"))
	mux.HandleFunc("POST /signout", open(h.handleSignOut, "site_signout"))

	mux.HandleFunc("GET /home", authed(h.handleHome, "site_home"))
	mux.HandleFunc("GET /sessions/{id}", authed(h.handleSession, "site_session"))
	mux.HandleFunc("GET /profile", authed(h.handleProfile, "site_profile"))
	mux.HandleFunc("GET /about", authed(h.handleAbout, "site_about"))
	mux.HandleFunc("GET /stats", authed(h.handleStats, "site_stats"))

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// handleSignInPage handles GET /. Signed-in players go straight home.
func (h *Handler) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := signedIn(r); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, pageSignIn, pageData{Title: "Sign In"})
}

type signInPage struct {
	Email string
}

// handleSignIn handles POST /signin.
func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	fail := func(status int, msg string) {
		h.render(w, r, status, pageSignIn, pageData{Title: "Sign In", Error: msg, Page: signInPage{Email: email}})
	}

	if h.limiter != nil && !h.limiter.AllowRequest(r) {
		metrics.RecordSignIn(metrics.SignInThrottled)
		fail(http.StatusTooManyRequests, msgThrottled)
		return
	}

	token, _, err := h.svc.SignIn(r.Context(), email)
	switch {
	case errors.Is(err, service.ErrPlayerNotFound), errors.Is(err, service.ErrInvalidEmail):
		fail(http.StatusUnauthorized, msgNotRegistered)
		return
	case err != nil:
		h.log.Error(r.Context(), "sign-in failed", logger.Error(err))
		fail(http.StatusBadGateway, msgWentWrong)
		return
	}

	middleware.SetSessionCookie(w, token, h.secureCookies)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// handleSignOut handles POST /signout.
func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	h.svc.SignOut(r.Context(), middleware.TokenFromRequest(r))
	middleware.ClearSessionCookie(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	p, _ := signedIn(r)
	d, err := h.svc.Dashboard(r.Context(), p)
	if err != nil {
		h.failed(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageHome, pageData{Title: "Home", Nav: "home", Page: d})
}

type sessionPage struct {
	Session  model.TrainingSession
	NotFound bool
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	p, _ := signedIn(r)
	ts, err := h.svc.Session(r.Context(), p, r.PathValue("id"))
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		h.render(w, r, http.StatusNotFound, pageSession, pageData{Title: "Training Session", Nav: "home", Page: sessionPage{NotFound: true}})
		return
	case err != nil:
		h.failed(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageSession, pageData{Title: "Training Session", Nav: "home", Page: sessionPage{Session: ts}})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageProfile, pageData{Title: "Profile", Nav: "profile"})
}

func (h *Handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageAbout, pageData{Title: "About TOCA", Nav: "about", Page: h.about})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	p, _ := signedIn(r)
	_, cards, err := h.svc.Stats(r.Context(), p)
	if err != nil {
		h.failed(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageStats, pageData{Title: "Statistics", Nav: "stats", Page: cards})
}

// failed renders the generic error page for an upstream or service failure.
func (h *Handler) failed(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error(r.Context(), "page data fetch failed", logger.String("path", r.URL.Path), logger.Error(err))
	h.render(w, r, http.StatusBadGateway, pageError, pageData{Title: "Error", Error: msgWentWrong})
}

func signedIn(r *http.Request) (model.Player, bool) {
	return identity.PlayerFromContext(r.Context())
}
