// Package service provides the portal's business operations on top of the
// player API: sign-in, the home dashboard, session detail and statistics.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/okian/portal/internal/adapters/playerapi"
	"github.com/okian/portal/internal/domain/identity"
	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/internal/domain/sessionstats"
	"github.com/okian/portal/internal/domain/types"
	"github.com/okian/portal/pkg/logger"
	"github.com/okian/portal/pkg/metrics"
)

// PlayerAPI is the subset of the player API the service reads from.
// Sessions must come back most recent first.
type PlayerAPI interface {
	PlayerByEmail(ctx context.Context, email string) (model.Player, error)
	Sessions(ctx context.Context, playerID string) ([]model.TrainingSession, error)
	Appointments(ctx context.Context, playerID string) ([]model.Appointment, error)
	Session(ctx context.Context, sessionID string) (model.TrainingSession, error)
}

// Dashboard is everything the home page shows.
type Dashboard struct {
	Player       model.Player            `json:"player"`
	Sessions     []model.TrainingSession `json:"sessions"`
	Appointments []model.Appointment     `json:"appointments"`
}

// Service implements the portal operations used by the HTTP adapters.
type Service struct {
	mu sync.RWMutex

	api        PlayerAPI
	identities identity.Store

	maxIdentities int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPlayerAPI sets the player API client.
func WithPlayerAPI(api PlayerAPI) Option {
	return func(s *Service) {
		if api != nil {
			s.api = api
		}
	}
}

// WithIdentityStore replaces the in-memory identity store built by Start.
func WithIdentityStore(store identity.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.identities = store
		}
	}
}

// WithMaxIdentities bounds the default identity store. Values <= 0 leave it unbounded.
func WithMaxIdentities(n int) Option {
	return func(s *Service) {
		s.maxIdentities = n
	}
}

// New constructs a Service. Start must be called before use.
func New(opts ...Option) *Service {
	s := &Service{
		maxIdentities: 10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the identity store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.api == nil {
		return ErrNoPlayerAPI
	}
	if s.identities == nil {
		s.identities = identity.NewInMemoryStore(identity.WithMaxSize(s.maxIdentities))
	}

	s.started = true
	s.logger.Info(ctx, "portal service started", logger.Int("maxIdentities", s.maxIdentities))
	return nil
}

// Stop marks the service stopped. Identities are kept so a restart resumes them.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "portal service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// SignIn looks the email up in the player API and issues an identity token.
func (s *Service) SignIn(ctx context.Context, email string) (string, model.Player, error) {
	if err := s.ready(); err != nil {
		return "", model.Player{}, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		metrics.RecordSignIn(metrics.SignInUnknownEmail)
		return "", model.Player{}, ErrInvalidEmail
	}

	p, err := s.api.PlayerByEmail(ctx, email)
	switch {
	case errors.Is(err, playerapi.ErrNotFound):
		metrics.RecordSignIn(metrics.SignInUnknownEmail)
		s.logger.Info(ctx, "sign-in for unregistered email")
		return "", model.Player{}, ErrPlayerNotFound
	case err != nil:
		metrics.RecordSignIn(metrics.SignInError)
		s.logger.Error(ctx, "sign-in lookup failed", logger.Error(err))
		return "", model.Player{}, fmt.Errorf("sign in: %w", err)
	}

	token, err := s.identities.Create(ctx, p)
	if err != nil {
		metrics.RecordSignIn(metrics.SignInError)
		return "", model.Player{}, fmt.Errorf("sign in: %w", err)
	}

	metrics.RecordSignIn(metrics.SignInSuccess)
	metrics.UpdateActiveIdentities(s.identities.Size())
	s.logger.Info(ctx, "player signed in",
		logger.String("playerId", p.ID),
		logger.Int64("identities", s.identities.Size()))
	return token, p, nil
}

// SignOut revokes token. Unknown tokens are ignored.
func (s *Service) SignOut(ctx context.Context, token string) {
	if s.ready() != nil || token == "" {
		return
	}
	s.identities.Revoke(ctx, token)
	metrics.RecordSignOut()
	metrics.UpdateActiveIdentities(s.identities.Size())
}

// Identify resolves a token to its signed-in player.
func (s *Service) Identify(ctx context.Context, token string) (model.Player, error) {
	if err := s.ready(); err != nil {
		return model.Player{}, err
	}
	if token == "" {
		return model.Player{}, ErrNotSignedIn
	}
	p, ok := s.identities.Lookup(ctx, token)
	if !ok {
		return model.Player{}, ErrNotSignedIn
	}
	return p, nil
}

// Dashboard fetches sessions and appointments for p concurrently.
func (s *Service) Dashboard(ctx context.Context, p model.Player) (Dashboard, error) {
	if err := s.ready(); err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{Player: p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions, err := s.api.Sessions(gctx, p.ID)
		if err != nil {
			return fmt.Errorf("sessions: %w", err)
		}
		d.Sessions = sessions
		return nil
	})
	g.Go(func() error {
		appts, err := s.api.Appointments(gctx, p.ID)
		if err != nil {
			return fmt.Errorf("appointments: %w", err)
		}
		d.Appointments = appts
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error(ctx, "dashboard fetch failed", logger.String("playerId", p.ID), logger.Error(err))
		return Dashboard{}, err
	}
	return d, nil
}

// Sessions returns p's sessions, most recent first.
func (s *Service) Sessions(ctx context.Context, p model.Player) ([]model.TrainingSession, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.api.Sessions(ctx, p.ID)
}

// Appointments returns p's upcoming appointments, soonest first.
func (s *Service) Appointments(ctx context.Context, p model.Player) ([]model.Appointment, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.api.Appointments(ctx, p.ID)
}

// Session returns one of p's sessions.
func (s *Service) Session(ctx context.Context, p model.Player, sessionID string) (model.TrainingSession, error) {
	if err := s.ready(); err != nil {
		return model.TrainingSession{}, err
	}

	ts, err := s.api.Session(ctx, sessionID)
	switch {
	case errors.Is(err, playerapi.ErrNotFound), errors.Is(err, playerapi.ErrInvalidArgument):
		return model.TrainingSession{}, ErrSessionNotFound
	case err != nil:
		return model.TrainingSession{}, fmt.Errorf("session %s: %w", sessionID, err)
	}
	if ts.PlayerID != "" && ts.PlayerID != p.ID {
		s.logger.Warn(ctx, "session requested by another player",
			logger.String("sessionId", sessionID),
			logger.String("playerId", p.ID))
		return model.TrainingSession{}, ErrSessionNotFound
	}
	return ts, nil
}

// Stats derives p's metrics and stat cards from the full session history.
func (s *Service) Stats(ctx context.Context, p model.Player) (sessionstats.DerivedMetrics, []types.StatCard, error) {
	sessions, err := s.Sessions(ctx, p)
	if err != nil {
		return sessionstats.DerivedMetrics{}, nil, fmt.Errorf("stats: %w", err)
	}

	m := sessionstats.Compute(sessions)
	metrics.RecordMetricsComputation(len(sessions), m.PerformanceTrend.Label, m.Consistency.Label)
	s.logger.Debug(ctx, "computed session metrics",
		logger.String("playerId", p.ID),
		logger.Int("sessions", m.TotalSessions),
		logger.Float64("trainingHours", m.TotalTrainingHours),
		logger.String("trend", m.PerformanceTrend.Label),
		logger.String("consistency", m.Consistency.Label))
	return m, sessionstats.Cards(m), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"maxIdentities": s.maxIdentities,
	}
	if s.identities != nil {
		n := s.identities.Size()
		stats["identities"] = n
		metrics.UpdateActiveIdentities(n)
	}
	if b, ok := s.api.(interface{ BaseURL() string }); ok {
		stats["playerApi"] = b.BaseURL()
	}
	return stats
}
