package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/okian/portal/internal/domain/model"
	"github.com/okian/portal/pkg/logger"
)

// MemoryStore is an in-memory Store.
//
// Session lists are kept sorted on insert so reads return them in the order
// the player API promises without sorting.
type MemoryStore struct {
	mu sync.RWMutex

	players      map[string]model.Player
	idByEmail    map[string]string
	sessions     map[string][]model.TrainingSession // player id -> most recent first
	sessionByID  map[string]model.TrainingSession
	appointments map[string][]model.Appointment // player id -> soonest first

	metricsUpdateInterval time.Duration
	stopCh                chan struct{}
	stopOnce              sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. A background goroutine logs the
// record count until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		players:               make(map[string]model.Player),
		idByEmail:             make(map[string]string),
		sessions:              make(map[string][]model.TrainingSession),
		sessionByID:           make(map[string]model.TrainingSession),
		appointments:          make(map[string][]model.Appointment),
		metricsUpdateInterval: time.Minute,
		stopCh:                make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startStatsLogger(ctx)
	return s
}

// Close stops the background logger.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MemoryStore) PutPlayer(_ context.Context, p model.Player) error {
	if p.ID == "" || emailKey(p.Email) == "" {
		return fmt.Errorf("%w: player needs id and email", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := emailKey(p.Email)
	if owner, ok := s.idByEmail[key]; ok && owner != p.ID {
		return fmt.Errorf("%w: %s", ErrEmailTaken, p.Email)
	}
	if old, ok := s.players[p.ID]; ok {
		delete(s.idByEmail, emailKey(old.Email))
	}
	s.players[p.ID] = p
	s.idByEmail[key] = p.ID
	return nil
}

func (s *MemoryStore) PutSession(_ context.Context, ts model.TrainingSession) error {
	if ts.ID == "" || ts.PlayerID == "" {
		return fmt.Errorf("%w: session needs id and player id", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[ts.PlayerID]; !ok {
		return fmt.Errorf("%w: player %s", ErrNotFound, ts.PlayerID)
	}
	if old, ok := s.sessionByID[ts.ID]; ok {
		s.sessions[old.PlayerID] = slices.DeleteFunc(s.sessions[old.PlayerID], func(x model.TrainingSession) bool {
			return x.ID == ts.ID
		})
	}

	list := s.sessions[ts.PlayerID]
	// First index whose start is strictly older keeps equal starts in insertion order.
	i, _ := slices.BinarySearchFunc(list, ts.StartTime, func(x model.TrainingSession, t time.Time) int {
		if x.StartTime.Before(t) {
			return 1
		}
		return -1
	})
	s.sessions[ts.PlayerID] = slices.Insert(list, i, ts)
	s.sessionByID[ts.ID] = ts
	return nil
}

func (s *MemoryStore) PutAppointment(_ context.Context, a model.Appointment) error {
	if a.ID == "" || a.PlayerID == "" {
		return fmt.Errorf("%w: appointment needs id and player id", ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[a.PlayerID]; !ok {
		return fmt.Errorf("%w: player %s", ErrNotFound, a.PlayerID)
	}
	list := slices.DeleteFunc(s.appointments[a.PlayerID], func(x model.Appointment) bool {
		return x.ID == a.ID
	})
	i, _ := slices.BinarySearchFunc(list, a.StartTime, func(x model.Appointment, t time.Time) int {
		if x.StartTime.After(t) {
			return 1
		}
		return -1
	})
	s.appointments[a.PlayerID] = slices.Insert(list, i, a)
	return nil
}

func (s *MemoryStore) Player(_ context.Context, id string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok {
		return model.Player{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) PlayerByEmail(_ context.Context, email string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByEmail[emailKey(email)]
	if !ok {
		return model.Player{}, ErrNotFound
	}
	return s.players[id], nil
}

// Sessions returns an empty list for an unknown player, matching the player API.
func (s *MemoryStore) Sessions(_ context.Context, playerID string) ([]model.TrainingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TrainingSession, len(s.sessions[playerID]))
	copy(out, s.sessions[playerID])
	return out, nil
}

func (s *MemoryStore) Appointments(_ context.Context, playerID string) ([]model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Appointment, len(s.appointments[playerID]))
	copy(out, s.appointments[playerID])
	return out, nil
}

func (s *MemoryStore) Session(_ context.Context, id string) (model.TrainingSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.sessionByID[id]
	if !ok {
		return model.TrainingSession{}, ErrNotFound
	}
	return ts, nil
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

func (s *MemoryStore) sessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessionByID)
}

func (s *MemoryStore) startStatsLogger(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				logger.Get().Debug(ctx, "repository size",
					logger.Int("players", s.Count(ctx)),
					logger.Int("sessions", s.sessionCount()))
			}
		}
	}()
}
