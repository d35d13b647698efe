// Package identity holds the signed-in player for each browser or API client.
//
// A sign-in creates an opaque token bound to one player record. The token is
// what travels in the session cookie or Authorization header; the player
// itself never leaves the process.
package identity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/portal/internal/domain/model"
)

// Store maps sign-in tokens to players.
type Store interface {
	// Create records p and returns a new token for it.
	Create(ctx context.Context, p model.Player) (string, error)

	// Lookup returns the player bound to token.
	Lookup(ctx context.Context, token string) (model.Player, bool)

	// Revoke forgets token. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string)

	Size() int64
}

// entry is a node in the insertion-ordered list; head is the newest.
type entry struct {
	token      string
	player     model.Player
	prev, next *entry
}

func (e *entry) reset() {
	*e = entry{}
}

// inMemoryStore keeps at most maxSize identities. When full, the oldest
// sign-in is evicted to make room for a new one.
// For maxSize <= 0 the store is unbounded.
type inMemoryStore struct {
	mu        sync.RWMutex
	byToken   map[string]*entry
	head      *entry
	tail      *entry
	maxSize   int
	size      atomic.Int64
	entryPool sync.Pool
	newToken  func() string
}

// NewInMemoryStore creates an in-memory identity store.
func NewInMemoryStore(opts ...Option) Store {
	s := &inMemoryStore{
		maxSize:  10000,
		newToken: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.byToken = make(map[string]*entry)
	s.entryPool = sync.Pool{
		New: func() any {
			return &entry{}
		},
	}

	return s
}

func (s *inMemoryStore) Create(ctx context.Context, p model.Player) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.ID == "" {
		return "", ErrEmptyPlayer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.newToken()
	if _, exists := s.byToken[token]; exists {
		return "", ErrTokenCollision
	}

	if s.maxSize > 0 && len(s.byToken) >= s.maxSize {
		s.evictOldest()
	}

	e := s.entryPool.Get().(*entry)
	e.token = token
	e.player = p
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}

	s.byToken[token] = e
	s.size.Add(1)
	return token, nil
}

func (s *inMemoryStore) Lookup(_ context.Context, token string) (model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byToken[token]
	if !ok {
		return model.Player{}, false
	}
	return e.player, true
}

func (s *inMemoryStore) Revoke(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.byToken[token]; ok {
		s.remove(e)
	}
}

// evictOldest drops the tail. Must be called with s.mu held.
func (s *inMemoryStore) evictOldest() {
	if s.tail != nil {
		s.remove(s.tail)
	}
}

// remove unlinks e and returns it to the pool. Must be called with s.mu held.
func (s *inMemoryStore) remove(e *entry) {
	delete(s.byToken, e.token)

	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}

	e.reset()
	s.entryPool.Put(e)
	s.size.Add(-1)
}

func (s *inMemoryStore) Size() int64 {
	return s.size.Load()
}
