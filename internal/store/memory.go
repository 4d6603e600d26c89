package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
)

// Verify interface compliance at compile time
var _ SessionStore = (*MemorySessionStore)(nil)

// MemorySessionStore is the in-memory reference implementation of
// SessionStore. A single mutex linearizes all mutations, which satisfies
// the per-key serialization the contract requires.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.SessionState
	logger   *slog.Logger
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore(logger *slog.Logger) *MemorySessionStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &MemorySessionStore{
		sessions: make(map[string]*domain.SessionState),
		logger:   logger.With(slog.String("component", "memory_session_store")),
	}
}

// Create implements SessionStore.Create.
func (s *MemorySessionStore) Create(ctx context.Context, id string, state *domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; exists {
		s.logger.Warn("overwriting existing session state", slog.String("session_id", id))
	}
	s.sessions[id] = state.Clone()
	return nil
}

// Get implements SessionStore.Get. The caller receives a deep copy.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*domain.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return state.Clone(), nil
}

// Update implements SessionStore.Update. The updater runs on a copy under
// the lock; the copy replaces the stored state only when the updater
// succeeds, so a failed update leaves no partial mutation behind.
func (s *MemorySessionStore) Update(
	ctx context.Context,
	id string,
	updater func(*domain.SessionState) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	next := current.Clone()
	if err := updater(next); err != nil {
		return err
	}

	s.sessions[id] = next
	return nil
}

// Delete implements SessionStore.Delete.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions. Intended for tests and
// observability endpoints.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
