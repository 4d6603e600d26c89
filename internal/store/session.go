package store

import (
	"context"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
)

// SessionStore defines the persistence contract for session state.
// There is at most one logical owner per session id; callers never hold
// state across operations, they re-read through the store instead.
type SessionStore interface {
	// Create inserts session state under the given id. A collision
	// overwrites silently: id uniqueness is guaranteed upstream by id
	// generation, not enforced here.
	Create(ctx context.Context, id string, state *domain.SessionState) error

	// Get returns the current state for the id, or ErrSessionNotFound when
	// no such session exists. The returned state is a private copy; mutating
	// it never affects the stored state.
	Get(ctx context.Context, id string) (*domain.SessionState, error)

	// Update applies the updater to the current state and persists the
	// result as one atomic unit. Concurrent updates to the same id
	// serialize; no caller ever observes a partial update. Returns
	// ErrSessionNotFound when no state exists, and aborts without mutating
	// anything when the updater returns an error.
	Update(ctx context.Context, id string, updater func(*domain.SessionState) error) error

	// Delete removes the session unconditionally. Deleting an unknown id
	// is a no-op; Delete is idempotent.
	Delete(ctx context.Context, id string) error
}
