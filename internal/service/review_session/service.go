package review_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
)

// StartResult is returned when a review session is opened.
type StartResult struct {
	SessionID string       `json:"session_id"`
	QueueSize int          `json:"queue_size"`
	FirstCard *domain.Card `json:"first_card"`
}

// GradeResult is returned after one graded review.
type GradeResult struct {
	NextCard *domain.Card        `json:"next_card"`
	Stats    domain.SessionStats `json:"stats"`
}

// SessionService orchestrates the review session lifecycle: it composes the
// session store, the scheduler client and the broadcaster into the
// start/grade/stats/end operations and owns the statistics algorithm.
type SessionService interface {
	// Start opens a new session for the user: it fetches the review queue
	// from the scheduling engine, materializes session state in the store
	// and returns the first card. An empty queue still yields an active
	// session, just with no current card.
	Start(ctx context.Context, userID string) (*StartResult, error)

	// Grade applies one graded review. The card id must match the
	// session's current card, otherwise the grade fails with
	// ErrInvalidSession and stored state is left untouched. Scheduler
	// failures propagate distinctly and never mutate the store. On
	// success the fresh stats and next card are pushed to every listener
	// watching the session.
	Grade(
		ctx context.Context,
		sessionID, cardID string,
		grade domain.ReviewGrade,
		latencyMs int64,
	) (*GradeResult, error)

	// Stats returns the session's current statistics. It is side-effect
	// free and fails with ErrInvalidSession for unknown sessions.
	Stats(ctx context.Context, sessionID string) (*domain.SessionStats, error)

	// End deletes the session and tells every listener it is over. End is
	// idempotent: ending an unknown or already-ended session is not an
	// error. Afterwards Grade and Stats behave as if the session never
	// existed.
	End(ctx context.Context, sessionID string) error
}

// Common error types for SessionService
var (
	// ErrInvalidSession indicates an unknown session id, an absent current
	// card, or a grade targeting a card that is not the session's current
	// card. It is client-correctable and never retried internally.
	ErrInvalidSession = errors.New("invalid session")

	// ErrInvalidGrade indicates a grade value outside the known set.
	ErrInvalidGrade = errors.New("invalid grade")
)

// ServiceError wraps errors from the session service with additional context.
// Consumers differentiate error types with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start", "grade")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStartError returns a new ServiceError for the start operation.
func NewStartError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "start", Message: message, Err: err}
}

// NewGradeError returns a new ServiceError for the grade operation.
func NewGradeError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "grade", Message: message, Err: err}
}
