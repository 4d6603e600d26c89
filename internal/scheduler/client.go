package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
)

// Common error kinds for scheduler clients. The controller must always be
// able to tell scheduler trouble apart from client mistakes, so these are
// never mapped onto session errors.
var (
	// ErrSchedulerUnavailable indicates the engine could not be reached at
	// the transport level (connection refused, timeout, DNS failure).
	ErrSchedulerUnavailable = errors.New("scheduler unavailable")

	// ErrSchedulerError indicates the engine was reached but returned a
	// non-success response.
	ErrSchedulerError = errors.New("scheduler error")
)

// GradeRequest is the grade submission accepted by the engine.
type GradeRequest struct {
	SessionID string             `json:"session_id"`
	CardID    string             `json:"card_id"`
	Grade     domain.ReviewGrade `json:"grade"`
	LatencyMs int64              `json:"latency_ms"`
}

// Client is the abstraction over the external scheduling engine.
type Client interface {
	// FetchQueue returns the ordered card sequence the engine wants the
	// user to review next. An empty queue is a valid result, not an error.
	FetchQueue(ctx context.Context, userID string) ([]domain.Card, error)

	// GradeCard submits one graded review and returns the next card to
	// study. A nil card signals queue exhaustion. Engine failures surface
	// as ErrSchedulerUnavailable or ErrSchedulerError, never as nil-nil.
	GradeCard(ctx context.Context, req GradeRequest) (*domain.Card, error)
}

// StatusError carries the diagnostics of a non-success engine response.
// It wraps ErrSchedulerError so callers can branch with errors.Is and still
// reach the status and body for logging.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

// Error implements the error interface for StatusError.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: scheduler returned status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Unwrap returns ErrSchedulerError to support errors.Is.
func (e *StatusError) Unwrap() error {
	return ErrSchedulerError
}
