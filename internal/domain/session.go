package domain

import (
	"errors"
	"math"
)

// Session-specific validation errors
var (
	// ErrSessionIDEmpty is returned when a session ID is empty.
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")

	// ErrSessionUserIDEmpty is returned when a session's user ID is empty.
	ErrSessionUserIDEmpty = errors.New("session user ID cannot be empty")
)

// SessionStats holds the running statistics for one review session.
// Stats are always recomputed whole and replaced atomically; no caller
// partially mutates an existing value.
type SessionStats struct {
	ReviewsToday int     `json:"reviews_today"`
	Accuracy     float64 `json:"accuracy"`
	AvgLatencyMs int     `json:"avg_latency_ms"`
}

// SessionState is the full state of one review session. It is owned
// exclusively by the session store; the controller re-reads it before
// every mutation instead of caching it across operations.
type SessionState struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`

	// Queue is the ordered card sequence, materialized once at creation.
	Queue []Card `json:"queue"`

	// CurrentCard, when present, is the only card a grade may legally
	// target.
	CurrentCard *Card `json:"current_card,omitempty"`

	Stats SessionStats `json:"stats"`

	// TotalLatencyMs is the running sum backing the average latency.
	TotalLatencyMs int64 `json:"total_latency_ms"`
}

// NewSessionState creates session state for a freshly fetched queue.
// The current card is the first queued card, or absent when the queue
// is empty.
func NewSessionState(sessionID, userID string, queue []Card) (*SessionState, error) {
	if sessionID == "" {
		return nil, ErrSessionIDEmpty
	}
	if userID == "" {
		return nil, ErrSessionUserIDEmpty
	}

	state := &SessionState{
		SessionID: sessionID,
		UserID:    userID,
		Queue:     queue,
	}
	if len(queue) > 0 {
		first := queue[0]
		state.CurrentCard = &first
	}
	return state, nil
}

// Clone returns a deep copy of the session state so callers can never
// mutate store-owned data through a shared pointer.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}

	clone := *s
	clone.Queue = append([]Card(nil), s.Queue...)
	if s.CurrentCard != nil {
		card := *s.CurrentCard
		clone.CurrentCard = &card
	}
	return &clone
}

// NextStats folds one graded review into the previous statistics and
// returns the replacement stats along with the new running latency sum.
//
// The previous review count may carry any caller-seeded integer, including
// degenerate values; accuracy is always derived from the reconstructed
// correct count without clamping, and a zero total yields zero accuracy
// and latency rather than NaN.
func NextStats(
	prev SessionStats,
	prevTotalLatencyMs int64,
	grade ReviewGrade,
	latencyMs int64,
) (SessionStats, int64) {
	totalReviews := prev.ReviewsToday + 1
	totalLatency := prevTotalLatencyMs + latencyMs

	correctSoFar := prev.Accuracy * float64(prev.ReviewsToday)
	if grade.Correct() {
		correctSoFar++
	}

	var accuracy float64
	if totalReviews != 0 {
		accuracy = correctSoFar / float64(totalReviews)
	}

	var avgLatency int
	if totalReviews != 0 {
		avgLatency = int(math.Round(float64(totalLatency) / float64(totalReviews)))
	}

	return SessionStats{
		ReviewsToday: totalReviews,
		Accuracy:     accuracy,
		AvgLatencyMs: avgLatency,
	}, totalLatency
}
