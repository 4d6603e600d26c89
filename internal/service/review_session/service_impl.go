package review_session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/broadcast"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/platform/logger"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/scheduler"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/store"
)

// Verify interface compliance at compile time
var _ SessionService = (*sessionServiceImpl)(nil)

// sessionServiceImpl implements the SessionService interface.
type sessionServiceImpl struct {
	sessions    store.SessionStore
	scheduler   scheduler.Client
	broadcaster *broadcast.Broadcaster
	logger      *slog.Logger
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(
	sessions store.SessionStore,
	schedulerClient scheduler.Client,
	broadcaster *broadcast.Broadcaster,
	logger *slog.Logger,
) SessionService {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if schedulerClient == nil {
		panic("schedulerClient cannot be nil")
	}
	if broadcaster == nil {
		panic("broadcaster cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &sessionServiceImpl{
		sessions:    sessions,
		scheduler:   schedulerClient,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "session_service")),
	}
}

// Start implements SessionService.Start.
func (s *sessionServiceImpl) Start(ctx context.Context, userID string) (*StartResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == "" {
		return nil, NewStartError("user id is required", domain.ErrSessionUserIDEmpty)
	}

	log.Debug("starting review session", slog.String("user_id", userID))

	queue, err := s.scheduler.FetchQueue(ctx, userID)
	if err != nil {
		log.Error("failed to fetch review queue",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to fetch review queue: %w", err)
	}

	sessionID := uuid.NewString()
	state, err := domain.NewSessionState(sessionID, userID, queue)
	if err != nil {
		return nil, NewStartError("failed to build session state", err)
	}

	if err := s.sessions.Create(ctx, sessionID, state); err != nil {
		log.Error("failed to persist session state",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return nil, fmt.Errorf("failed to persist session state: %w", err)
	}

	log.Debug("review session started",
		slog.String("session_id", sessionID),
		slog.String("user_id", userID),
		slog.Int("queue_size", len(queue)))

	return &StartResult{
		SessionID: sessionID,
		QueueSize: len(queue),
		FirstCard: state.CurrentCard,
	}, nil
}

// Grade implements SessionService.Grade.
func (s *sessionServiceImpl) Grade(
	ctx context.Context,
	sessionID, cardID string,
	grade domain.ReviewGrade,
	latencyMs int64,
) (*GradeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing grade",
		slog.String("session_id", sessionID),
		slog.String("card_id", cardID),
		slog.String("grade", string(grade)))

	if !grade.Valid() {
		return nil, ErrInvalidGrade
	}

	// Re-read current state; the service never caches it across operations.
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("grade for unknown session", slog.String("session_id", sessionID))
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	// A stale or replayed grade must never corrupt statistics.
	if state.CurrentCard == nil || state.CurrentCard.CardID != cardID {
		log.Warn("grade does not target the current card",
			slog.String("session_id", sessionID),
			slog.String("card_id", cardID))
		return nil, ErrInvalidSession
	}

	nextCard, err := s.scheduler.GradeCard(ctx, scheduler.GradeRequest{
		SessionID: sessionID,
		CardID:    cardID,
		Grade:     grade,
		LatencyMs: latencyMs,
	})
	if err != nil {
		// Scheduler trouble is infrastructure trouble, not a client error.
		// It propagates distinctly and nothing has been mutated yet.
		log.Error("scheduler grade submission failed",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID),
			slog.String("card_id", cardID))
		return nil, fmt.Errorf("failed to submit grade to scheduler: %w", err)
	}

	var freshStats domain.SessionStats
	err = s.sessions.Update(ctx, sessionID, func(st *domain.SessionState) error {
		// The session may have been ended or advanced between the read and
		// this update; a grade that no longer targets the current card
		// fails instead of resurrecting or corrupting state.
		if st.CurrentCard == nil || st.CurrentCard.CardID != cardID {
			return ErrInvalidSession
		}

		st.Stats, st.TotalLatencyMs = domain.NextStats(st.Stats, st.TotalLatencyMs, grade, latencyMs)
		st.CurrentCard = nextCard
		freshStats = st.Stats
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) || errors.Is(err, ErrInvalidSession) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to update session state: %w", err)
	}

	// Fire-and-forget: listener failures never fail a grade.
	s.broadcaster.Broadcast(sessionID, broadcast.NewUpdateMessage(nextCard, freshStats))

	log.Debug("grade processed",
		slog.String("session_id", sessionID),
		slog.String("card_id", cardID),
		slog.Int("reviews_today", freshStats.ReviewsToday),
		slog.Float64("accuracy", freshStats.Accuracy),
		slog.Bool("queue_exhausted", nextCard == nil))

	return &GradeResult{NextCard: nextCard, Stats: freshStats}, nil
}

// Stats implements SessionService.Stats.
func (s *sessionServiceImpl) Stats(ctx context.Context, sessionID string) (*domain.SessionStats, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}

	stats := state.Stats
	return &stats, nil
}

// End implements SessionService.End.
func (s *sessionServiceImpl) End(ctx context.Context, sessionID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		log.Error("failed to delete session state",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID))
		return fmt.Errorf("failed to delete session state: %w", err)
	}

	s.broadcaster.Broadcast(sessionID, broadcast.NewSessionEndMessage())

	log.Debug("review session ended", slog.String("session_id", sessionID))
	return nil
}
