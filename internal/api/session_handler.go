package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/api/shared"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/platform/logger"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/redact"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/service/review_session"
)

// StartSessionRequest is the request body for opening a review session.
type StartSessionRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// StartSessionResponse is the response body for a started session.
type StartSessionResponse struct {
	SessionID string       `json:"session_id"`
	QueueSize int          `json:"queue_size"`
	FirstCard *domain.Card `json:"first_card"`
}

// GradeCardRequest is the request body for grading the session's current card.
type GradeCardRequest struct {
	CardID    string `json:"card_id"    validate:"required"`
	Grade     string `json:"grade"      validate:"required,oneof=Again Hard Good Easy"`
	LatencyMs int64  `json:"latency_ms" validate:"gte=0"`
}

// GradeCardResponse is the response body for a graded review.
type GradeCardResponse struct {
	NextCard *domain.Card        `json:"next_card"`
	Stats    domain.SessionStats `json:"stats"`
}

// SessionHandler handles session lifecycle HTTP requests.
type SessionHandler struct {
	sessionService review_session.SessionService
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	sessionService review_session.SessionService,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /sessions requests.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	result, err := h.sessionService.Start(r.Context(), req.UserID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to start session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("session started",
		slog.String("session_id", result.SessionID),
		slog.String("user_id", req.UserID),
		slog.Int("queue_size", result.QueueSize))
	shared.RespondWithJSON(w, r, http.StatusCreated, StartSessionResponse{
		SessionID: result.SessionID,
		QueueSize: result.QueueSize,
		FirstCard: result.FirstCard,
	})
}

// GradeCard handles POST /sessions/{id}/grade requests.
func (h *SessionHandler) GradeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		log.Warn("session ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return
	}

	var req GradeCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("session_id", sessionID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("session_id", sessionID))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	result, err := h.sessionService.Grade(
		r.Context(),
		sessionID,
		req.CardID,
		domain.ReviewGrade(req.Grade),
		req.LatencyMs,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to grade card"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("card graded",
		slog.String("session_id", sessionID),
		slog.String("card_id", req.CardID),
		slog.String("grade", req.Grade))
	shared.RespondWithJSON(w, r, http.StatusOK, GradeCardResponse{
		NextCard: result.NextCard,
		Stats:    result.Stats,
	})
}

// GetStats handles GET /sessions/{id}/stats requests.
func (h *SessionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		log.Warn("session ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return
	}

	stats, err := h.sessionService.Stats(r.Context(), sessionID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get session stats"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// EndSession handles DELETE /sessions/{id} requests. Ending an unknown or
// already-ended session succeeds, matching the service's idempotent End.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		log.Warn("session ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return
	}

	if err := h.sessionService.End(r.Context(), sessionID); err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to end session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("session ended", slog.String("session_id", sessionID))
	w.WriteHeader(http.StatusNoContent)
}
