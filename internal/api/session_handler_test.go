package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/api"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/scheduler"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/service/review_session"
)

// MockSessionService is a mock implementation of the SessionService interface
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Start(ctx context.Context, userID string) (*review_session.StartResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review_session.StartResult), args.Error(1)
}

func (m *MockSessionService) Grade(
	ctx context.Context,
	sessionID, cardID string,
	grade domain.ReviewGrade,
	latencyMs int64,
) (*review_session.GradeResult, error) {
	args := m.Called(ctx, sessionID, cardID, grade, latencyMs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review_session.GradeResult), args.Error(1)
}

func (m *MockSessionService) Stats(ctx context.Context, sessionID string) (*domain.SessionStats, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionStats), args.Error(1)
}

func (m *MockSessionService) End(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func newSessionRouter(svc review_session.SessionService) http.Handler {
	handler := api.NewSessionHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Post("/api/sessions", handler.StartSession)
	r.Post("/api/sessions/{id}/grade", handler.GradeCard)
	r.Get("/api/sessions/{id}/stats", handler.GetStats)
	r.Delete("/api/sessions/{id}", handler.EndSession)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStartSessionHandler(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	firstCard := &domain.Card{CardID: "cardA", Kind: domain.CardKindOpening, PositionFEN: "fen-a", Prompt: "a"}
	svc.On("Start", mock.Anything, "andy").Return(&review_session.StartResult{
		SessionID: "session-1",
		QueueSize: 2,
		FirstCard: firstCard,
	}, nil).Once()

	rec := doJSON(t, newSessionRouter(svc), http.MethodPost, "/api/sessions", `{"user_id":"andy"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.StartSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-1", resp.SessionID)
	assert.Equal(t, 2, resp.QueueSize)
	require.NotNil(t, resp.FirstCard)
	assert.Equal(t, "cardA", resp.FirstCard.CardID)
	svc.AssertExpectations(t)
}

func TestStartSessionHandlerRejectsMissingUserID(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	rec := doJSON(t, newSessionRouter(svc), http.MethodPost, "/api/sessions", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestStartSessionHandlerRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	rec := doJSON(t, newSessionRouter(svc), http.MethodPost, "/api/sessions", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Start", mock.Anything, mock.Anything)
}

func TestGradeCardHandler(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	next := &domain.Card{CardID: "cardB", Kind: domain.CardKindTactic, PositionFEN: "fen-b", Prompt: "b"}
	svc.On("Grade", mock.Anything, "session-1", "cardA", domain.ReviewGradeGood, int64(2100)).
		Return(&review_session.GradeResult{
			NextCard: next,
			Stats:    domain.SessionStats{ReviewsToday: 1, Accuracy: 1, AvgLatencyMs: 2100},
		}, nil).Once()

	rec := doJSON(t, newSessionRouter(svc), http.MethodPost, "/api/sessions/session-1/grade",
		`{"card_id":"cardA","grade":"Good","latency_ms":2100}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.GradeCardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.NextCard)
	assert.Equal(t, "cardB", resp.NextCard.CardID)
	assert.Equal(t, 1, resp.Stats.ReviewsToday)
	svc.AssertExpectations(t)
}

func TestGradeCardHandlerValidatesGrade(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	rec := doJSON(t, newSessionRouter(svc), http.MethodPost, "/api/sessions/session-1/grade",
		`{"card_id":"cardA","grade":"Perfect","latency_ms":100}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Grade",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGradeCardHandlerInvalidSession(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	svc.On("Grade", mock.Anything, "session-1", "cardA", domain.ReviewGradeGood, int64(100)).
		Return(nil, review_session.ErrInvalidSession).Once()

	rec := doJSON(t, newSessionRouter(svc), http.MethodPost, "/api/sessions/session-1/grade",
		`{"card_id":"cardA","grade":"Good","latency_ms":100}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid session", resp["error"])
}

func TestGradeCardHandlerSchedulerTrouble(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	svc.On("Grade", mock.Anything, "session-1", "cardA", domain.ReviewGradeGood, int64(100)).
		Return(nil, scheduler.ErrSchedulerUnavailable).Once()

	rec := doJSON(t, newSessionRouter(svc), http.MethodPost, "/api/sessions/session-1/grade",
		`{"card_id":"cardA","grade":"Good","latency_ms":100}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code,
		"scheduler trouble is a server-class error, not a client error")
}

func TestGetStatsHandler(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	svc.On("Stats", mock.Anything, "session-1").
		Return(&domain.SessionStats{ReviewsToday: 2, Accuracy: 0.5, AvgLatencyMs: 1500}, nil).Once()

	rec := doJSON(t, newSessionRouter(svc), http.MethodGet, "/api/sessions/session-1/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reviews_today":2,"accuracy":0.5,"avg_latency_ms":1500}`, rec.Body.String())
}

func TestGetStatsHandlerUnknownSession(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	svc.On("Stats", mock.Anything, "no-such-session").
		Return(nil, review_session.ErrInvalidSession).Once()

	rec := doJSON(t, newSessionRouter(svc), http.MethodGet, "/api/sessions/no-such-session/stats", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndSessionHandler(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	svc.On("End", mock.Anything, "session-1").Return(nil).Twice()

	router := newSessionRouter(svc)
	rec := doJSON(t, router, http.MethodDelete, "/api/sessions/session-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Idempotent: a second delete succeeds the same way.
	rec = doJSON(t, router, http.MethodDelete, "/api/sessions/session-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
