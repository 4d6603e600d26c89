package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/api"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/broadcast"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/service/review_session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWatchServer(svc review_session.SessionService, b *broadcast.Broadcaster) *httptest.Server {
	handler := api.NewWatchHandler(svc, b, testLogger())

	r := chi.NewRouter()
	r.Get("/api/sessions/{id}/watch", handler.Watch)
	return httptest.NewServer(r)
}

func dialWatch(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + sessionID + "/watch"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	return conn
}

func waitForListener(t *testing.T, b *broadcast.Broadcaster, sessionID string, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ListenerCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d listeners on %s, have %d", want, sessionID, b.ListenerCount(sessionID))
}

func TestWatchRejectsUnknownSession(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	svc.On("Stats", mock.Anything, "no-such-session").
		Return(nil, review_session.ErrInvalidSession).Once()

	srv := newWatchServer(svc, broadcast.NewBroadcaster(nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/no-such-session/watch")
	require.NoError(t, err)
	defer func() { require.NoError(t, resp.Body.Close()) }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode,
		"a connection attempt without a resolvable session must be rejected")
}

func TestWatchReceivesBroadcasts(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	svc.On("Stats", mock.Anything, "session-1").
		Return(&domain.SessionStats{}, nil)

	b := broadcast.NewBroadcaster(nil)
	srv := newWatchServer(svc, b)
	defer srv.Close()

	conn := dialWatch(t, srv, "session-1")
	defer func() { _ = conn.Close() }()

	waitForListener(t, b, "session-1", 1)

	card := &domain.Card{CardID: "cardB", Kind: domain.CardKindTactic, PositionFEN: "fen-b", Prompt: "b"}
	b.Broadcast("session-1", broadcast.NewUpdateMessage(card,
		domain.SessionStats{ReviewsToday: 1, Accuracy: 1, AvgLatencyMs: 2100}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var raw string
	require.NoError(t, websocket.Message.Receive(conn, &raw))

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	assert.Equal(t, "UPDATE", msg["type"])
	assert.Equal(t, "cardB", msg["card"].(map[string]interface{})["card_id"])
	assert.Equal(t, float64(1), msg["stats"].(map[string]interface{})["reviews_today"])
}

func TestWatchUnregistersOnDisconnect(t *testing.T) {
	t.Parallel()

	svc := new(MockSessionService)
	svc.On("Stats", mock.Anything, "session-1").
		Return(&domain.SessionStats{}, nil)

	b := broadcast.NewBroadcaster(nil)
	srv := newWatchServer(svc, b)
	defer srv.Close()

	conn := dialWatch(t, srv, "session-1")
	waitForListener(t, b, "session-1", 1)

	require.NoError(t, conn.Close())
	waitForListener(t, b, "session-1", 0)
}
