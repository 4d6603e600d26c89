package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/net/websocket"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/api/shared"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/broadcast"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/platform/logger"
	"github.com/aaweaver-actuary/chess-training-sub000/internal/service/review_session"
)

// writeTimeout bounds each push so one stalled connection cannot hold the
// delivery loop.
const writeTimeout = 5 * time.Second

// wsListener adapts one WebSocket connection into a broadcast.Listener.
// The mutex serializes writes; the write deadline turns a stalled peer into
// a delivery error the broadcaster swallows.
type wsListener struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	encoder *json.Encoder
}

func newWSListener(conn *websocket.Conn) *wsListener {
	return &wsListener{
		conn:    conn,
		encoder: json.NewEncoder(conn),
	}
}

// Send implements broadcast.Listener.
func (l *wsListener) Send(msg broadcast.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return l.encoder.Encode(msg)
}

// WatchHandler binds one persistent WebSocket connection per session id to
// the broadcaster. Connections for ids that do not resolve to a live
// session are rejected before the upgrade.
type WatchHandler struct {
	sessionService review_session.SessionService
	broadcaster    *broadcast.Broadcaster
	logger         *slog.Logger
}

// NewWatchHandler creates a new WatchHandler.
func NewWatchHandler(
	sessionService review_session.SessionService,
	broadcaster *broadcast.Broadcaster,
	logger *slog.Logger,
) *WatchHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for WatchHandler")
	}

	return &WatchHandler{
		sessionService: sessionService,
		broadcaster:    broadcaster,
		logger:         logger.With(slog.String("component", "watch_handler")),
	}
}

// Watch handles GET /sessions/{id}/watch requests.
func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		log.Warn("watch request without session ID")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Session ID is required")
		return
	}

	// The connection must resolve to a live session before any upgrade.
	if _, err := h.sessionService.Stats(r.Context(), sessionID); err != nil {
		if errors.Is(err, review_session.ErrInvalidSession) {
			log.Warn("watch request for unknown session", slog.String("session_id", sessionID))
			shared.RespondWithError(w, r, http.StatusNotFound, "Invalid session")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to resolve session", err)
		return
	}

	websocket.Handler(func(conn *websocket.Conn) {
		h.serve(conn, sessionID, log)
	}).ServeHTTP(w, r)
}

// serve keeps the connection registered until the peer goes away. The read
// loop exists only to detect disconnects; watchers never send payloads.
func (h *WatchHandler) serve(conn *websocket.Conn, sessionID string, log *slog.Logger) {
	listener := newWSListener(conn)
	h.broadcaster.Register(sessionID, listener)
	defer h.broadcaster.Unregister(sessionID, listener)

	log.Debug("watch connection opened", slog.String("session_id", sessionID))

	var discard string
	for {
		if err := websocket.Message.Receive(conn, &discard); err != nil {
			if err != io.EOF {
				log.Debug("watch connection closed",
					slog.String("session_id", sessionID),
					slog.String("error", err.Error()))
			}
			return
		}
	}
}
