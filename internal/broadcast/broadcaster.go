package broadcast

import (
	"log/slog"
	"sync"
)

// Listener is one live, addressable sink receiving push messages for a
// session. Implementations own their transport; Send reports delivery
// failure through its error and must be safe for concurrent use.
type Listener interface {
	Send(msg Message) error
}

// Broadcaster routes session events to every listener registered under a
// session id. It is constructed once per server process and passed by
// handle; registrations live only as long as the underlying connection.
type Broadcaster struct {
	mu        sync.Mutex
	listeners map[string][]Listener
	logger    *slog.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}

	return &Broadcaster{
		listeners: make(map[string][]Listener),
		logger:    logger.With(slog.String("component", "broadcaster")),
	}
}

// Register adds a listener under the session id, creating the group if
// absent.
func (b *Broadcaster) Register(sessionID string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[sessionID] = append(b.listeners[sessionID], l)
	b.logger.Debug("listener registered",
		slog.String("session_id", sessionID),
		slog.Int("listener_count", len(b.listeners[sessionID])))
}

// Unregister removes a listener. The group is dropped entirely once empty
// so unwatched sessions leave no entries behind. Unregistering a listener
// that was never registered is a no-op.
func (b *Broadcaster) Unregister(sessionID string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	group := b.listeners[sessionID]
	for i, registered := range group {
		if registered == l {
			group = append(group[:i], group[i+1:]...)
			break
		}
	}

	if len(group) == 0 {
		delete(b.listeners, sessionID)
	} else {
		b.listeners[sessionID] = group
	}

	b.logger.Debug("listener unregistered",
		slog.String("session_id", sessionID),
		slog.Int("listener_count", len(group)))
}

// Broadcast attempts delivery to every listener currently registered under
// the session id. Per-listener failures are swallowed and never retried;
// broadcasting to an unwatched session is a silent no-op. The listener set
// is snapshotted under the lock and iterated outside it, so registrations
// may change concurrently without racing the delivery loop.
func (b *Broadcaster) Broadcast(sessionID string, msg Message) {
	b.mu.Lock()
	snapshot := append([]Listener(nil), b.listeners[sessionID]...)
	b.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}

	for _, l := range snapshot {
		if err := l.Send(msg); err != nil {
			b.logger.Debug("listener delivery failed",
				slog.String("session_id", sessionID),
				slog.String("message_type", msg.Type),
				slog.String("error", err.Error()))
		}
	}
}

// ListenerCount reports how many listeners are watching the session.
// Intended for tests and observability endpoints.
func (b *Broadcaster) ListenerCount(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[sessionID])
}
