package broadcast

import (
	"encoding/json"

	"github.com/aaweaver-actuary/chess-training-sub000/internal/domain"
)

// Message types pushed to session listeners.
const (
	// MessageTypeUpdate carries the next card and the fresh statistics
	// after a grade.
	MessageTypeUpdate = "UPDATE"

	// MessageTypeSessionEnd tells listeners the session is over.
	MessageTypeSessionEnd = "SESSION_END"
)

// Message is one push notification delivered to every listener on a
// session. On UPDATE the card is serialized explicitly, null once the
// queue is exhausted.
type Message struct {
	Type      string               `json:"type"`
	Card      *domain.Card         `json:"card,omitempty"`
	Stats     *domain.SessionStats `json:"stats,omitempty"`
	Completed bool                 `json:"completed,omitempty"`
}

// MarshalJSON keeps the UPDATE shape stable: the card field is always
// present, even when nil.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.Type == MessageTypeUpdate {
		type updateMessage struct {
			Type  string               `json:"type"`
			Card  *domain.Card         `json:"card"`
			Stats *domain.SessionStats `json:"stats"`
		}
		return json.Marshal(updateMessage{Type: m.Type, Card: m.Card, Stats: m.Stats})
	}

	type plainMessage Message
	return json.Marshal(plainMessage(m))
}

// NewUpdateMessage builds the UPDATE push sent after a grade.
func NewUpdateMessage(card *domain.Card, stats domain.SessionStats) Message {
	return Message{
		Type:  MessageTypeUpdate,
		Card:  card,
		Stats: &stats,
	}
}

// NewSessionEndMessage builds the terminal push sent when a session ends.
func NewSessionEndMessage() Message {
	return Message{
		Type:      MessageTypeSessionEnd,
		Completed: true,
	}
}
