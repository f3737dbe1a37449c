package relay

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types relayed to downstream consumers.
const (
	TypeRoomCreated  = "room.created"
	TypeRoomClosed   = "room.closed"
	TypePlayerJoined = "player.joined"
	TypePlayerLeft   = "player.left"
	TypeGameUpdated  = "game.updated"
)

// Event is the envelope handed to the sink. Payload is event-specific
// JSON, already marshaled so enqueueing never re-encodes.
type Event struct {
	ID        uuid.UUID       `json:"eventId"`
	Type      string          `json:"eventType"`
	RoomCode  string          `json:"roomCode"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEvent wraps a payload in a relay envelope with a fresh event id.
func NewEvent(eventType, roomCode string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		RoomCode:  roomCode,
		Timestamp: time.Now().UTC(),
		Payload:   data,
	}, nil
}
