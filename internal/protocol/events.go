package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Client → server event types.
const (
	TypeCreateRoom            = "CREATE_ROOM"
	TypeJoinRoom              = "JOIN_ROOM"
	TypeUpdateLife            = "UPDATE_LIFE"
	TypeUpdateCommanderDamage = "UPDATE_COMMANDER_DAMAGE"
	TypeUpdateName            = "UPDATE_NAME"
	TypeResetGame             = "RESET_GAME"
)

// ErrUnknownType reports a syntactically valid frame whose type field
// names no known event. Callers log and ignore these instead of
// replying with an error.
var ErrUnknownType = errors.New("unknown event type")

// ClientEvent is the closed set of inbound events. Adding a variant
// means adding a case to every switch over this interface, which is the
// point: a new event kind is a compile-visible change, not a stringly
// dispatch entry.
type ClientEvent interface {
	clientEvent()
}

// CreateRoom opens a fresh room with the sender as its first player.
type CreateRoom struct{}

// JoinRoom adds the sender to an existing room.
type JoinRoom struct {
	RoomCode string `json:"roomCode"`
}

// UpdateLife sets a player's life total to an absolute value.
type UpdateLife struct {
	PlayerID string `json:"playerId"`
	Life     int    `json:"life"`
}

// UpdateCommanderDamage sets the cumulative commander damage the target
// has taken from the source. The target's life moves by the delta.
type UpdateCommanderDamage struct {
	SourcePlayerID string `json:"sourcePlayerId"`
	TargetPlayerID string `json:"targetPlayerId"`
	Damage         int    `json:"damage"`
}

// UpdateName replaces a player's display name verbatim.
type UpdateName struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// ResetGame restores every player in the sender's room to the starting
// state and clears the log.
type ResetGame struct{}

func (CreateRoom) clientEvent()            {}
func (JoinRoom) clientEvent()              {}
func (UpdateLife) clientEvent()            {}
func (UpdateCommanderDamage) clientEvent() {}
func (UpdateName) clientEvent()            {}
func (ResetGame) clientEvent()             {}

// ParseClientEvent decodes a websocket text frame into one of the
// ClientEvent variants. A frame that is not JSON (or whose fields do
// not decode) returns a plain error; a well-formed frame with an
// unrecognized type returns an error matching ErrUnknownType.
func ParseClientEvent(data []byte) (ClientEvent, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	switch envelope.Type {
	case TypeCreateRoom:
		return CreateRoom{}, nil

	case TypeJoinRoom:
		var ev JoinRoom
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeJoinRoom, err)
		}
		return ev, nil

	case TypeUpdateLife:
		var ev UpdateLife
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeUpdateLife, err)
		}
		return ev, nil

	case TypeUpdateCommanderDamage:
		var ev UpdateCommanderDamage
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeUpdateCommanderDamage, err)
		}
		return ev, nil

	case TypeUpdateName:
		var ev UpdateName
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeUpdateName, err)
		}
		return ev, nil

	case TypeResetGame:
		return ResetGame{}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, envelope.Type)
	}
}
