package protocol

// Server → client message types.
const (
	TypeRoomCreated = "ROOM_CREATED"
	TypeRoomJoined  = "ROOM_JOINED"
	TypeGameUpdate  = "GAME_UPDATE"
	TypeError       = "ERROR"
)

// PlayerState is a player as clients see it: everything but the
// connection handle.
type PlayerState struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Life            int            `json:"life"`
	Color           string         `json:"color"`
	CommanderDamage map[string]int `json:"commanderDamage"`
}

// LogEntry is one line of the room's game log.
type LogEntry struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

// GameState is the full-room snapshot pushed on every mutation.
type GameState struct {
	Players []PlayerState `json:"players"`
	GameLog []LogEntry    `json:"gameLog"`
}

// RoomCreated answers a CREATE_ROOM from the issuing connection.
type RoomCreated struct {
	Type      string    `json:"type"`
	RoomCode  string    `json:"roomCode"`
	PlayerID  string    `json:"playerId"`
	GameState GameState `json:"gameState"`
}

// RoomJoined answers a successful JOIN_ROOM.
type RoomJoined struct {
	Type      string    `json:"type"`
	PlayerID  string    `json:"playerId"`
	GameState GameState `json:"gameState"`
}

// GameUpdate carries the room snapshot to every member after a mutation.
type GameUpdate struct {
	Type      string    `json:"type"`
	GameState GameState `json:"gameState"`
}

// ErrorMessage is the single reply sent for a failed join or an
// unparseable frame.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewRoomCreated builds a ROOM_CREATED reply.
func NewRoomCreated(roomCode, playerID string, state GameState) RoomCreated {
	return RoomCreated{Type: TypeRoomCreated, RoomCode: roomCode, PlayerID: playerID, GameState: state}
}

// NewRoomJoined builds a ROOM_JOINED reply.
func NewRoomJoined(playerID string, state GameState) RoomJoined {
	return RoomJoined{Type: TypeRoomJoined, PlayerID: playerID, GameState: state}
}

// NewGameUpdate builds a GAME_UPDATE broadcast message.
func NewGameUpdate(state GameState) GameUpdate {
	return GameUpdate{Type: TypeGameUpdate, GameState: state}
}

// NewError builds an ERROR reply.
func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}
