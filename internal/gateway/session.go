package gateway

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/getspindown/spindown/internal/game"
	"github.com/getspindown/spindown/internal/protocol"
	"github.com/getspindown/spindown/internal/relay"
)

// session drives one client connection: it owns the read loop, decodes
// events, applies them to the room the connection sits in, and triggers
// the resulting broadcasts. A connection sits in at most one room; a
// create or join while seated leaves the old room first.
type session struct {
	gw   *Gateway
	conn *Connection

	room   *game.Room
	player *game.Player
}

// playerEvent is the relay payload for seat changes.
type playerEvent struct {
	PlayerID string `json:"playerId"`
}

func newSession(gw *Gateway, conn *Connection) *session {
	return &session{gw: gw, conn: conn}
}

// run reads frames until the connection drops, then tears the seat
// down. Removal on disconnect is immediate: the room either closes or
// everyone left behind gets a fresh state frame.
func (s *session) run() {
	defer s.teardown()

	ws := s.conn.ws
	ws.SetReadLimit(s.gw.config.MaxMessageSize)
	ws.SetReadDeadline(time.Now().Add(s.gw.config.ReadTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(s.gw.config.ReadTimeout))
		return nil
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", s.conn.ID).
					Msg("unexpected websocket close")
			}
			return
		}
		s.handleMessage(data)
		ws.SetReadDeadline(time.Now().Add(s.gw.config.ReadTimeout))
	}
}

// handleMessage decodes and dispatches one frame. A frame that cannot
// be parsed, or that panics the handler, costs the client exactly one
// error reply and nothing else.
func (s *session) handleMessage(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("connection_id", s.conn.ID).
				Msg("recovered panic while handling message")
			s.reply(protocol.NewError("Invalid message format"))
		}
	}()

	event, err := protocol.ParseClientEvent(data)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownType) {
			log.Warn().
				Err(err).
				Str("connection_id", s.conn.ID).
				Msg("ignoring unknown event type")
			return
		}
		log.Debug().
			Err(err).
			Str("connection_id", s.conn.ID).
			Msg("unparseable frame")
		s.reply(protocol.NewError("Invalid message format"))
		return
	}

	switch ev := event.(type) {
	case protocol.CreateRoom:
		s.createRoom()
	case protocol.JoinRoom:
		s.joinRoom(ev.RoomCode)
	case protocol.UpdateLife:
		s.updateLife(ev)
	case protocol.UpdateCommanderDamage:
		s.updateCommanderDamage(ev)
	case protocol.UpdateName:
		s.updateName(ev)
	case protocol.ResetGame:
		s.resetGame()
	}
}

func (s *session) createRoom() {
	s.leaveCurrentRoom()

	room := s.gw.registry.CreateRoom()
	player, err := room.Join(s.gw.newPlayerID(), s.conn)
	if err != nil {
		// A freshly created room has every seat open.
		log.Error().Err(err).Str("room_code", room.Code).Msg("failed to seat creator")
		s.gw.registry.Delete(room.Code)
		return
	}
	s.room, s.player = room, player

	s.reply(protocol.NewRoomCreated(room.Code, player.ID, room.Snapshot()))
	s.gw.emit(relay.TypeRoomCreated, room.Code, playerEvent{PlayerID: player.ID})

	log.Info().
		Str("room_code", room.Code).
		Str("player_id", player.ID).
		Str("connection_id", s.conn.ID).
		Msg("room created")
}

func (s *session) joinRoom(code string) {
	// Leave before looking up: joining your own solo room's code must
	// see the room already closed, not re-seat into an orphan.
	s.leaveCurrentRoom()

	room, ok := s.gw.registry.Get(code)
	if !ok {
		s.reply(protocol.NewError("Room not found"))
		return
	}

	player, err := room.Join(s.gw.newPlayerID(), s.conn)
	if err != nil {
		if errors.Is(err, game.ErrRoomFull) {
			s.reply(protocol.NewError("Room is full"))
			return
		}
		log.Error().Err(err).Str("room_code", code).Msg("failed to seat player")
		return
	}
	s.room, s.player = room, player

	// The joiner learns its id first, then everyone (joiner included)
	// gets the new room state.
	s.reply(protocol.NewRoomJoined(player.ID, room.Snapshot()))
	s.gw.broadcastState(room)
	s.gw.emit(relay.TypePlayerJoined, room.Code, playerEvent{PlayerID: player.ID})

	log.Info().
		Str("room_code", room.Code).
		Str("player_id", player.ID).
		Str("connection_id", s.conn.ID).
		Msg("player joined room")
}

func (s *session) updateLife(ev protocol.UpdateLife) {
	if s.room == nil {
		return
	}
	if !s.room.UpdateLife(ev.PlayerID, ev.Life) {
		return
	}
	s.gw.broadcastState(s.room)
}

func (s *session) updateCommanderDamage(ev protocol.UpdateCommanderDamage) {
	if s.room == nil {
		return
	}
	if !s.room.ApplyCommanderDamage(ev.SourcePlayerID, ev.TargetPlayerID, ev.Damage) {
		return
	}
	s.gw.broadcastState(s.room)
}

func (s *session) updateName(ev protocol.UpdateName) {
	if s.room == nil {
		return
	}
	if !s.room.Rename(ev.PlayerID, ev.Name) {
		return
	}
	s.gw.broadcastState(s.room)
}

func (s *session) resetGame() {
	if s.room == nil {
		return
	}
	s.room.Reset()
	s.gw.broadcastState(s.room)
}

// leaveCurrentRoom unseats this connection from its room, if any. The
// last player out closes the room; otherwise the remaining players get
// a state frame with the departure logged.
func (s *session) leaveCurrentRoom() {
	if s.room == nil {
		return
	}
	room, player := s.room, s.player
	s.room, s.player = nil, nil

	empty, ok := room.Remove(player.ID)
	if !ok {
		return
	}

	if empty {
		s.gw.registry.Delete(room.Code)
		s.gw.emit(relay.TypeRoomClosed, room.Code, struct{}{})
		log.Info().Str("room_code", room.Code).Msg("room closed")
		return
	}

	s.gw.broadcastState(room)
	s.gw.emit(relay.TypePlayerLeft, room.Code, playerEvent{PlayerID: player.ID})
}

func (s *session) teardown() {
	s.leaveCurrentRoom()
	s.conn.Close()
	s.gw.connections.Add(-1)
	log.Info().
		Str("connection_id", s.conn.ID).
		Msg("websocket connection closed")
}

// reply sends one message to this connection only.
func (s *session) reply(msg any) {
	frame, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("connection_id", s.conn.ID).Msg("failed to marshal reply")
		return
	}
	s.conn.Send(frame)
}
