package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/getspindown/spindown/internal/game"
	"github.com/getspindown/spindown/internal/protocol"
	"github.com/getspindown/spindown/internal/relay"
)

// Gateway owns the client-facing surface: it upgrades websockets,
// runs one session per connection, and fans room state out to every
// seat after a mutation.
type Gateway struct {
	registry *game.Registry
	relay    *relay.Relay
	config   Config
	upgrader websocket.Upgrader

	startedAt    time.Time
	nextPlayerID atomic.Uint64
	connections  atomic.Int64
	broadcasts   atomic.Uint64
}

func New(registry *game.Registry, rl *relay.Relay, cfg Config) *Gateway {
	return &Gateway{
		registry: registry,
		relay:    rl,
		config:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		startedAt: time.Now(),
	}
}

// HandleConnection upgrades an HTTP request to a websocket and hands
// it to a new session.
func (g *Gateway) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	g.connections.Add(1)

	conn := newConnection(ws, g.config)
	go conn.writePump()

	sess := newSession(g, conn)
	go sess.run()

	log.Info().
		Str("connection_id", conn.ID).
		Str("remote_addr", r.RemoteAddr).
		Msg("websocket connection established")
}

// RegisterRoutes registers the websocket and status routes with an
// HTTP mux.
func (g *Gateway) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", g.HandleConnection)
	mux.HandleFunc("/health", g.handleHealth)
	mux.HandleFunc("/status", g.handleStatus)
	mux.HandleFunc("/metrics", g.handleMetrics)
}

// newPlayerID issues process-unique player ids. Ids only need to be
// unique among live players, so a counter is enough.
func (g *Gateway) newPlayerID() string {
	return strconv.FormatUint(g.nextPlayerID.Add(1), 10)
}

// broadcastState snapshots the room, marshals the update once, and
// sends it to every seated connection. A slow or dead recipient only
// loses its own connection, never anyone else's frame.
func (g *Gateway) broadcastState(room *game.Room) {
	state := room.Snapshot()

	frame, err := json.Marshal(protocol.NewGameUpdate(state))
	if err != nil {
		log.Error().Err(err).Str("room_code", room.Code).Msg("failed to marshal game state")
		return
	}

	receivers := room.Receivers()
	for _, r := range receivers {
		r.Send(frame)
	}
	g.broadcasts.Add(1)

	log.Debug().
		Str("room_code", room.Code).
		Int("connections", len(receivers)).
		Msg("game state broadcast")

	g.emit(relay.TypeGameUpdated, room.Code, state)
}

// emit hands an event to the relay, if one is wired in.
func (g *Gateway) emit(eventType, roomCode string, payload any) {
	if g.relay == nil {
		return
	}
	event, err := relay.NewEvent(eventType, roomCode, payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to build relay event")
		return
	}
	g.relay.Enqueue(event)
}
