package gateway

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Connection wraps one client websocket. The write side runs through a
// buffered channel drained by writePump, which is the only goroutine
// that ever writes to the socket.
type Connection struct {
	ID string

	ws   *websocket.Conn
	cfg  Config
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newConnection(ws *websocket.Conn, cfg Config) *Connection {
	return &Connection{
		ID:   uuid.New().String(),
		ws:   ws,
		cfg:  cfg,
		send: make(chan []byte, cfg.SendBufferSize),
		done: make(chan struct{}),
	}
}

// Send queues a frame for delivery. It never blocks: a client that
// cannot drain its buffer is closed rather than allowed to stall a
// room broadcast.
func (c *Connection) Send(data []byte) {
	select {
	case c.send <- data:
	case <-c.done:
	default:
		log.Warn().
			Str("connection_id", c.ID).
			Msg("send buffer full, closing connection")
		c.Close()
	}
}

// Close tears the connection down. Closing the underlying socket
// unblocks the session's read loop, which then runs its disconnect
// cleanup. Safe to call more than once and from any goroutine.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.ws != nil {
			c.ws.Close()
		}
	})
}

// writePump drains the send buffer onto the socket and keeps the
// connection alive with periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return

		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("failed to write message to websocket")
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
