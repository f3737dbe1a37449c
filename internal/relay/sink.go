package relay

import (
	"context"

	"github.com/rs/zerolog/log"
)

// EventSink is the downstream side of the relay. Publish may block on
// I/O; the relay worker is the only caller.
type EventSink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogSink writes events to the process log and nothing else. It is the
// default sink when no broker is configured.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Publish(ctx context.Context, event Event) error {
	log.Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", event.Type).
		Str("room_code", event.RoomCode).
		Msg("relay event")
	return nil
}

func (s *LogSink) Close() error {
	return nil
}
