package relay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

const defaultBufferSize = 256

// Relay forwards events from the gateway to a sink without ever making
// a room mutation wait on broker I/O. Enqueue is non-blocking and drops
// on a full buffer; a single worker goroutine drains the buffer into
// the sink.
type Relay struct {
	sink   EventSink
	events chan Event

	published atomic.Uint64
	dropped   atomic.Uint64

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewRelay(sink EventSink, bufferSize int) *Relay {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Relay{
		sink:     sink,
		events:   make(chan Event, bufferSize),
		stopChan: make(chan struct{}),
	}
}

func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("relay already running")
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(ctx)

	log.Info().Int("buffer", cap(r.events)).Msg("relay started")
	return nil
}

func (r *Relay) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return fmt.Errorf("relay not running")
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopChan)
	r.wg.Wait()

	if err := r.sink.Close(); err != nil {
		return fmt.Errorf("close sink: %w", err)
	}
	log.Info().Msg("relay stopped")
	return nil
}

// Enqueue hands an event to the relay worker. It never blocks; if the
// buffer is full the event is counted as dropped and forgotten.
func (r *Relay) Enqueue(event Event) {
	select {
	case r.events <- event:
	default:
		r.dropped.Add(1)
		log.Warn().
			Str("event_type", event.Type).
			Str("room_code", event.RoomCode).
			Msg("relay buffer full, dropping event")
	}
}

func (r *Relay) run(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case event := <-r.events:
			if err := r.sink.Publish(ctx, event); err != nil {
				log.Error().
					Err(err).
					Str("event_type", event.Type).
					Str("room_code", event.RoomCode).
					Msg("relay publish failed")
				continue
			}
			r.published.Add(1)
		}
	}
}

// Published returns how many events the sink has accepted.
func (r *Relay) Published() uint64 {
	return r.published.Load()
}

// Dropped returns how many events were discarded on a full buffer.
func (r *Relay) Dropped() uint64 {
	return r.dropped.Load()
}
