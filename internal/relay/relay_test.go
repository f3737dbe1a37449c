package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (s *captureSink) Publish(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(TypeGameUpdated, "AB12CD", struct {
		Life int `json:"life"`
	}{Life: 7})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeGameUpdated, event.Type)
	assert.Equal(t, "AB12CD", event.RoomCode)
	assert.False(t, event.Timestamp.IsZero())
	assert.JSONEq(t, `{"life":7}`, string(event.Payload))
}

func TestNewEventUnmarshalablePayload(t *testing.T) {
	_, err := NewEvent(TypeGameUpdated, "AB12CD", make(chan int))
	require.Error(t, err)
}

func TestRelayDeliversToSink(t *testing.T) {
	sink := &captureSink{}
	r := NewRelay(sink, 8)

	require.NoError(t, r.Start(context.Background()))

	for _, eventType := range []string{TypeRoomCreated, TypePlayerJoined, TypeGameUpdated} {
		event, err := NewEvent(eventType, "AB12CD", struct{}{})
		require.NoError(t, err)
		r.Enqueue(event)
	}

	require.Eventually(t, func() bool {
		return r.Published() == 3
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, r.Stop())

	events := sink.snapshot()
	require.Len(t, events, 3)
	assert.Equal(t, TypeRoomCreated, events[0].Type)
	assert.Equal(t, TypePlayerJoined, events[1].Type)
	assert.Equal(t, TypeGameUpdated, events[2].Type)
	assert.True(t, sink.closed)
}

func TestRelayDropsOnFullBuffer(t *testing.T) {
	sink := &captureSink{}
	r := NewRelay(sink, 1)

	// Not started, so nothing drains the buffer.
	first, err := NewEvent(TypeGameUpdated, "AB12CD", struct{}{})
	require.NoError(t, err)
	second, err := NewEvent(TypeGameUpdated, "AB12CD", struct{}{})
	require.NoError(t, err)

	r.Enqueue(first)
	r.Enqueue(second)

	assert.Equal(t, uint64(1), r.Dropped())
	assert.Equal(t, uint64(0), r.Published())
}

func TestRelayLifecycle(t *testing.T) {
	sink := &captureSink{}
	r := NewRelay(sink, 4)

	require.NoError(t, r.Start(context.Background()))
	require.Error(t, r.Start(context.Background()))

	require.NoError(t, r.Stop())
	require.Error(t, r.Stop())
}
