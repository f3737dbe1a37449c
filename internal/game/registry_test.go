package game

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestCreateRoomCodes(t *testing.T) {
	registry := NewRegistry(testClock())

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		room := registry.CreateRoom()
		assert.Regexp(t, codePattern, room.Code)
		assert.False(t, seen[room.Code], "duplicate code %s", room.Code)
		seen[room.Code] = true
	}
}

func TestCreateRoomRedrawsOnCollision(t *testing.T) {
	registry := NewRegistry(testClock())

	codes := []string{"AAAAAA", "AAAAAA", "AAAAAA", "BBBBBB"}
	registry.newCode = func() string {
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code
	}

	first := registry.CreateRoom()
	assert.Equal(t, "AAAAAA", first.Code)

	// The generator keeps handing out the taken code before moving on.
	second := registry.CreateRoom()
	assert.Equal(t, "BBBBBB", second.Code)

	_, ok := registry.Get("AAAAAA")
	assert.True(t, ok)
	_, ok = registry.Get("BBBBBB")
	assert.True(t, ok)
}

func TestGetAndDelete(t *testing.T) {
	registry := NewRegistry(testClock())
	room := registry.CreateRoom()

	got, ok := registry.Get(room.Code)
	require.True(t, ok)
	assert.Same(t, room, got)

	registry.Delete(room.Code)
	_, ok = registry.Get(room.Code)
	assert.False(t, ok)

	// Deleting a code that is already gone is fine.
	registry.Delete(room.Code)
	registry.Delete("NOSUCH")
}

func TestStats(t *testing.T) {
	registry := NewRegistry(testClock())

	assert.Equal(t, Stats{}, registry.Stats())

	a := registry.CreateRoom()
	a.Join("1", nil)
	a.Join("2", nil)

	b := registry.CreateRoom()
	b.Join("3", nil)

	assert.Equal(t, Stats{Rooms: 2, Players: 3}, registry.Stats())
}
