package game

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registry tracks every active room by code. Rooms exist only while
// the process runs; an empty room is deleted, not kept around.
type Registry struct {
	clock clockwork.Clock

	// newCode generates candidate room codes. Swapped out in tests to
	// force collisions.
	newCode func() string

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry(clock clockwork.Clock) *Registry {
	return &Registry{
		clock:   clock,
		newCode: randomCode,
		rooms:   make(map[string]*Room),
	}
}

// CreateRoom makes a new empty room under a fresh code. Codes are
// drawn at random and redrawn until one is unused, so two rooms never
// share a code no matter how unlucky the draw.
func (g *Registry) CreateRoom() *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := g.newCode()
	for {
		if _, taken := g.rooms[code]; !taken {
			break
		}
		code = g.newCode()
	}

	room := NewRoom(code, g.clock)
	g.rooms[code] = room
	return room
}

// Get looks up a room by its code.
func (g *Registry) Get(code string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[code]
	return room, ok
}

// Delete drops a room from the registry. Deleting a code that is not
// registered is a no-op.
func (g *Registry) Delete(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, code)
}

// Stats reports the current room and player counts across the whole
// registry.
func (g *Registry) Stats() Stats {
	g.mu.RLock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	g.mu.RUnlock()

	s := Stats{Rooms: len(rooms)}
	for _, room := range rooms {
		s.Players += room.Size()
	}
	return s
}

// Stats is a point-in-time count of live rooms and seated players.
type Stats struct {
	Rooms   int `json:"rooms"`
	Players int `json:"players"`
}

// randomCode draws a 6-character code from the uppercase alphanumeric
// alphabet.
func randomCode() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		b.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return b.String()
}
