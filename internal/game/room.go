package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/getspindown/spindown/internal/protocol"
)

// ErrRoomFull is returned by Join when all seats are taken.
var ErrRoomFull = errors.New("room is full")

// Room holds the live state of one game: the seated players and the
// rolling log. All methods are safe for concurrent use; each one takes
// the room lock, applies the change, and records the log line under
// that same lock so entries come out in mutation order.
type Room struct {
	Code string

	clock clockwork.Clock

	mu      sync.Mutex
	players []*Player
	log     []protocol.LogEntry
}

func NewRoom(code string, clock clockwork.Clock) *Room {
	return &Room{
		Code:    code,
		clock:   clock,
		players: make([]*Player, 0, MaxPlayers),
		log:     make([]protocol.LogEntry, 0, MaxLogEntries),
	}
}

// Join seats a new player with the defaults for their seat: name
// "Player N", starting life, and the next palette color. The first
// player in gets a "created the room" log line, everyone after a
// "joined" one.
func (r *Room) Join(id string, conn Sender) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= MaxPlayers {
		return nil, ErrRoomFull
	}

	seat := len(r.players)
	p := &Player{
		ID:              id,
		Name:            fmt.Sprintf("Player %d", seat+1),
		Life:            StartingLife,
		Color:           palette[seat],
		CommanderDamage: make(map[string]int),
		Conn:            conn,
	}
	r.players = append(r.players, p)

	if seat == 0 {
		r.appendLog(p.Name + " created the room")
	} else {
		r.appendLog(p.Name + " joined the room")
	}
	return p, nil
}

// Remove unseats the player with the given id. It reports whether the
// room is empty afterwards and whether the player was actually there.
// The departure is logged only when someone is left to read it.
func (r *Room) Remove(id string) (empty, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.players {
		if p.ID != id {
			continue
		}
		r.players = append(r.players[:i], r.players[i+1:]...)
		if len(r.players) > 0 {
			r.appendLog(p.Name + " left the room")
		}
		return len(r.players) == 0, true
	}
	return len(r.players) == 0, false
}

// UpdateLife sets a player's life total to an absolute value, clamped
// at zero. It reports false when no such player is seated.
func (r *Room) UpdateLife(id string, life int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.find(id)
	if p == nil {
		return false
	}
	if life < 0 {
		life = 0
	}
	old := p.Life
	p.Life = life
	r.appendLog(fmt.Sprintf("%s: %d → %d (%+d)", p.Name, old, life, life-old))
	return true
}

// ApplyCommanderDamage records the absolute damage total dealt by
// source's commander to target and folds the difference from the
// previous total into target's life. Sending the same total twice is a
// no-op on life, and lowering the total gives the life back.
func (r *Room) ApplyCommanderDamage(sourceID, targetID string, damage int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	source := r.find(sourceID)
	target := r.find(targetID)
	if source == nil || target == nil {
		return false
	}
	if damage < 0 {
		damage = 0
	}

	delta := damage - target.CommanderDamage[sourceID]
	target.CommanderDamage[sourceID] = damage

	oldLife := target.Life
	life := oldLife - delta
	if life < 0 {
		life = 0
	}
	target.Life = life

	verb, amount := "took", delta
	if delta < 0 {
		verb, amount = "healed", -delta
	}
	r.appendLog(fmt.Sprintf("%s %s %d commander damage from %s (%d → %d)",
		target.Name, verb, amount, source.Name, oldLife, life))
	return true
}

// Rename changes a player's display name.
func (r *Room) Rename(id, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.find(id)
	if p == nil {
		return false
	}
	old := p.Name
	p.Name = name
	r.appendLog(fmt.Sprintf("%s changed name to %s", old, name))
	return true
}

// Reset starts the game over: everyone back to starting life, all
// commander damage wiped, log cleared. Seats, names and colors stay.
func (r *Room) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		p.Life = StartingLife
		p.CommanderDamage = make(map[string]int)
	}
	r.log = r.log[:0]
	r.appendLog("Game reset")
}

// Snapshot returns a deep copy of the state as the clients see it.
// Players and log are never nil so they serialize as [] rather than
// null for an empty room.
func (r *Room) Snapshot() protocol.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := protocol.GameState{
		Players: make([]protocol.PlayerState, len(r.players)),
		GameLog: make([]protocol.LogEntry, len(r.log)),
	}
	for i, p := range r.players {
		damage := make(map[string]int, len(p.CommanderDamage))
		for id, d := range p.CommanderDamage {
			damage[id] = d
		}
		state.Players[i] = protocol.PlayerState{
			ID:              p.ID,
			Name:            p.Name,
			Life:            p.Life,
			Color:           p.Color,
			CommanderDamage: damage,
		}
	}
	copy(state.GameLog, r.log)
	return state
}

// Receivers returns the connections of everyone currently seated, for
// fanning out a state frame.
func (r *Room) Receivers() []Sender {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]Sender, 0, len(r.players))
	for _, p := range r.players {
		if p.Conn != nil {
			conns = append(conns, p.Conn)
		}
	}
	return conns
}

func (r *Room) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// find locates a seated player by id. Caller must hold r.mu.
func (r *Room) find(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// appendLog stamps and appends a log line, dropping the oldest entry
// once the window is full. Caller must hold r.mu.
func (r *Room) appendLog(message string) {
	if len(r.log) >= MaxLogEntries {
		copy(r.log, r.log[1:])
		r.log = r.log[:MaxLogEntries-1]
	}
	r.log = append(r.log, protocol.LogEntry{
		Time:    r.clock.Now().Format(logTimeFormat),
		Message: message,
	})
}
