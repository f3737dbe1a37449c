package game

// Rules of the room, fixed by the product: Commander pods start at 40
// life, seat up to 6 players, and keep the last 50 log lines.
const (
	StartingLife  = 40
	MaxPlayers    = 6
	MaxLogEntries = 50
	CodeLength    = 6
)

// logTimeFormat renders timestamps as a local time-of-day string, the
// same shape the original web client displayed.
const logTimeFormat = "3:04:05 PM"

// palette holds the color tags handed out in join order. Index i goes
// to the player joining seat i.
var palette = [MaxPlayers]string{
	"#e74c3c", // red
	"#3498db", // blue
	"#2ecc71", // green
	"#f1c40f", // yellow
	"#9b59b6", // purple
	"#e67e22", // orange
}

// Sender delivers one serialized server message to a client connection.
// Implementations must not block: the gateway backs this with a
// buffered write queue and drops the connection if it cannot keep up,
// so a dead recipient never stalls a room mutation.
type Sender interface {
	Send(data []byte)
}

// Player is one seat in a room. Conn is the live connection handle and
// never appears in snapshots sent to clients.
type Player struct {
	ID              string
	Name            string
	Life            int
	Color           string
	CommanderDamage map[string]int
	Conn            Sender
}
