package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleStatus reports process health plus live room and player counts.
func (g *Gateway) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := g.registry.Stats()

	response := map[string]interface{}{
		"healthy":        true,
		"uptime_seconds": int64(time.Since(g.startedAt).Seconds()),
		"rooms":          stats.Rooms,
		"players":        stats.Players,
		"connections":    g.connections.Load(),
		"broadcasts":     g.broadcasts.Load(),
	}
	if g.relay != nil {
		response["events_published"] = g.relay.Published()
		response["events_dropped"] = g.relay.Dropped()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("failed to write status response")
	}
}

// handleMetrics exposes the same counts in Prometheus text format.
func (g *Gateway) handleMetrics(w http.ResponseWriter, r *http.Request) {
	stats := g.registry.Stats()

	var published, dropped uint64
	if g.relay != nil {
		published = g.relay.Published()
		dropped = g.relay.Dropped()
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	fmt.Fprintf(w, `# HELP spindown_rooms Current number of active rooms
# TYPE spindown_rooms gauge
spindown_rooms %d

# HELP spindown_players Current number of seated players
# TYPE spindown_players gauge
spindown_players %d

# HELP spindown_connections Current number of open websocket connections
# TYPE spindown_connections gauge
spindown_connections %d

# HELP spindown_broadcasts_total Total state frames fanned out to rooms
# TYPE spindown_broadcasts_total counter
spindown_broadcasts_total %d

# HELP spindown_relay_published_total Total relay events accepted by the sink
# TYPE spindown_relay_published_total counter
spindown_relay_published_total %d

# HELP spindown_relay_dropped_total Total relay events dropped on a full buffer
# TYPE spindown_relay_dropped_total counter
spindown_relay_dropped_total %d
`,
		stats.Rooms,
		stats.Players,
		g.connections.Load(),
		g.broadcasts.Load(),
		published,
		dropped,
	)
}
