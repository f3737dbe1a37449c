package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getspindown/spindown/internal/relay"
)

func statusServer(t *testing.T, gw *Gateway) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	gw.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := statusServer(t, testGateway())

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusEndpoint(t *testing.T) {
	gw := testGateway()
	gw.relay = relay.NewRelay(relay.NewLogSink(), 4)

	room := gw.registry.CreateRoom()
	room.Join("1", nil)
	room.Join("2", nil)

	srv := statusServer(t, gw)

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))

	assert.Equal(t, true, status["healthy"])
	assert.EqualValues(t, 1, status["rooms"])
	assert.EqualValues(t, 2, status["players"])
	assert.EqualValues(t, 0, status["events_published"])
	assert.Contains(t, status, "uptime_seconds")
	assert.Contains(t, status, "broadcasts")
}

func TestMetricsEndpoint(t *testing.T) {
	gw := testGateway()

	room := gw.registry.CreateRoom()
	room.Join("1", nil)

	srv := statusServer(t, gw)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "# TYPE spindown_rooms gauge")
	assert.Contains(t, body, "spindown_rooms 1")
	assert.Contains(t, body, "spindown_players 1")
	assert.Contains(t, body, "spindown_relay_published_total 0")
}
