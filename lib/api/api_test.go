package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fosdem/trianglefan/lib/config"
	"github.com/fosdem/trianglefan/lib/metrics"
	"github.com/fosdem/trianglefan/lib/stats"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Api, *stats.Stats, *httptest.Server) {
	t.Helper()
	s := stats.New()
	a := New(&config.ApiCfg{Bind: "127.0.0.1:0"}, s)
	a.StatsInterval = 10 * time.Millisecond
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return a, s, srv
}

func TestGetStats(t *testing.T) {
	_, s, srv := newTestServer(t)
	s.Update()
	s.Update()
	s.ShaderReloaded()

	resp, err := http.Get(srv.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap stats.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, uint64(2), snap.Frames)
	assert.Equal(t, uint64(1), snap.ShaderReloads)
}

func TestStatsIsReadOnly(t *testing.T) {
	_, _, srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/stats", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	_, _, srv := newTestServer(t)
	metrics.FramesRendered.Inc()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "trianglefan_frames_rendered_total")
}

func TestWebsocketPushesStats(t *testing.T) {
	_, s, srv := newTestServer(t)
	s.Update()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var snap stats.Snapshot
	require.NoError(t, json.Unmarshal(msg, &snap))
	assert.Equal(t, uint64(1), snap.Frames)

	assert.Eventually(t, func() bool {
		return s.Snapshot().WsClients == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWebsocketClosedOnShutdown(t *testing.T) {
	a, s, srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()
	assert.Eventually(t, func() bool {
		return s.Snapshot().WsClients == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, a.Shutdown(context.Background()))

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, _, err = ws.ReadMessage()
		if err != nil {
			break
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "server hung up before the read deadline")
	}
	assert.Eventually(t, func() bool {
		return s.Snapshot().WsClients == 0
	}, time.Second, 10*time.Millisecond)
}

func TestServeInBackgroundDisabled(t *testing.T) {
	a, err := ServeInBackground(nil, stats.New())
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestServeInBackground(t *testing.T) {
	a, err := ServeInBackground(&config.ApiCfg{Bind: "127.0.0.1:0"}, stats.New())
	require.NoError(t, err)
	defer a.Shutdown(context.Background())

	resp, err := http.Get("http://" + a.Addr().String() + "/api/stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeInBackgroundAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a, err := ServeInBackground(&config.ApiCfg{Bind: ln.Addr().String()}, stats.New())
	assert.ErrorContains(t, err, "could not start web server")
	assert.Nil(t, a)
}
