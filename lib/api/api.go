package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fosdem/trianglefan/lib/config"
	"github.com/fosdem/trianglefan/lib/metrics"
	"github.com/fosdem/trianglefan/lib/stats"
	"github.com/gorilla/websocket"
)

func logger() *slog.Logger {
	return slog.Default().With("module", "api")
}

// Api serves the render statistics. Nothing it exposes changes the demo.
type Api struct {
	srv   http.Server
	mux   *http.ServeMux
	cfg   *config.ApiCfg
	stats *stats.Stats
	ln    net.Listener

	// StatsInterval is how often websocket clients get a stats packet.
	StatsInterval time.Duration

	wsMutex   sync.Mutex
	wsClients map[*websocket.Conn]bool
}

func New(cfg *config.ApiCfg, s *stats.Stats) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.stats = s
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.wsClients = make(map[*websocket.Conn]bool)
	a.StatsInterval = 2 * time.Second

	a.mux.HandleFunc("GET /api/stats", a.getStats)
	a.mux.HandleFunc("GET /api/ws", a.handleWebsocket)
	a.mux.Handle("GET /metrics", metrics.Handler())
	return a
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

// Listen binds the configured address. It is separate from Serve so a
// bad or busy address fails setup instead of a background goroutine.
func (a *Api) Listen() error {
	ln, err := net.Listen("tcp", a.cfg.Bind)
	if err != nil {
		return fmt.Errorf("could not start web server on %s: %w", a.cfg.Bind, err)
	}
	a.ln = ln
	return nil
}

// Addr is the bound address, or nil before Listen.
func (a *Api) Addr() net.Addr {
	if a.ln == nil {
		return nil
	}
	return a.ln.Addr()
}

func (a *Api) Serve() error {
	return a.srv.Serve(a.ln)
}

// Shutdown stops the server and hangs up on websocket clients, which
// http.Server.Shutdown does not track once they are hijacked.
func (a *Api) Shutdown(ctx context.Context) error {
	err := a.srv.Shutdown(ctx)

	a.wsMutex.Lock()
	for ws := range a.wsClients {
		_ = ws.Close()
	}
	a.wsMutex.Unlock()
	return err
}

func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could not encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

// ServeInBackground starts the API if it is configured and returns nil
// otherwise. The address is bound before it returns.
func ServeInBackground(cfg *config.ApiCfg, s *stats.Stats) (*Api, error) {
	if cfg == nil {
		return nil, nil
	}
	a := New(cfg, s)
	if err := a.Listen(); err != nil {
		return nil, err
	}

	logger().Info(fmt.Sprintf("starting web server on %s", a.Addr()))
	go func() {
		err := a.Serve()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger().Error(fmt.Sprintf("web server stopped: %s", err))
		}
	}()
	return a, nil
}
