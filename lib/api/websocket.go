package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		logger().Warn(fmt.Sprintf("couldn't make websocket: %s", err))
		return
	}
	defer func(ws *websocket.Conn) {
		err := ws.Close()
		if err != nil {
			logger().Debug(fmt.Sprintf("could not close websocket: %s", err))
		}
	}(ws)
	a.addClient(ws)
	defer a.removeClient(ws)

	done := make(chan struct{})
	defer close(done)
	go a.websocketWriter(ws, done)

	// clients have nothing to say; reading only notices when they leave
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (a *Api) addClient(ws *websocket.Conn) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	a.wsClients[ws] = true
	a.stats.SetWsClients(len(a.wsClients))
}

func (a *Api) removeClient(ws *websocket.Conn) {
	a.wsMutex.Lock()
	defer a.wsMutex.Unlock()
	delete(a.wsClients, ws)
	a.stats.SetWsClients(len(a.wsClients))
}

func (a *Api) websocketWriter(ws *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(a.StatsInterval)
	defer ticker.Stop()
	timeout := 10 * time.Second

	for {
		packet, err := json.Marshal(a.stats.Snapshot())
		if err != nil {
			logger().Error(fmt.Sprintf("could not encode stats: %s", err))
			return
		}
		err = ws.SetWriteDeadline(time.Now().Add(timeout))
		if err != nil {
			logger().Debug(fmt.Sprintf("could not set write deadline: %s", err))
			return
		}
		if err := ws.WriteMessage(websocket.TextMessage, packet); err != nil {
			return
		}

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
