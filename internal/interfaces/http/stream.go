package httpinterface

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool { return true },
}

// streamEvents upgrades the connection to a websocket and pushes every pool
// event, optionally filtered by the pool query param, until the client goes
// away.
func (h *handler) streamEvents(
	w http.ResponseWriter, r *http.Request, _ httprouter.Params,
) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("http: failed to upgrade event stream")
		return
	}
	defer conn.Close()

	poolName := r.URL.Query().Get("pool")
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := h.poolSvc.SubscribeEvents(ctx)
	go readPump(conn, cancel)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if len(poolName) > 0 && event.PoolName != poolName {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(newEventResponse(event)); err != nil {
				log.WithError(err).Debug("http: closing event stream")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes control frames and cancels the stream once the client
// disconnects.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
