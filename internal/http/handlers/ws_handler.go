package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chargeshare/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The availability feed is public, same as GET /stations.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewStationFeedHandler returns GET /ws/stations: a websocket stream of
// station availability changes.
func NewStationFeedHandler(hub *ws.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debug("ws upgrade failed", zap.Error(err))
			return
		}
		hub.Add(conn)
	}
}

// NewHealthHandler returns GET /health.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
