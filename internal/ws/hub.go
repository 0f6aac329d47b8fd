package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StationEvent is pushed to subscribers whenever a station's
// availability changes, so map clients need not poll the listing.
type StationEvent struct {
	Type      string `json:"type"`
	StationID int64  `json:"station_id"`
	Available bool   `json:"available"`
}

// EventStationUpdate is the only event type currently emitted.
const EventStationUpdate = "station_update"

// Hub tracks subscriber connections and fans events out to them.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*Client]struct{}
	pingInterval time.Duration
	logger       *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(pingInterval time.Duration, logger *zap.Logger) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Hub{
		clients:      make(map[*Client]struct{}),
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Add registers a connection and starts its keepalive loop. The client
// lives until its connection dies or the hub shuts down.
func (h *Hub) Add(conn *websocket.Conn) *Client {
	client := &Client{conn: conn}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go client.keepalive(h.pingInterval, func() { h.Remove(client) })
	return client
}

// Shutdown closes every subscriber connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
}

// Remove drops a connection from the hub and closes it.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if ok {
		client.close()
	}
}

// BroadcastAvailability pushes a station availability change to every
// subscriber. Dead connections are pruned.
func (h *Hub) BroadcastAvailability(stationID int64, available bool) {
	event := StationEvent{
		Type:      EventStationUpdate,
		StationID: stationID,
		Available: available,
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.send(event); err != nil {
			h.logger.Debug("dropping ws subscriber", zap.Error(err))
			h.Remove(client)
		}
	}
}

// Client is one subscriber connection. Writes are serialized by a mutex
// since gorilla connections allow a single concurrent writer.
type Client struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func (c *Client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return websocket.ErrCloseSent
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		c.conn.Close()
	}
}

func (c *Client) keepalive(interval time.Duration, onDead func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Reader discards inbound frames; it unblocks on close.
	go func() {
		for {
			if _, _, err := c.conn.ReadMessage(); err != nil {
				onDead()
				return
			}
		}
	}()

	for range ticker.C {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		err := c.conn.WriteMessage(websocket.PingMessage, nil)
		c.mu.Unlock()
		if err != nil {
			onDead()
			return
		}
	}
}
