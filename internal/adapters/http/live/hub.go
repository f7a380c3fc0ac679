// Package live streams match updates to websocket clients.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

const (
	clientSendBuf = 256
	writeDeadline = 5 * time.Second
	pongWait      = 30 * time.Second
	pingInterval  = 20 * time.Second
)

type client struct {
	matchID string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	// stop asks writePump to send a close frame and exit.
	stop    chan struct{}
}

// Hub fans match updates out to the clients watching each match. It
// implements service.Publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*client]struct{}
	closed  bool

	upgrader websocket.Upgrader
	logger   logger.Logger
}

// New creates an empty hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		clients: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("live")
	}
	return h
}

// Publish serializes msg and queues it for every client of matchID. Slow
// clients drop messages instead of blocking the caller.
func (h *Hub) Publish(matchID string, msg service.LiveMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn(context.Background(), "marshal live message", logger.String("match", matchID), logger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients[matchID] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn(context.Background(), "dropping message for slow client",
				logger.String("match", matchID),
				logger.String("kind", msg.Kind),
			)
		}
	}
}

// ServeHTTP upgrades GET /matches/{id}/live requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if matchID == "" {
		http.Error(w, "missing match id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	c := &client{
		matchID: matchID,
		conn:    conn,
		send:    make(chan []byte, clientSendBuf),
		done:    make(chan struct{}),
		stop:    make(chan struct{}),
	}
	if !h.add(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}
	h.logger.Debug(r.Context(), "live client connected", logger.String("match", matchID))

	go h.writePump(c)
	go h.readPump(c)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.countLocked()
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.clients {
		for c := range set {
			close(c.stop)
		}
	}
}

// writePump drains the send channel. It owns the client lifecycle and
// removes the client on exit so Publish never sends to a stale channel.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		h.remove(c)
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			return
		case <-c.stop:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes pongs and close frames. Clients send nothing else.
func (h *Hub) readPump(c *client) {
	defer close(c.done)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.matchID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.matchID] = set
	}
	set[c] = struct{}{}
	metrics.UpdateLiveClients(h.countLocked())
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if set, ok := h.clients[c.matchID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.matchID)
		}
	}
	metrics.UpdateLiveClients(h.countLocked())
	h.mu.Unlock()
	h.logger.Debug(context.Background(), "live client disconnected", logger.String("match", c.matchID))
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
