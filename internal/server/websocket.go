package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/venkatarajeshjakka/notes/internal/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 50 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Messages queued per client before it is dropped.
	sendBuffer = 16
)

// UpdateMessage is the message sent to connected browsers.
type UpdateMessage struct {
	Type      string    `json:"type"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageReload asks the browser to reload the current page.
const MessageReload = "reload"

// Client is one live-reload connection.
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub tracks live-reload clients and fans out messages to them.
type Hub struct {
	clients      map[*Client]struct{}
	clientsMutex sync.RWMutex
	origins      []string
	logger       logging.Logger
}

// NewHub creates a hub accepting connections from the given origin
// patterns in addition to same-origin requests.
func NewHub(logger logging.Logger, origins ...string) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		origins: origins,
		logger:  logger.WithComponent("livereload"),
	}
}

// ServeHTTP upgrades the request and registers the client until the
// connection or the request context ends.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &Client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  h,
	}
	h.register(client)

	ctx := conn.CloseRead(r.Context())
	client.writePump(ctx)
	h.unregister(client)
}

func (h *Hub) register(c *Client) {
	h.clientsMutex.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.clientsMutex.Unlock()

	h.logger.Debug(context.Background(), "client connected", "clients", count)
}

func (h *Hub) unregister(c *Client) {
	h.clientsMutex.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	count := len(h.clients)
	h.clientsMutex.Unlock()

	if ok {
		c.conn.Close(websocket.StatusNormalClosure, "")
		h.logger.Debug(context.Background(), "client disconnected", "clients", count)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every client. Clients whose queue is full are
// disconnected; the browser script reconnects on its own.
func (h *Hub) Broadcast(msg UpdateMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		data = []byte(`{"type":"reload"}`)
	}

	h.clientsMutex.RLock()
	var slow []*Client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.clientsMutex.RUnlock()

	for _, c := range slow {
		h.unregister(c)
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.clientsMutex.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.clientsMutex.Unlock()

	for c := range clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

// writePump delivers queued messages and keeps the connection alive until
// ctx is done or a write fails.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.hub.logger.Debug(ctx, "websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
