package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	sendBuffer = 16
)

// Envelope is the frame format sent to websocket clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hooks are invoked by the Hub from connection goroutines.
type Hooks struct {
	// OnConnect runs after a client is registered.
	OnConnect func(clientID string)
	// OnMessage receives every text frame a client sends.
	OnMessage func(clientID string, data []byte)
	// OnCountChange receives +1 or -1 when a client joins or leaves.
	OnCountChange func(delta int)
}

// Hub tracks websocket clients and broadcasts frames to them. Slow clients
// whose buffer is full miss frames rather than block the broadcaster.
type Hub struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader
	hooks    Hooks

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub returns a Hub that accepts connections from any origin.
func NewHub(logger *zap.Logger, hooks Hooks) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		hooks:   hooks,
		clients: make(map[string]*client),
	}
}

// SetHooks replaces the hooks. Call before serving connections.
func (h *Hub) SetHooks(hooks Hooks) {
	h.mu.Lock()
	h.hooks = hooks
	h.mu.Unlock()
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	hooks := h.register(c)
	defer h.unregister(c)

	go h.writeLoop(c)

	h.SendTo(c.id, "connected", map[string]string{"clientId": c.id})
	if hooks.OnConnect != nil {
		hooks.OnConnect(c.id)
	}
	h.readLoop(c, hooks)
}

// Broadcast sends a frame to every client.
func (h *Hub) Broadcast(kind string, data any) {
	frame, ok := h.encode(kind, data)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		h.enqueue(c, frame)
	}
}

// SendTo sends a frame to one client.
func (h *Hub) SendTo(clientID, kind string, data any) {
	frame, ok := h.encode(kind, data)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[clientID]; ok {
		h.enqueue(c, frame)
	}
}

// Notify broadcasts a notification frame.
func (h *Hub) Notify(level Level, text string) {
	h.Broadcast("notification", Message{Level: level, Text: text, At: time.Now()})
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) register(c *client) Hooks {
	h.mu.Lock()
	h.clients[c.id] = c
	hooks := h.hooks
	h.mu.Unlock()
	if hooks.OnCountChange != nil {
		hooks.OnCountChange(1)
	}
	h.logger.Debug("websocket client connected", zap.String("client", c.id))
	return hooks
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, present := h.clients[c.id]
	delete(h.clients, c.id)
	hooks := h.hooks
	h.mu.Unlock()
	c.close()
	if present && hooks.OnCountChange != nil {
		hooks.OnCountChange(-1)
	}
	h.logger.Debug("websocket client disconnected", zap.String("client", c.id))
}

func (h *Hub) encode(kind string, data any) ([]byte, bool) {
	frame, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		h.logger.Error("websocket frame encoding failed", zap.String("type", kind), zap.Error(err))
		return nil, false
	}
	return frame, true
}

// enqueue must be called with h.mu held.
func (h *Hub) enqueue(c *client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		h.logger.Warn("websocket client too slow, frame dropped", zap.String("client", c.id))
	}
}

func (h *Hub) readLoop(c *client, hooks Hooks) {
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind == websocket.TextMessage && hooks.OnMessage != nil {
			hooks.OnMessage(c.id, data)
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				_ = c.conn.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}
