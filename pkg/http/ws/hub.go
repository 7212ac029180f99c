package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	sendQueueSize = 256
	readTimeout   = 60 * time.Second
	writeTimeout  = 10 * time.Second
)

// Hub tracks live feed connections and fans messages out to all of them.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // connection_id -> connection
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Register adds a connection and returns the id it is tracked under.
func (h *Hub) Register(conn *Connection) uuid.UUID {
	id := uuid.New()

	h.mu.Lock()
	h.connections[id] = conn
	h.mu.Unlock()

	h.logger.Debug().Str("connection_id", id.String()).Msg("connection registered")
	return id
}

// Unregister closes and removes a connection.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	conn, exists := h.connections[id]
	delete(h.connections, id)
	h.mu.Unlock()

	if exists {
		conn.Close()
		h.logger.Debug().Str("connection_id", id.String()).Msg("connection unregistered")
	}
}

// BroadcastAll sends a message to every connection. Slow or closed
// connections are skipped; the first error is returned.
func (h *Hub) BroadcastAll(msg Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var firstErr error
	for id, conn := range h.connections {
		if err := conn.Send(msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			h.logger.Warn().Err(err).Str("connection_id", id.String()).Msg("broadcast_all_send_failed")
		}
	}
	return firstErr
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, sendQueueSize),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection. The send queue is closed so that
// WritePump flushes a close frame.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.sendCh)
}

// WritePump sends messages from the send queue until Close is called or a
// write fails.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ReadPump receives messages and calls the handler until the peer goes away.
func (c *Connection) ReadPump(handler func(Message) error) {
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull    = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
