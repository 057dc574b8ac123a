package websocket

import (
	"context"
	"encoding/json"

	"devtasker/internal/models"
	"devtasker/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// sendBuffer is how many events a client may lag behind before it is dropped.
const sendBuffer = 32

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live connection of a signed-in user.
type Client struct {
	UserID int64
	conn   Conn
	send   chan []byte
}

func NewClient(userID int64, conn Conn) *Client {
	return &Client{UserID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
}

// WritePump copies queued events to the connection until the hub closes the queue
// or a write fails. It closes the connection on return.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.ErrorLogger.Warn("Websocket write failed", zap.Int64("user_id", c.UserID), zap.Error(err))
			return
		}
	}
}

// PeerConn is a connection the hub can also read from, to notice the peer leaving.
type PeerConn interface {
	Conn
	ReadMessage() (messageType int, data []byte, err error)
}

// Serve runs a client for userID on conn and blocks until neither the hub nor the
// write loop will touch conn again. The caller may recycle conn once it returns.
func (h *Hub) Serve(userID int64, conn PeerConn) {
	c := NewClient(userID, conn)
	h.Register(c)

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		defer h.Unregister(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// WritePump closes conn on return, which ends the read loop.
	c.WritePump()
	<-readDone
}

type message struct {
	audience map[int64]struct{}
	payload  []byte
}

// Hub owns the set of connected clients. Only the Run goroutine touches it.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			h.drop(c)
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case m := <-h.broadcast:
			for c := range h.clients {
				if m.audience != nil {
					if _, ok := m.audience[c.UserID]; !ok {
						continue
					}
				}
				select {
				case c.send <- m.payload:
				default:
					logger.SecurityLogger.Warn("Dropping slow websocket client", zap.Int64("user_id", c.UserID))
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues ev for delivery and never blocks. Events are dropped when the
// hub is saturated or stopped.
func (h *Hub) Publish(ev models.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.ErrorLogger.Error("Encode websocket event", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	var audience map[int64]struct{}
	if len(ev.Audience) > 0 {
		audience = make(map[int64]struct{}, len(ev.Audience))
		for _, id := range ev.Audience {
			audience[id] = struct{}{}
		}
	}
	select {
	case <-h.done:
	case h.broadcast <- message{audience: audience, payload: payload}:
	default:
		logger.ErrorLogger.Warn("Websocket hub saturated, event dropped", zap.String("type", ev.Type))
	}
}
