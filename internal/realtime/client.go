package realtime

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Wheel pages are shared by link; subscriptions are public by design.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket subscriber bound to a single wheel.
type Client struct {
	id      string
	wheelID string

	hub  *Hub
	conn *websocket.Conn

	outgoing chan []byte
}

// ServeWS upgrades an HTTP request to a WebSocket subscription on a wheel.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, wheelID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("realtime: upgrade failed", "error", err, "wheelId", wheelID)
		return
	}

	client := &Client{
		id:       uuid.NewString(),
		wheelID:  wheelID,
		hub:      h,
		conn:     conn,
		outgoing: make(chan []byte, 16),
	}
	h.register <- client

	go client.writeLoop()
	go client.readLoop()
}

// readLoop drains inbound frames. Subscribers never send application data;
// reading is only needed to process pongs and detect the close.
func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.outgoing:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
