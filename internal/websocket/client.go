package websocket

import (
	"context"
	"log"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"wms-backend/internal/realtime"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Time allowed to reload and render one live region
	refreshTimeout = 10 * time.Second
)

// RefreshFunc re-runs the page's loader and renderer and returns the new
// live region.
type RefreshFunc func(ctx context.Context) (string, error)

// Client represents a WebSocket client connection: one open page of one user
type Client struct {
	ID       string
	UserID   string
	UserRole string
	Page     string

	conn    *websocket.Conn
	hub     *Hub
	sub     *realtime.Subscription
	refresh RefreshFunc

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

// OutgoingMessage is the frame format pushed to pages
type OutgoingMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// NewClient creates a new WebSocket client
func NewClient(userID, userRole, page string, conn *websocket.Conn, hub *Hub, sub *realtime.Subscription, refresh RefreshFunc) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		UserRole: userRole,
		Page:     page,
		conn:     conn,
		hub:      hub,
		sub:      sub,
		refresh:  refresh,
		send:     make(chan []byte, 64),
	}
}

// queue hands a frame to the write pump without blocking. It reports false
// when the buffer is full.
func (c *Client) queue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump pumps messages from the WebSocket connection until it closes
func (c *Client) ReadPump() {
	defer func() {
		c.sub.Close()
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Invalid message format: %v", err)
			continue
		}

		switch msg.Type {
		case "ping":
			c.sendFrame(OutgoingMessage{Type: "pong", Data: map[string]string{"timestamp": time.Now().Format(time.RFC3339)}})
		case "refresh":
			c.pushRefresh()
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection. Every
// frame is its own WebSocket message so pages can parse each one as JSON.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// Watch re-renders the page on every change event for a watched table until
// the subscription closes. Events only trigger a reload; their content is
// never applied.
func (c *Client) Watch() {
	for ev := range c.sub.C {
		log.Printf("🔄 %s change (%s) -> refreshing %s page for %s", ev.Table, ev.Op, c.Page, c.UserID)
		c.pushRefresh()
	}
}

func (c *Client) pushRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	html, err := c.refresh(ctx)
	if err != nil {
		log.Printf("❌ Failed to refresh %s page for %s: %v", c.Page, c.UserID, err)
		return
	}
	c.sendFrame(OutgoingMessage{Type: "refresh", Data: map[string]string{"html": html}})
}

func (c *Client) sendFrame(msg OutgoingMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Failed to marshal %s frame: %v", msg.Type, err)
		return
	}
	if !c.queue(data) {
		log.Printf("⚠️ Send buffer full for %s, dropping %s frame", c.UserID, msg.Type)
	}
}
