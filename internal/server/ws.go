package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handcursor/internal/render"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message is one event pushed to /api/cursor clients.
type Message struct {
	Type    string         `json:"type"`
	Frame   *render.Frame  `json:"frame,omitempty"`
	Marker  *render.Marker `json:"marker,omitempty"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Message types.
const (
	TypeFrame  = "frame"
	TypeEffect = "effect"
	TypeClear  = "clear"
	TypeNotify = "notify"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// CursorHub broadcasts session output to WebSocket clients. It is a render.Sink.
// Slow clients miss messages rather than stalling the pipeline.
type CursorHub struct {
	clients map[*client]struct{}
	mu      sync.RWMutex
	closed  bool
}

var _ render.Sink = (*CursorHub)(nil)

// NewCursorHub creates an empty hub.
func NewCursorHub() *CursorHub {
	return &CursorHub{clients: make(map[*client]struct{})}
}

// Render implements render.Sink.
func (h *CursorHub) Render(f render.Frame) {
	h.broadcast(Message{Type: TypeFrame, Frame: &f})
}

// Effect implements render.Sink.
func (h *CursorHub) Effect(m render.Marker) {
	h.broadcast(Message{Type: TypeEffect, Marker: &m})
}

// Notify implements render.Sink.
func (h *CursorHub) Notify(message string) {
	h.broadcast(Message{Type: TypeNotify, Message: message})
}

// Clear tells clients a marker has expired.
func (h *CursorHub) Clear(id string) {
	h.broadcast(Message{Type: TypeClear, ID: id})
}

// Clients returns the number of connected clients.
func (h *CursorHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *CursorHub) broadcast(m Message) {
	msg, err := json.Marshal(m)
	if err != nil {
		log.Printf("Failed to encode %s message: %v", m.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// ServeHTTP upgrades the request and streams messages until the client leaves.
func (h *CursorHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
}

func (h *CursorHub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every client and rejects new ones.
func (h *CursorHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
