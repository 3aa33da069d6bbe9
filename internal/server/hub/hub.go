// Package hub fans check-in notifications out to connected feed listeners
// over websockets. The stream is outbound-only: clients never send anything
// meaningful, inbound frames are drained just to service pong handling.
package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dkhodakov/habitsync/internal/logging"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// notification is the single frame type the hub pushes: the id of a fresh
// check-in. Clients fetch the detail themselves.
type notification struct {
	ID string `json:"id"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the set of live feed connections and broadcasts check-in ids to
// all of them. Register/unregister/broadcast are serialized through Run's
// select loop, so no client map locking is needed.
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	log        logging.Logger
}

func New(log logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set. It exits when Stop is called, closing every
// remaining connection's send channel.
func (h *Hub) Run() {
	ctx := context.Background()
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug(ctx, "feed listener connected", "listeners", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Debug(ctx, "feed listener disconnected", "listeners", len(h.clients))
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// slow consumer, drop it
					delete(h.clients, c)
					close(c.send)
				}
			}

		case <-h.done:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// BroadcastCheckIn pushes a check-in id to every connected listener. Safe to
// call from any goroutine; drops the event if the hub has stopped.
func (h *Hub) BroadcastCheckIn(id string) {
	payload, err := json.Marshal(notification{ID: id})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames; its job is pong handling and noticing
// the peer going away.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
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

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
