package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write to a peer.
	writeWait = 10 * time.Second
	// sendBuffer is how many undelivered messages a subscriber may lag
	// behind before it gets dropped.
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the storefront and the API are served from different origins
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one subscribed connection. All writes go through send and the
// write pump, so a stalled peer can only ever block its own goroutine.
type client struct {
	conn *websocket.Conn
	send chan interface{}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for v := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(v); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

// Hub fans new order messages out to the websocket connections subscribed to
// each thread topic. Broadcast never blocks on a peer: each connection has a
// buffered send channel drained by its own write pump, and a subscriber whose
// buffer is full gets dropped.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*client]struct{})}
}

// Serve upgrades the request and keeps the connection subscribed to topic
// until the peer goes away. Incoming frames are read and discarded; the
// socket is push-only.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, topic string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan interface{}, sendBuffer)}
	h.subscribe(topic, c)
	go c.writePump()
	defer h.remove(topic, c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) subscribe(topic string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*client]struct{})
	}
	h.subs[topic][c] = struct{}{}
}

// remove detaches c from topic and closes its send channel, which lets the
// write pump finish and close the socket. Safe to call more than once.
func (h *Hub) remove(topic string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.subs[topic]
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.subs, topic)
	}
	close(c.send)
}

// Broadcast queues v for every subscriber of topic. Subscribers that have
// stopped draining their buffer are dropped instead of being waited on.
func (h *Hub) Broadcast(topic string, v interface{}) {
	var slow []*client
	h.mu.RLock()
	for c := range h.subs[topic] {
		select {
		case c.send <- v:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.remove(topic, c)
	}
}

// Subscribers reports how many connections are attached to topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}
