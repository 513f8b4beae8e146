// Package websocket carries per-user push delivery for notifications and
// export progress. Every authenticated user may hold several open sockets;
// a message addressed to a user is fanned out to all of them.
package websocket

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are delegated to the reverse proxy in front of the API.
		return true
	},
}

// Message is the wire envelope pushed to clients. Channel follows the
// notify_user#<id> convention so front ends can multiplex on one socket.
type Message struct {
	UserID  int64       `json:"user_id,omitempty"`
	Type    string      `json:"type"`
	Channel string      `json:"channel,omitempty"`
	Data    interface{} `json:"data"`
}

// Hub owns all live connections, keyed by user id. All map mutation happens
// on the Run goroutine; mu only guards concurrent reads.
type Hub struct {
	connections map[int64]map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message

	mu sync.RWMutex
}

// Connection is one upgraded socket. Writes go through send so a slow
// reader never blocks the hub.
type Connection struct {
	ws     *websocket.Conn
	userID int64
	send   chan *Message
	hub    *Hub
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *Message, sendBuffer),
	}
}

// Run drives the hub until ctx is cancelled, then closes every socket so
// the pumps fail out and unregister themselves.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case conn := <-h.register:
			h.attach(conn)
		case conn := <-h.unregister:
			h.detach(conn)
		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) attach(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[conn.userID] == nil {
		h.connections[conn.userID] = make(map[*Connection]bool)
	}
	h.connections[conn.userID][conn] = true
}

func (h *Hub) detach(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.connections[conn.userID]
	if !ok {
		return
	}
	if _, live := set[conn]; !live {
		return
	}

	delete(set, conn)
	close(conn.send)
	if len(set) == 0 {
		delete(h.connections, conn.userID)
	}
}

// fanOut delivers to every socket of the target user. A socket whose send
// buffer is full is dropped rather than letting it back up the hub.
func (h *Hub) fanOut(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[message.UserID] {
		select {
		case conn.send <- message:
		default:
			close(conn.send)
			delete(h.connections[message.UserID], conn)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	var all []*Connection
	for _, set := range h.connections {
		for conn := range set {
			all = append(all, conn)
		}
	}
	h.mu.RUnlock()

	// Close outside the lock; the pumps will come back through unregister.
	for _, conn := range all {
		_ = conn.ws.Close()
	}
}

// Broadcast queues a message for one user. Delivery is best effort: when
// the hub queue is full the message is logged and dropped.
func (h *Hub) Broadcast(userID int64, message *Message) {
	message.UserID = userID
	select {
	case h.broadcast <- message:
	default:
		log.Printf("websocket: hub queue full, dropping message for user %d", userID)
	}
}

// HandleWebSocket upgrades the request and registers the socket under the
// given user. Authentication happened upstream in the token middleware.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request, userID int64) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket: upgrade failed: %v", err)
		return
	}

	conn := &Connection{
		ws:     ws,
		userID: userID,
		send:   make(chan *Message, sendBuffer),
		hub:    h,
	}
	h.register <- conn

	go conn.writePump()
	go conn.readPump()
}

// readPump drains inbound frames. The server never acts on client frames;
// reading only services pings and detects the close.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket: read failed: %v", err)
			}
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(message); err != nil {
				log.Printf("websocket: write failed: %v", err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
