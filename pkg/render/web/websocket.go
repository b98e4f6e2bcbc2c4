package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/miniplot/pkg/logger"
)

const writeTimeout = 10 * time.Second

// client is a connected browser, writes to a connection must not run concurrently
type client struct {
	sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(msg message) error {
	c.Lock()
	defer c.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// hub tracks websocket clients and fans out chart notifications
type hub struct {
	sync.RWMutex
	clients  map[*websocket.Conn]*client
	upgrader websocket.Upgrader
	messages chan message
	latest   func() int64
	closed   bool
	done     chan struct{}
	log      logger.Logger
}

func newHub(log logger.Logger, latest func() int64) *hub {
	h := &hub{
		clients: make(map[*websocket.Conn]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		messages: make(chan message, 100),
		latest:   latest,
		done:     make(chan struct{}),
		log:      log,
	}

	go h.run()
	return h
}

// run delivers queued messages until the hub is closed
func (h *hub) run() {
	for {
		select {
		case <-h.done:
			return
		case msg := <-h.messages:
			h.RLock()
			for _, c := range h.clients {
				if err := c.write(msg); err != nil {
					h.log.Error("Error sending WebSocket message: ", err)
					// the reader loop removes the client once the connection is gone
					c.conn.Close()
				}
			}
			h.RUnlock()
		}
	}
}

// broadcast queues msg for every client, dropping it when the queue is full
func (h *hub) broadcast(msg message) {
	h.RLock()
	defer h.RUnlock()

	if h.closed {
		return
	}

	select {
	case h.messages <- msg:
	default:
		h.log.Warn("WebSocket queue full, dropping message: ", msg.Type)
	}
}

// handleWebSocket upgrades the request and keeps the client registered until it disconnects
func (h *hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection to WebSocket: ", err)
		return
	}

	c := &client{conn: conn}

	h.Lock()
	if h.closed {
		h.Unlock()
		conn.Close()
		return
	}
	h.clients[conn] = c
	count := len(h.clients)
	h.Unlock()

	h.log.Debug("WebSocket client connected, total: ", count)

	err = c.write(message{
		Type:    "hello",
		Payload: map[string]any{"latest": h.latest()},
	})
	if err != nil {
		h.log.Error("Error sending initial data: ", err)
	}

	h.read(c)
}

// read consumes client frames, only to notice disconnects
func (h *hub) read(c *client) {
	defer func() {
		h.Lock()
		delete(h.clients, c.conn)
		remaining := len(h.clients)
		h.Unlock()

		c.conn.Close()
		h.log.Debug("WebSocket client disconnected, remaining: ", remaining)
	}()

	c.conn.SetPingHandler(func(string) error {
		c.Lock()
		defer c.Unlock()
		return c.conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(writeTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Error("WebSocket read error: ", err)
			}
			return
		}
	}
}

// close disconnects every client and stops delivery
func (h *hub) close() {
	h.Lock()
	defer h.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	close(h.done)

	for conn := range h.clients {
		conn.Close()
	}
}
