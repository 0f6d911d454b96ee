package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second // Must be less than pongWait
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard is served from other origins in development; data is
	// read-only and access control happens on the query endpoints.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one connected dashboard. An empty dataset or well filter
// matches every event.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	dataset string
	well    string

	closeMu sync.Mutex
	closed  bool
	log     *logger.ScopedLogger
}

// Serve upgrades an HTTP request to a live-feed connection and blocks in
// the read pump until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, dataset, well string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		hub:     h,
		dataset: dataset,
		well:    well,
		log:     logger.WithScope("ws-client"),
	}

	h.register(c)
	go c.writePump()
	c.readPump()
	return nil
}

// matches reports whether an event passes the client's filters.
func (c *Client) matches(ev Event) bool {
	if c.dataset != "" && c.dataset != ev.Dataset {
		return false
	}
	if c.well != "" && ev.Well != "" && c.well != ev.Well {
		return false
	}
	return true
}

// trySend queues a message without blocking. False means the buffer is
// full. The closed check keeps Broadcast from writing to a channel the
// write pump already closed.
func (c *Client) trySend(data []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
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

// readPump drains inbound frames to keep pong handling alive. Clients have
// nothing to say; any payload is discarded.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNoStatusReceived) {
				c.log.Warn().Err(err).Msg("Unexpected websocket close")
			}
			return
		}
	}
}

// writePump writes queued events and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
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

// close tears the client down once: unregister, close the socket, close the
// send channel so the write pump exits.
func (c *Client) close() {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.closeMu.Unlock()

	c.hub.unregister(c)
	c.conn.Close()
}
