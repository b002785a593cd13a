package ws

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

const sendBuffer = 64

// Client is the per-connection actor: inbound events are handled one at a
// time by the read loop, outbound events go through a buffered channel
// drained by the write pump, so fan-out never blocks on a slow socket.
type Client struct {
	info ConnInfo
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, info ConnInfo) *Client {
	return &Client{
		info: info,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Debug("websocket write error", "conn_id", c.info.ConnID, "error", err)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// enqueue hands a frame to the write pump. A full buffer means a consumer
// that stopped reading; the frame is dropped rather than blocking fan-out.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		slog.Warn("dropping frame for slow consumer", "conn_id", c.info.ConnID)
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
}
