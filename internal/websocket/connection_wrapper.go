package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// ConnectionWrapper adapts a gorilla/websocket connection to the Connection
// interface used by dashboard sessions.
type ConnectionWrapper struct {
	conn *websocket.Conn
}

// NewConnectionWrapper wraps an upgraded connection for a Session.
func NewConnectionWrapper(conn *websocket.Conn) Connection {
	return &ConnectionWrapper{conn: conn}
}

// WriteMessage writes one frame of the given message type. Sessions call
// it from their write pump only.
func (c *ConnectionWrapper) WriteMessage(messageType int, data []byte) error {
	return c.conn.WriteMessage(messageType, data)
}

// ReadMessage blocks until the next client frame arrives.
func (c *ConnectionWrapper) ReadMessage() (messageType int, p []byte, err error) {
	return c.conn.ReadMessage()
}

// Close closes the underlying network connection without a close frame.
func (c *ConnectionWrapper) Close() error {
	return c.conn.Close()
}

// SetReadDeadline sets the deadline for the next ReadMessage.
func (c *ConnectionWrapper) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

// SetWriteDeadline sets the deadline for the next WriteMessage.
func (c *ConnectionWrapper) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

// SetReadLimit caps the size of a client request frame.
func (c *ConnectionWrapper) SetReadLimit(limit int64) {
	c.conn.SetReadLimit(limit)
}

// SetPongHandler sets the handler run when the client answers a ping.
func (c *ConnectionWrapper) SetPongHandler(h func(string) error) {
	c.conn.SetPongHandler(h)
}

// RemoteAddr returns the client address, or "" when it is unknown.
func (c *ConnectionWrapper) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
