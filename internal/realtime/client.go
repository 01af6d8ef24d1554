package realtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	// sendBufferSize is the per-connection outbound buffer. A client that
	// cannot drain it fast enough has events dropped rather than blocking
	// the delivery path.
	sendBufferSize = 256

	writeTimeout = 10 * time.Second
)

// Client represents a single live connection to one client process. The
// user identity is set once during the handshake and is immutable for the
// connection's lifetime.
type Client struct {
	// ID is the opaque connection identifier (a UUID, not the user ID).
	ID string
	// UserID is the authenticated identity behind this connection.
	UserID string

	conn   *websocket.Conn
	send   chan []byte
	bridge *Bridge
}

// Send queues an outbound payload without blocking. If the client's buffer
// is full the payload is dropped; delivery is best-effort at-most-once.
func (c *Client) Send(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		slog.Warn("Client send buffer full, dropping event", "connectionID", c.ID, "userID", c.UserID)
		return false
	}
}

// readPump pumps inbound events from the connection into the bridge's
// dispatcher. Events from one connection are processed sequentially, so a
// single sender's messages to a given receiver are persisted and delivered
// in submission order.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.bridge.disconnect(c, "client_closed")
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, payload, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				slog.Info("Connection closed normally by client", "connectionID", c.ID, "userID", c.UserID)
			} else if err != io.EOF && ctx.Err() == nil {
				slog.Error("Connection read error", "connectionID", c.ID, "userID", c.UserID, "error", err)
			}
			return
		}

		c.bridge.dispatch(ctx, c, payload)
	}
}

// writePump pumps queued outbound payloads to the connection.
func (c *Client) writePump() {
	defer c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for payload := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			slog.Error("Connection write error", "connectionID", c.ID, "userID", c.UserID, "error", err)
			return
		}
	}
}
