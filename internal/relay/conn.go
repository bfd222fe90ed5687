package relay

import (
	"context"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"nhooyr.io/websocket"
)

// Conn wraps one websocket connection and its join state. A connection is
// unauthenticated until its join frame is accepted, joined until the
// transport closes, then closed for good.
type Conn struct {
	ws  *websocket.Conn
	id  uuid.UUID
	out chan []byte

	// Join state. Written only inside registry mutations (under the registry
	// lock) and only ever triggered by this connection's own read loop; the
	// room key doubles as the back-reference that makes disconnect cleanup
	// O(1). It is a plain key, never a handle to the room itself.
	username string
	roomKey  string
}

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// NewConn wraps a websocket connection with a send queue of the given depth.
func NewConn(ws *websocket.Conn, sendBuffer int) *Conn {
	return &Conn{
		ws:  ws,
		id:  uuid.Must(uuid.NewV4()),
		out: make(chan []byte, sendBuffer),
	}
}

// ID identifies the connection in logs.
func (c *Conn) ID() uuid.UUID { return c.id }

// Username returns the bound username, empty until joined.
func (c *Conn) Username() string { return c.username }

// Joined reports whether the join handshake has completed.
func (c *Conn) Joined() bool { return c.roomKey != "" }

// Read blocks until it receives a text/binary message.
// Returns false if the connection is closed.
func (c *Conn) Read(ctx context.Context) ([]byte, bool) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, false
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, true
		}
	}
}

// WriteLoop drains the send queue and pings periodically.
// Exits when ctx is cancelled.
func (c *Conn) WriteLoop(ctx context.Context) {
	t := time.NewTicker(20 * time.Second)
	defer t.Stop()

	for {
		select {
		case b := <-c.out:
			_ = c.ws.Write(ctx, websocket.MessageText, b)
		case <-t.C:
			_ = c.ws.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// trySend queues an outbound frame without blocking. A full queue drops the
// frame; one slow recipient must never stall a broadcast.
func (c *Conn) trySend(b []byte) bool {
	select {
	case c.out <- b:
		return true
	default:
		return false
	}
}

// Close closes the connection normally.
func (c *Conn) Close() error {
	if c.ws == nil {
		return nil
	}
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}

// CloseStatus closes the connection with a specific status, used for
// protocol violations.
func (c *Conn) CloseStatus(code websocket.StatusCode, reason string) {
	if c.ws == nil {
		return
	}
	_ = c.ws.Close(code, reason)
}
