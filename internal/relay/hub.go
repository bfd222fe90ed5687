package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"log/slog"
	"nhooyr.io/websocket"

	"github.com/NewBieCoderXD/chat-website/pkg/metrics"
)

// Join frame wire shape, the only frame an unauthenticated connection may send.
type joinFrame struct {
	RoomKey  string `json:"roomKey"`
	Username string `json:"username"`
}

// Hub owns the process-wide set of live connections and drives each
// connection's state machine: unauthenticated until a join frame is
// accepted, joined until the transport closes, then closed.
type Hub struct {
	log *slog.Logger
	reg *Registry

	mu    sync.RWMutex
	conns map[*Conn]struct{}

	sendBuffer int
}

// NewHub sets up the hub around a registry.
func NewHub(log *slog.Logger, reg *Registry, sendBuffer int) *Hub {
	return &Hub{log: log, reg: reg, conns: map[*Conn]struct{}{}, sendBuffer: sendBuffer}
}

// Registry exposes the membership registry backing this hub.
func (h *Hub) Registry() *Registry { return h.reg }

func (h *Hub) add(c *Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	metrics.ConnectionsActive.Inc()
}

func (h *Hub) remove(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	metrics.ConnectionsActive.Dec()
}

// ServeWS handles a new /ws connection for its whole lifetime.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ws, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(ws, h.sendBuffer)
	h.add(c)
	h.log.Debug("ws.open", "conn", c.id)

	// Outbound writer
	go c.WriteLoop(ctx)

	// Inbound reader drives the state machine; each frame is handled to
	// completion before the next is read.
	for {
		payload, ok := c.Read(ctx)
		if !ok {
			break
		}
		if err := h.handleFrame(ctx, c, payload); err != nil {
			h.log.Warn("ws.protocol_violation", "conn", c.id, "err", err)
			c.CloseStatus(websocket.StatusPolicyViolation, "malformed join")
			break
		}
	}

	// Teardown runs on every exit path, joined or not; Leave is idempotent.
	h.remove(c)
	h.reg.Leave(c)
	_ = c.Close()
	h.log.Debug("ws.closed", "conn", c.id)
}

// handleFrame applies one inbound frame to the connection's state.
// A non-nil error is fatal to the connection.
func (h *Hub) handleFrame(ctx context.Context, c *Conn, payload []byte) error {
	if c.Joined() {
		// Opaque chat text, forwarded verbatim (post-escaping).
		h.Broadcast(c, string(payload), false)
		return nil
	}

	var jf joinFrame
	if err := json.Unmarshal(payload, &jf); err != nil || jf.RoomKey == "" {
		return ErrMalformedJoin
	}

	if err := h.reg.Join(ctx, jf.RoomKey, c, jf.Username); err != nil {
		// Recoverable: the connection stays unauthenticated and open so the
		// client may present another join frame.
		reason := RejectionReason(err)
		metrics.JoinRejections.WithLabelValues(reason).Inc()
		h.log.Info("ws.join_rejected", "conn", c.id, "room", jf.RoomKey, "reason", reason)
		return nil
	}

	h.Broadcast(c, jf.Username+" has joined", true)
	return nil
}
