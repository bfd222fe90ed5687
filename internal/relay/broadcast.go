package relay

import (
	"encoding/json"
	"strings"

	"github.com/NewBieCoderXD/chat-website/pkg/metrics"
)

// Outbound frame shapes. Clients render by framing: "announcement" is a
// system line, "self-echo" the sender's own copy, "peer" everyone else's
// view carrying the sender's name.
type outFrame struct {
	Framing        string `json:"framing"`
	SenderUsername string `json:"senderUsername,omitempty"`
	Text           string `json:"text"`
}

const (
	framingAnnouncement = "announcement"
	framingSelfEcho     = "self-echo"
	framingPeer         = "peer"
)

// textEscaper neutralizes markup before the text reaches any client.
// Ampersand first, each literal occurrence replaced exactly once; this is
// the only sanitization applied.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string { return textEscaper.Replace(s) }

// Broadcast fans a message out to every live connection in the process,
// including connections in other rooms and connections that have not joined
// yet. Room-scoped delivery would be the obvious fix, but global fan-out is
// the relay's actual contract; see DESIGN.md before changing it.
//
// Delivery is best effort: a recipient with a full queue is logged and
// skipped, never allowed to block the others.
func (h *Hub) Broadcast(sender *Conn, text string, announcement bool) {
	text = escapeText(text)

	ann, _ := json.Marshal(outFrame{Framing: framingAnnouncement, Text: text})
	self, _ := json.Marshal(outFrame{Framing: framingSelfEcho, Text: text})
	peer, _ := json.Marshal(outFrame{Framing: framingPeer, SenderUsername: sender.username, Text: text})

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		var payload []byte
		switch {
		case announcement:
			payload = ann
		case c == sender:
			payload = self
		default:
			payload = peer
		}
		if !c.trySend(payload) {
			h.log.Warn("broadcast.dropped", "conn", c.id)
		}
	}
	metrics.MessagesBroadcast.Inc()
}
