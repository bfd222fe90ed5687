// Package relay is the chat core: the room membership registry, the room key
// allocator, the connection state machine, and the broadcast engine that fans
// messages out to live connections with per-recipient framing.
package relay

import (
	"context"
	"fmt"
	"sync"

	"log/slog"

	"github.com/NewBieCoderXD/chat-website/internal/directory"
	"github.com/NewBieCoderXD/chat-website/pkg/metrics"
)

// Registry is the single source of truth for room membership. Rooms exist
// exactly while they have members: the first join creates the entry, the
// last leave deletes it. One mutex guards the whole structure; at the scale
// of tens of rooms that is simpler and no slower than per-room locks.
type Registry struct {
	dir directory.Directory
	log *slog.Logger

	mu    sync.Mutex
	rooms map[string]map[*Conn]struct{}
}

func NewRegistry(dir directory.Directory, log *slog.Logger) *Registry {
	return &Registry{dir: dir, log: log, rooms: map[string]map[*Conn]struct{}{}}
}

// Join admits a connection into a room under a username. The key must
// resolve in the directory; the username must be unused in that room
// (case-sensitive). On success the member set and the connection's
// back-reference are updated together, so no observer sees partial state.
func (r *Registry) Join(ctx context.Context, roomKey string, c *Conn, username string) error {
	// Directory I/O happens before the lock so a slow directory never stalls
	// join/leave/broadcast on unrelated rooms.
	_, ok, err := r.dir.Get(ctx, roomKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if !ok {
		return ErrInvalidRoomKey
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Uniqueness must be decided under the same lock as the insertion,
	// otherwise two identical usernames can race in together.
	set := r.rooms[roomKey]
	for m := range set {
		if m.username == username {
			return ErrDuplicateUsername
		}
	}

	if set == nil {
		set = map[*Conn]struct{}{}
		r.rooms[roomKey] = set
		metrics.RoomsActive.Inc()
	}
	set[c] = struct{}{}
	c.roomKey = roomKey
	c.username = username
	r.log.Debug("room.join", "room", roomKey, "conn", c.id, "username", username)
	return nil
}

// Leave removes a connection from its room, deleting the room entry when it
// empties. Safe to call on a connection that never joined or already left.
func (r *Registry) Leave(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomKey := c.roomKey
	if roomKey == "" {
		return
	}
	c.roomKey = ""

	set, ok := r.rooms[roomKey]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.rooms, roomKey)
		metrics.RoomsActive.Dec()
	}
	r.log.Debug("room.leave", "room", roomKey, "conn", c.id)
}

// FindRoom returns the room a connection is joined to, if any.
func (r *Registry) FindRoom(c *Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return c.roomKey, c.roomKey != ""
}

// UsernameTaken reports whether a username is already bound in a room.
// Used by the HTTP layer to pre-validate before the websocket upgrade.
func (r *Registry) UsernameTaken(roomKey, username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for m := range r.rooms[roomKey] {
		if m.username == username {
			return true
		}
	}
	return false
}

// Members returns the current member count of a room.
func (r *Registry) Members(roomKey string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[roomKey])
}
