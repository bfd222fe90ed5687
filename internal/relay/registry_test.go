package relay

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/NewBieCoderXD/chat-website/internal/directory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, keys ...string) (*Registry, *directory.Memory) {
	t.Helper()
	dir := directory.NewMemory()
	for _, k := range keys {
		if err := dir.Set(context.Background(), k, "room "+k, time.Minute); err != nil {
			t.Fatalf("seed directory: %v", err)
		}
	}
	return NewRegistry(dir, testLogger()), dir
}

func TestJoinAndFindRoom(t *testing.T) {
	reg, _ := newTestRegistry(t, "standup123")
	c := NewConn(nil, 8)

	if err := reg.Join(context.Background(), "standup123", c, "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	room, ok := reg.FindRoom(c)
	if !ok || room != "standup123" {
		t.Fatalf("FindRoom = %q, %v; want standup123, true", room, ok)
	}
	if got := reg.Members("standup123"); got != 1 {
		t.Fatalf("members = %d, want 1", got)
	}
	if c.Username() != "alice" {
		t.Fatalf("username = %q, want alice", c.Username())
	}
}

func TestJoinUnknownKey(t *testing.T) {
	reg, _ := newTestRegistry(t)
	c := NewConn(nil, 8)

	err := reg.Join(context.Background(), "nosuchroom", c, "alice")
	if !errors.Is(err, ErrInvalidRoomKey) {
		t.Fatalf("err = %v, want ErrInvalidRoomKey", err)
	}
	if c.Joined() {
		t.Fatal("connection joined after rejected key")
	}
	if got := reg.Members("nosuchroom"); got != 0 {
		t.Fatalf("rejected join mutated membership: %d members", got)
	}
}

func TestJoinDuplicateUsername(t *testing.T) {
	reg, _ := newTestRegistry(t, "standup123")
	a := NewConn(nil, 8)
	b := NewConn(nil, 8)

	if err := reg.Join(context.Background(), "standup123", a, "bob"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	err := reg.Join(context.Background(), "standup123", b, "bob")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}
	// The first bob is unaffected, and there is still exactly one member.
	if got := reg.Members("standup123"); got != 1 {
		t.Fatalf("members = %d, want 1", got)
	}
	if room, ok := reg.FindRoom(a); !ok || room != "standup123" {
		t.Fatalf("first member lost its room: %q, %v", room, ok)
	}
	if b.Joined() {
		t.Fatal("second bob marked joined")
	}
}

func TestDuplicateUsernameIsCaseSensitive(t *testing.T) {
	reg, _ := newTestRegistry(t, "standup123")
	a := NewConn(nil, 8)
	b := NewConn(nil, 8)

	if err := reg.Join(context.Background(), "standup123", a, "bob"); err != nil {
		t.Fatalf("join bob: %v", err)
	}
	if err := reg.Join(context.Background(), "standup123", b, "Bob"); err != nil {
		t.Fatalf("join Bob: %v", err)
	}
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	reg, _ := newTestRegistry(t, "standup123")
	a := NewConn(nil, 8)
	b := NewConn(nil, 8)

	for i, c := range []*Conn{a, b} {
		if err := reg.Join(context.Background(), "standup123", c, []string{"alice", "bob"}[i]); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}

	reg.Leave(a)
	if got := reg.Members("standup123"); got != 1 {
		t.Fatalf("members after first leave = %d, want 1", got)
	}

	reg.Leave(b)
	reg.mu.Lock()
	_, exists := reg.rooms["standup123"]
	reg.mu.Unlock()
	if exists {
		t.Fatal("empty room entry not deleted")
	}
	if _, ok := reg.FindRoom(b); ok {
		t.Fatal("FindRoom still resolves after leave")
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	reg, _ := newTestRegistry(t, "standup123")
	c := NewConn(nil, 8)

	// Never joined: no-op.
	reg.Leave(c)

	if err := reg.Join(context.Background(), "standup123", c, "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}
	reg.Leave(c)
	reg.Leave(c)
	if _, ok := reg.FindRoom(c); ok {
		t.Fatal("back-reference survived leave")
	}
}

func TestJoinDirectoryDown(t *testing.T) {
	reg := NewRegistry(failingDirectory{}, testLogger())
	c := NewConn(nil, 8)

	err := reg.Join(context.Background(), "standup123", c, "alice")
	if !errors.Is(err, ErrDirectoryUnavailable) {
		t.Fatalf("err = %v, want ErrDirectoryUnavailable", err)
	}
}

func TestUsernameTaken(t *testing.T) {
	reg, _ := newTestRegistry(t, "standup123")
	c := NewConn(nil, 8)
	if err := reg.Join(context.Background(), "standup123", c, "alice"); err != nil {
		t.Fatalf("join: %v", err)
	}

	if !reg.UsernameTaken("standup123", "alice") {
		t.Fatal("alice should be taken")
	}
	if reg.UsernameTaken("standup123", "bob") {
		t.Fatal("bob should be free")
	}
	if reg.UsernameTaken("otherroom9", "alice") {
		t.Fatal("alice is not in otherroom9")
	}
}
