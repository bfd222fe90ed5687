package relay

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"time"

	"log/slog"

	"github.com/NewBieCoderXD/chat-website/internal/directory"
	"github.com/NewBieCoderXD/chat-website/pkg/metrics"
)

// Room keys are lowercase base36, matching what clients type by hand.
const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Allocator mints room keys and commits them to the directory with a TTL.
// A key does not exist until the directory commit succeeds.
type Allocator struct {
	dir    directory.Directory
	log    *slog.Logger
	keyLen int
	ttl    time.Duration
}

func NewAllocator(dir directory.Directory, log *slog.Logger, keyLen int, ttl time.Duration) *Allocator {
	return &Allocator{dir: dir, log: log, keyLen: keyLen, ttl: ttl}
}

// KeyLen is the length of keys this allocator mints.
func (a *Allocator) KeyLen() int { return a.keyLen }

// Allocate generates a key that collides with no live key, commits it with
// the room's display name, and returns it. Directory failures surface as
// ErrDirectoryUnavailable and leave nothing allocated.
func (a *Allocator) Allocate(ctx context.Context, displayName string) (string, error) {
	keys, err := a.dir.Keys(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	live := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		live[k] = struct{}{}
	}

	key := randomKey(a.keyLen)
	for {
		if _, taken := live[key]; !taken {
			break
		}
		key = randomKey(a.keyLen)
	}

	if err := a.dir.Set(ctx, key, displayName, a.ttl); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	metrics.RoomsCreated.Inc()
	a.log.Info("room.created", "key", key, "name", displayName, "ttl", a.ttl)
	return key, nil
}

func randomKey(n int) string {
	b := make([]byte, n)
	_, _ = crand.Read(b) // never fails per crypto/rand docs
	for i := range b {
		b[i] = keyAlphabet[int(b[i])%len(keyAlphabet)]
	}
	return string(b)
}
