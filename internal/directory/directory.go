// Package directory is the client side of the room directory: a durable
// mapping from room key to display name with per-entry expiry. The relay
// consults it to validate and allocate room keys but never owns its
// lifecycle; expired entries simply stop resolving.
package directory

import (
	"context"
	"time"
)

type Directory interface {
	// Get resolves a room key to its display name. ok is false when the key
	// is absent or expired; err reports directory unavailability only.
	Get(ctx context.Context, key string) (name string, ok bool, err error)

	// Set commits a key with its display name and TTL. The directory enforces
	// the expiry; callers never delete.
	Set(ctx context.Context, key, name string, ttl time.Duration) error

	// Keys snapshots all live keys, used for collision avoidance.
	Keys(ctx context.Context) ([]string, error)
}
