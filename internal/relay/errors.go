package relay

import "errors"

var (
	// ErrInvalidRoomKey means the key is absent from the room directory
	// (or malformed at the HTTP validation boundary).
	ErrInvalidRoomKey = errors.New("invalid room key")

	// ErrDuplicateUsername means the name is already bound in the target room.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrMalformedJoin is fatal to a connection: the first frame did not
	// parse as a join descriptor.
	ErrMalformedJoin = errors.New("malformed join frame")

	// ErrDirectoryUnavailable wraps room directory failures; callers may retry.
	ErrDirectoryUnavailable = errors.New("room directory unavailable")
)

// RejectionReason labels a join error for logs and metrics.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRoomKey):
		return "invalid-room-key"
	case errors.Is(err, ErrDuplicateUsername):
		return "duplicate-username"
	case errors.Is(err, ErrDirectoryUnavailable):
		return "directory-unavailable"
	default:
		return "other"
	}
}
