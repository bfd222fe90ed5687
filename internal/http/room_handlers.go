package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/NewBieCoderXD/chat-website/internal/directory"
	"github.com/NewBieCoderXD/chat-website/internal/relay"
)

// RoomsAPI exposes room creation and pre-join validation to the form layer.
// Validation errors come back as machine-readable kinds so that layer can
// render them inline.
type RoomsAPI struct {
	Alloc *relay.Allocator
	Reg   *relay.Registry
	Dir   directory.Directory
}

type createRoomReq struct {
	RoomName string `json:"roomName"`
	Username string `json:"username"`
}
type createRoomResp struct {
	RoomKey  string `json:"roomKey"`
	RoomName string `json:"roomName"`
}

type validateReq struct {
	RoomKey  string `json:"roomKey"`
	Username string `json:"username"`
}
type validateResp struct {
	OK       bool   `json:"ok"`
	RoomName string `json:"roomName,omitempty"`
}

type errResp struct {
	Error string `json:"error"`
}

const (
	kindInvalidRoomKey       = "invalid-room-key"
	kindDuplicateUsername    = "duplicate-username"
	kindDirectoryUnavailable = "directory-unavailable"
	kindInvalidPayload       = "invalid-payload"
)

// Create allocates a room key and registers it in the directory.
func (a *RoomsAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidPayload)
		return
	}
	req.RoomName = strings.TrimSpace(req.RoomName)
	req.Username = strings.TrimSpace(req.Username)
	if req.RoomName == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, kindInvalidPayload)
		return
	}

	key, err := a.Alloc.Allocate(r.Context(), req.RoomName)
	if err != nil {
		// Retryable: nothing was allocated.
		writeError(w, http.StatusServiceUnavailable, kindDirectoryUnavailable)
		return
	}

	writeJSON(w, http.StatusCreated, createRoomResp{RoomKey: key, RoomName: req.RoomName})
}

// Validate checks a candidate key + username before the websocket upgrade:
// key length, directory existence, then username uniqueness against current
// membership.
func (a *RoomsAPI) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, kindInvalidPayload)
		return
	}

	// Wrong-length keys are rejected before the directory is queried.
	if len(req.RoomKey) != a.Alloc.KeyLen() {
		writeError(w, http.StatusUnprocessableEntity, kindInvalidRoomKey)
		return
	}

	name, ok, err := a.Dir.Get(r.Context(), req.RoomKey)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, kindDirectoryUnavailable)
		return
	}
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, kindInvalidRoomKey)
		return
	}

	if a.Reg.UsernameTaken(req.RoomKey, req.Username) {
		writeError(w, http.StatusConflict, kindDuplicateUsername)
		return
	}

	writeJSON(w, http.StatusOK, validateResp{OK: true, RoomName: name})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind string) {
	writeJSON(w, status, errResp{Error: kind})
}
