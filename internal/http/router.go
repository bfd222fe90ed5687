package httpx

import (
	"net/http"

	"log/slog"

	"github.com/NewBieCoderXD/chat-website/internal/app"
	"github.com/NewBieCoderXD/chat-website/internal/relay"
	"github.com/NewBieCoderXD/chat-website/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *relay.Hub, api *RoomsAPI) http.Handler {
	mw := NewMiddleware(cfg)

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Room endpoints: creation plus pre-join validation for the form layer
	mux.Handle("POST /api/rooms", http.HandlerFunc(api.Create))
	mux.Handle("POST /api/rooms/validate", http.HandlerFunc(api.Validate))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
