package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connections_active",
		Help: "Live websocket connections, joined or not.",
	})
	RoomsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_rooms_active",
		Help: "Rooms with at least one member in the registry.",
	})
	RoomsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_rooms_created_total",
		Help: "Room keys committed to the directory.",
	})
	MessagesBroadcast = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_broadcast_total",
		Help: "Chat messages and announcements fanned out.",
	})
	JoinRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_join_rejections_total",
		Help: "Join attempts rejected, by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(
		ConnectionsActive,
		RoomsActive,
		RoomsCreated,
		MessagesBroadcast,
		JoinRejections,
	)
}

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
