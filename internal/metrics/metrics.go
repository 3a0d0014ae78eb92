package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chatrooms",
		Name:      "rooms_active",
		Help:      "Number of rooms currently held by the registry",
	})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chatrooms",
		Name:      "connections_active",
		Help:      "Number of open chat connections",
	})

	Broadcasts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatrooms",
		Name:      "broadcasts_total",
		Help:      "Events fanned out to room members, by event name",
	}, []string{"event"})

	DroppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chatrooms",
		Name:      "dropped_frames_total",
		Help:      "Outbound events dropped because a connection's send buffer was full",
	})

	RejectedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatrooms",
		Name:      "rejected_events_total",
		Help:      "Inbound events answered with an error, by event name",
	}, []string{"event"})
)

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
