package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HubCollector exports hub metrics via the default Prometheus registry.
type HubCollector struct {
	// Live gauges
	sessionsConnected prometheus.Gauge
	roomsOpen         prometheus.Gauge

	// Counters
	joinsTotal         *prometheus.CounterVec
	eventsRelayedTotal *prometheus.CounterVec
	eventsDeniedTotal  *prometheus.CounterVec

	// Histograms
	joinDuration prometheus.Histogram
}

func NewHubCollector() *HubCollector {
	return &HubCollector{
		sessionsConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "inknet_sessions_connected",
			Help: "Number of currently connected sessions that are members of a room",
		}),

		roomsOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "inknet_rooms_open",
			Help: "Number of rooms with at least one member",
		}),

		joinsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inknet_joins_total",
			Help: "Total join attempts by result",
		}, []string{"result"}),

		eventsRelayedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inknet_events_relayed_total",
			Help: "Total events relayed to room members by event type",
		}, []string{"type"}),

		eventsDeniedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inknet_events_denied_total",
			Help: "Total events rejected by the permission gate by event type",
		}, []string{"type"}),

		joinDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "inknet_join_duration_seconds",
			Help:    "Duration of successful join handshakes including the access record fetch",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}),
	}
}

func (c *HubCollector) RecordJoin(result string, duration time.Duration) {
	c.joinsTotal.WithLabelValues(result).Inc()
	if duration > 0 {
		c.joinDuration.Observe(duration.Seconds())
	}
}

func (c *HubCollector) RecordEventRelayed(eventType string) {
	c.eventsRelayedTotal.WithLabelValues(eventType).Inc()
}

func (c *HubCollector) RecordEventDenied(eventType string) {
	c.eventsDeniedTotal.WithLabelValues(eventType).Inc()
}

func (c *HubCollector) SetLive(rooms, sessions int) {
	c.roomsOpen.Set(float64(rooms))
	c.sessionsConnected.Set(float64(sessions))
}
