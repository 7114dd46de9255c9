package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"

	"locationd/internal/session"
)

var sessionEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "locationd",
		Subsystem: "session",
		Name:      "events_total",
		Help:      "Total session lifecycle events by name",
	},
	[]string{"name"},
)

func init() {
	prometheus.MustRegister(sessionEventsTotal)
}

// PrometheusPublisher counts session events by name. Wire it into the session
// as its EventPublisher so lifecycle activity shows up on /metrics.
type PrometheusPublisher struct {
	// Next, when set, also receives every event (e.g. a MemoryPublisher in
	// tests).
	Next session.EventPublisher
}

func (p PrometheusPublisher) Publish(e session.Event) {
	sessionEventsTotal.WithLabelValues(e.Name).Inc()
	if p.Next != nil {
		p.Next.Publish(e)
	}
}
