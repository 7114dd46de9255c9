package httpapi

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"locationd/internal/session"
)

func TestPrometheusPublisherCountsByName(t *testing.T) {
	mem := &session.MemoryPublisher{}
	pub := PrometheusPublisher{Next: mem}

	before := testutil.ToFloat64(sessionEventsTotal.WithLabelValues(session.EventRequestAdded))
	pub.Publish(session.Event{Name: session.EventRequestAdded, RequestID: "a"})
	pub.Publish(session.Event{Name: session.EventRequestAdded, RequestID: "b"})
	pub.Publish(session.Event{Name: session.EventPaused})

	after := testutil.ToFloat64(sessionEventsTotal.WithLabelValues(session.EventRequestAdded))
	if after-before != 2 {
		t.Fatalf("added counter delta = %v, want 2", after-before)
	}
	if got := len(mem.Events()); got != 3 {
		t.Fatalf("chained publisher saw %d events, want 3", got)
	}
}
