package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors shared across the service.
// A nil *Metrics, or one built with a nil registerer, records nothing.
type Metrics struct {
	realtimeEvents      *prometheus.CounterVec
	realtimeDropped     *prometheus.CounterVec
	realtimeSubscribers prometheus.Gauge
	syncRefetches       *prometheus.CounterVec
	demandeTransitions  *prometheus.CounterVec
	realtimeSessions    prometheus.Gauge
}

// New registers the collectors on reg under the given namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		realtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_events_total",
			Help:      "Change events dispatched to local subscribers.",
		}, []string{"table", "type"}),
		realtimeDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_events_dropped_total",
			Help:      "Change events dropped because a subscriber buffer was full.",
		}, []string{"table"}),
		realtimeSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_subscriptions",
			Help:      "Open change-feed subscriptions.",
		}),
		syncRefetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_refetches_total",
			Help:      "Demande re-fetches by outcome.",
		}, []string{"outcome"}),
		demandeTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demande_transitions_total",
			Help:      "Demande lifecycle transitions by target status and result.",
		}, []string{"status", "result"}),
		realtimeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_sessions",
			Help:      "Connected WebSocket sessions.",
		}),
	}
	reg.MustRegister(
		m.realtimeEvents,
		m.realtimeDropped,
		m.realtimeSubscribers,
		m.syncRefetches,
		m.demandeTransitions,
		m.realtimeSessions,
	)
	return m
}

func (m *Metrics) EventDispatched(table, eventType string) {
	if m == nil || m.realtimeEvents == nil {
		return
	}
	m.realtimeEvents.WithLabelValues(normalizeLabel(table), normalizeLabel(eventType)).Inc()
}

func (m *Metrics) EventDropped(table string) {
	if m == nil || m.realtimeDropped == nil {
		return
	}
	m.realtimeDropped.WithLabelValues(normalizeLabel(table)).Inc()
}

func (m *Metrics) SubscriptionOpened() {
	if m == nil || m.realtimeSubscribers == nil {
		return
	}
	m.realtimeSubscribers.Inc()
}

func (m *Metrics) SubscriptionClosed() {
	if m == nil || m.realtimeSubscribers == nil {
		return
	}
	m.realtimeSubscribers.Dec()
}

// Refetch outcomes
const (
	RefetchApplied = "applied"
	RefetchStale   = "stale"
	RefetchError   = "error"
)

func (m *Metrics) Refetch(outcome string) {
	if m == nil || m.syncRefetches == nil {
		return
	}
	m.syncRefetches.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *Metrics) Transition(status, result string) {
	if m == nil || m.demandeTransitions == nil {
		return
	}
	m.demandeTransitions.WithLabelValues(normalizeLabel(status), normalizeLabel(result)).Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil || m.realtimeSessions == nil {
		return
	}
	m.realtimeSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil || m.realtimeSessions == nil {
		return
	}
	m.realtimeSessions.Dec()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
