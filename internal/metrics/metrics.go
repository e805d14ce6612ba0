// Package metrics holds the Prometheus collectors for the tracker's domain
// components. HTTP traffic is instrumented separately by the middleware
// package; everything here describes what the monitoring pipeline does.
//
// Label cardinality is bounded: platform labels come from the configured
// platform list and every other label is a small fixed enumeration.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for GenerationCalls.
const (
	OutcomeAPI      = "api"
	OutcomeCache    = "cache"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
	OutcomeEmpty    = "empty"
)

var (
	// GenerationCalls counts Generate invocations by platform and how they
	// were served.
	GenerationCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_calls_total",
			Help: "Mention generation requests by platform and outcome.",
		},
		[]string{"platform", "outcome"},
	)

	// QuotaRemaining gauges the external API calls left in the session budget.
	QuotaRemaining = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "generation_quota_remaining",
			Help: "External generation calls left in the current session budget.",
		},
	)

	// MonitorTicks counts monitoring loop ticks by result (ok|error).
	MonitorTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_ticks_total",
			Help: "Monitoring loop ticks by result.",
		},
		[]string{"result"},
	)

	// PlatformFailures counts per-platform failures inside a tick
	// (timeouts and panics).
	PlatformFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_platform_failures_total",
			Help: "Per-platform generation failures inside a tick.",
		},
		[]string{"platform"},
	)

	// MentionsPersisted counts mention rows committed to the store.
	MentionsPersisted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mentions_persisted_total",
			Help: "Mentions committed to the store.",
		},
	)

	// HubConnections gauges currently connected broadcast listeners.
	HubConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connections",
			Help: "Currently connected websocket listeners.",
		},
	)

	// HubDropped counts listeners removed after a failed send.
	HubDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_dropped_listeners_total",
			Help: "Listeners removed after a failed delivery.",
		},
	)

	// AlertsSent counts outbound alert webhooks by result (ok|error).
	AlertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_sent_total",
			Help: "Negative-mention alert webhooks by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		GenerationCalls,
		QuotaRemaining,
		MonitorTicks,
		PlatformFailures,
		MentionsPersisted,
		HubConnections,
		HubDropped,
		AlertsSent,
	)
}
