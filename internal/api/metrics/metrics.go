// Package metrics defines and registers all custom Prometheus metrics for the
// membership service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed through the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "membership"

// ── Use case metrics ──────────────────────────────────────────────────────────

// UseCaseTotal counts use case executions.
// Labels:
//   - use_case: "get_user_profile", "list_users", "update_user_profile", "upgrade_membership"
//   - outcome: "ok", "invalid_input", "not_found", "conflict", "not_eligible", "error"
var UseCaseTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "use_case_total",
		Help:      "Total number of use case executions, by outcome.",
	},
	[]string{"use_case", "outcome"},
)

// UseCaseDuration measures use case latency including repository access.
// Label:
//   - use_case: see UseCaseTotal
var UseCaseDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "use_case_duration_seconds",
		Help:      "Duration of use case executions.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"use_case"},
)

// UpgradesTotal counts successful free → premium upgrades.
var UpgradesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upgrades_total",
		Help:      "Total number of successful membership upgrades.",
	},
)

// ── Analytics metrics ─────────────────────────────────────────────────────────

// AnalyticsEventsTotal counts analytics events delivered to the sink.
// Label:
//   - event: the analytics event name (e.g. "user_profile_viewed")
var AnalyticsEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_events_total",
		Help:      "Total number of analytics events delivered, by event name.",
	},
	[]string{"event"},
)

// AnalyticsDroppedTotal counts events discarded because the dispatcher buffer
// was full or already closed.
var AnalyticsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_dropped_total",
		Help:      "Total number of analytics events dropped before delivery.",
	},
)

// AnalyticsSinkErrorsTotal counts sink write failures.
var AnalyticsSinkErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_sink_errors_total",
		Help:      "Total number of analytics sink write failures.",
	},
)
