// Package metrics defines and registers all custom Prometheus metrics for the
// community app. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "community"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - channel: "form" (session login) or "token" (bearer token issue)
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by channel and result.",
	},
	[]string{"channel", "result"},
)

// RegistrationsTotal counts successful resident registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of residents registered.",
	},
)

// AccessDeniedTotal counts requests rejected by the authorization policy.
// Label:
//   - action: the policy action that was denied (e.g. "notice:post")
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests denied by policy, by action.",
	},
	[]string{"action"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// RequestsSubmittedTotal counts newly submitted service requests.
// Labels:
//   - category: e.g. "plumbing"
//   - priority: e.g. "urgent"
var RequestsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_requests_submitted_total",
		Help:      "Total number of service requests submitted, by category and priority.",
	},
	[]string{"category", "priority"},
)

// RequestStatusChangesTotal counts status updates made by the secretary.
// Label:
//   - status: the status applied
var RequestStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_request_status_changes_total",
		Help:      "Total number of service request status changes, by new status.",
	},
	[]string{"status"},
)

// NoticesPostedTotal counts published notices.
// Label:
//   - priority: e.g. "high"
var NoticesPostedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notices_posted_total",
		Help:      "Total number of notices posted, by priority.",
	},
	[]string{"priority"},
)

// ChatMessagesTotal counts posted chat messages.
var ChatMessagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_messages_total",
		Help:      "Total number of chat messages posted.",
	},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityEventsTotal counts audit events handled by the dispatcher.
// Label:
//   - result: "stored", "dropped" (queue full) or "failed" (insert error)
var ActivityEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_events_total",
		Help:      "Total number of activity events, by outcome.",
	},
	[]string{"result"},
)

// ActivityQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Community gauges ──────────────────────────────────────────────────────────

// Residents, Notices, PendingRequests and Messages mirror the secretary
// dashboard counts. They are refreshed periodically by the stats scheduler.
var (
	Residents = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "residents",
		Help:      "Number of registered residents.",
	})
	Notices = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notices",
		Help:      "Number of published notices.",
	})
	PendingRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "service_requests_pending",
		Help:      "Number of service requests in pending status.",
	})
	Messages = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chat_messages",
		Help:      "Number of stored chat messages.",
	})
)

// StatsRefreshDuration measures how long a stats refresh takes.
var StatsRefreshDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_refresh_duration_seconds",
		Help:      "Duration of the periodic stats refresh.",
		Buckets:   prometheus.DefBuckets,
	},
)
