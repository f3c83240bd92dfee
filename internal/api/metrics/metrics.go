// Package metrics defines and registers the custom Prometheus metrics of the
// kanban board API. Request-level metrics (latency, status codes) come from
// the echoprometheus middleware; this package covers domain counters.
//
// All metrics are registered with the default registry at package init via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kanban"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "invalid", "conflict", "throttled" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// AuthRejectionsTotal counts requests the bearer gate turned away.
// Label:
//   - reason: "missing_header", "malformed_header" or "invalid_token"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the authentication gate.",
	},
	[]string{"reason"},
)

// ── Ticket metrics ────────────────────────────────────────────────────────────

// TicketOperationsTotal counts successful ticket mutations.
// Label:
//   - action: "created", "updated" or "deleted"
var TicketOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticket_operations_total",
		Help:      "Total number of successful ticket mutations, by action.",
	},
	[]string{"action"},
)

// TicketsCreatedTotal counts new tickets by their initial swimlane.
var TicketsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Total number of tickets created, by initial status.",
	},
	[]string{"status"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UserOperationsTotal counts successful account mutations made through /users.
var UserOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_operations_total",
		Help:      "Total number of successful user mutations, by action.",
	},
	[]string{"action"},
)

// ── Dependency metrics ────────────────────────────────────────────────────────

// DependencyUp reports the last readiness probe result per dependency
// (1 healthy, 0 unhealthy).
var DependencyUp = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dependency_up",
		Help:      "Whether a backing dependency answered the last readiness probe.",
	},
	[]string{"dependency"},
)
