// Package metrics defines and registers all custom Prometheus metrics for the
// task-tracker API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at package
// load; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasktracker"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "not_found" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "duplicate", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// PasswordResetsTotal counts completed password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of successful password resets.",
	},
)

// TaskMutationsTotal counts task writes.
// Labels:
//   - op: "create", "update", "update_status" or "delete"
//   - result: "success", "not_found", "invalid" or "error"
var TaskMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_mutations_total",
		Help:      "Total number of task mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// SessionCacheTotal counts session user-resolution cache lookups.
// Label:
//   - result: "hit" or "miss"
var SessionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_cache_total",
		Help:      "Total number of session user cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)
