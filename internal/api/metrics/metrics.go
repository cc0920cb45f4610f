// Package metrics defines the custom Prometheus metrics of the marketplace
// API. All metrics register with the default registry on import, which is
// the registry echoprometheus serves at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "writerhub"

// Result label values.
const (
	ResultOK        = "ok"
	ResultDuplicate = "duplicate"
	ResultInvalid   = "invalid"
	ResultRejected  = "rejected"
	ResultError     = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignUpsTotal counts sign-up attempts.
// Label:
//   - result: "ok", "duplicate", "invalid" or "error"
var SignUpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "signups_total",
		Help:      "Total number of sign-up attempts, by result.",
	},
	[]string{"result"},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "ok", "rejected" or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// ── Admin metrics ─────────────────────────────────────────────────────────────

// AdminOperationsTotal counts privileged calls that passed the admin gate.
// Labels:
//   - operation: e.g. "list_users", "reset_password", "upsert_setting"
//   - result: "ok" or "error"
var AdminOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_operations_total",
		Help:      "Total number of admin operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsDispatchedTotal counts notifications handed to a sink.
// Label:
//   - variant: "default" or "destructive"
var NotificationsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dispatched_total",
		Help:      "Total number of notifications delivered to a sink, by variant.",
	},
	[]string{"variant"},
)

// Result maps an error to the generic "ok"/"error" label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
