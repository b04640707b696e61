// Package metrics defines the domain Prometheus collectors exported on
// /metrics. HTTP request metrics come from echoprometheus in the router.
// All collectors here register with the default registry through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "studio"

// AuthAttemptsTotal counts sign-up, sign-in and refresh calls.
// Labels:
//   - operation: sign_up, sign_in, refresh, sign_out
//   - outcome: success, rejected (client error), error (server error)
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "attempts_total",
		Help:      "Authentication operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

// TokenVerificationsTotal counts access token checks made by the
// authentication middleware, by result (ok, missing, expired, invalid).
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "token_verifications_total",
		Help:      "Access token verifications by result.",
	},
	[]string{"result"},
)

var RoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "users",
		Name:      "role_changes_total",
		Help:      "Role assignments made by administrators, by new role.",
	},
	[]string{"role"},
)
