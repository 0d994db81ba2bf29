// Package metrics defines and registers all custom Prometheus metrics for the
// portal auth service. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginAttemptsTotal counts credential sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials", or "locked"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of credential sign-in attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration requests.
// Label:
//   - result: "created", "duplicate", or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration requests, by result.",
	},
	[]string{"result"},
)

// SessionsIssuedTotal counts minted session tokens.
// Label:
//   - flow: "credentials", "oauth_google", "oauth_github"
var SessionsIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of session tokens issued, by flow.",
	},
	[]string{"flow"},
)

// AuthEventsTotal counts audit-trail events as they are processed.
// Label:
//   - kind: audit event kind (e.g. "login_failure", "lockout")
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of audit events processed, by kind.",
	},
	[]string{"kind"},
)
