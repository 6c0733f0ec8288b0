// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lawconnect"

// AIRequestsTotal counts proxied AI calls.
// Labels:
//   - query_type: chatbot, legal_research, case_prediction, document_analysis
//   - status: success, error, timeout
var AIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_requests_total",
		Help:      "Total number of AI completion calls, by query type and outcome.",
	},
	[]string{"query_type", "status"},
)

var AIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ai_request_duration_seconds",
		Help:      "Latency of AI completion calls including failures.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 30},
	},
	[]string{"query_type"},
)

// AuditWriteFailuresTotal counts AI interactions whose audit row could not be
// written. The HTTP response is unaffected, so this is the only signal.
var AuditWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of AI interaction audit records that failed to persist.",
	},
)

// PasswordResetsTotal counts reset flow events.
// Label:
//   - outcome: requested, unknown_email, consumed, invalid, expired, used
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Password reset requests and consumption attempts, by outcome.",
	},
	[]string{"outcome"},
)

var ResetTokensSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_swept_total",
		Help:      "Expired password reset tokens deleted by the sweep.",
	},
)
