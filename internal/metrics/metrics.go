// Package metrics provides Prometheus metrics for the MCP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCallsTotal counts dispatched tool calls by tool, operation, and outcome.
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctmcp",
			Name:      "tool_calls_total",
			Help:      "Total number of dispatched tool calls",
		},
		[]string{"tool", "operation", "status"},
	)

	// ValidationFailuresTotal counts tool calls rejected before any ksctl
	// invocation, by tool and failure kind.
	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctmcp",
			Name:      "validation_failures_total",
			Help:      "Tool calls rejected during validation",
		},
		[]string{"tool", "reason"},
	)

	// InvocationsTotal counts ksctl subprocess invocations by outcome.
	InvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctmcp",
			Name:      "ksctl_invocations_total",
			Help:      "Total number of ksctl invocations",
		},
		[]string{"tool", "operation", "status"},
	)

	// InvocationDuration tracks ksctl invocation duration by tool and operation.
	InvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ctmcp",
			Name:      "ksctl_invocation_duration_seconds",
			Help:      "ksctl invocation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tool", "operation"},
	)

	// InvocationsInFlight tracks the number of ksctl processes currently running.
	InvocationsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ctmcp",
			Name:      "ksctl_invocations_in_flight",
			Help:      "Number of ksctl invocations currently running",
		},
	)

	// HTTPRequestsTotal counts admin listener requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctmcp",
			Name:      "http_requests_total",
			Help:      "Total number of admin HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks admin listener request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ctmcp",
			Name:      "http_request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// AuditEntriesTotal counts audit records written by backend and outcome.
	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctmcp",
			Name:      "audit_entries_total",
			Help:      "Total number of audit entries written",
		},
		[]string{"backend", "status"},
	)

	// RateLimitedTotal counts tool calls rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ctmcp",
			Name:      "rate_limited_total",
			Help:      "Tool calls rejected by the rate limiter",
		},
		[]string{"tool"},
	)
)
