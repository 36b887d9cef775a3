// Package metrics holds the process-wide Prometheus collectors served on
// /metrics by the REST mirror.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopify_mcp",
		Name:      "tool_calls_total",
		Help:      "Tool invocations by tool name and outcome.",
	}, []string{"tool", "outcome"})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopify_mcp",
		Name:      "upstream_requests_total",
		Help:      "Shopify Admin API requests by resource and HTTP status (0 = transport failure).",
	}, []string{"resource", "status"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shopify_mcp",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of Shopify Admin API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource"})
)
