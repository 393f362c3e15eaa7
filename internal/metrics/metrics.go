// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smartfinance"

var (
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "RPC requests by procedure and result code.",
	}, []string{"procedure", "code"})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC handling latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	StoreWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_write_errors_total",
		Help:      "Failed durable writes by collection.",
	}, []string{"collection"})

	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_requests_total",
		Help:      "AI gateway calls by operation.",
	}, []string{"operation"})

	AIFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_fallbacks_total",
		Help:      "AI gateway calls answered with a fallback value.",
	}, []string{"operation", "reason"})

	LiveSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_sessions_active",
		Help:      "Live audio sessions currently open.",
	})

	LiveSessionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_session_errors_total",
		Help:      "Live audio sessions that ended in the error state.",
	}, []string{"reason"})

	LiveDroppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_dropped_frames_total",
		Help:      "Captured audio frames dropped because the outbound queue was full.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
