package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "marina_dashboard"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests grouped by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	upstreamCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "calls_total",
		Help:      "Calls to the data service grouped by operation and outcome.",
	}, []string{"backend", "operation", "outcome"})

	upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "call_duration_seconds",
		Help:      "Latency of calls to the data service.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	tenantResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tenant",
		Name:      "resolutions_total",
		Help:      "Tenant resolutions grouped by identifier kind and outcome.",
	}, []string{"kind", "outcome"})

	dayFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "day_fallbacks_total",
		Help:      "Dashboard reads served from the latest active day instead of today.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, upstreamCalls, upstreamDuration, tenantResolutions, dayFallbacks)
}

// RecordHTTPRequest records one served request. route is the matched route
// pattern, never the raw path.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveUpstream records the outcome of a data service call started at start.
func ObserveUpstream(backend, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamCalls.WithLabelValues(backend, operation, outcome).Inc()
	upstreamDuration.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
}

// RecordTenantResolution counts a resolution. kind is "numeric", "slug" or
// "cache"; outcome is "ok", "missing", "unknown" or "error".
func RecordTenantResolution(kind, outcome string) {
	tenantResolutions.WithLabelValues(kind, outcome).Inc()
}

// RecordDayFallback counts a dashboard read served from an earlier day.
func RecordDayFallback() {
	dayFallbacks.Inc()
}
