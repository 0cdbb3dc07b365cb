package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts requests by route, method, and status text.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	// HTTPRequestDuration observes per-route request latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	// AIRequestsTotal counts outbound model calls by operation.
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by operation",
		},
		[]string{"operation"},
	)
	// AIRequestDuration observes outbound model call latency.
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 25},
		},
		[]string{"operation"},
	)
	// AIFailuresTotal counts model calls that exhausted their retries.
	AIFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_failures_total",
			Help: "Total number of failed AI requests by operation",
		},
		[]string{"operation"},
	)

	// FallbacksTotal counts deterministic fallbacks taken per operation.
	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallbacks_total",
			Help: "Deterministic fallbacks taken by operation and reason",
		},
		[]string{"operation", "reason"},
	)

	// AnswerScoreHistogram tracks the distribution of returned answer scores.
	AnswerScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "answer_score",
			Help:    "Distribution of per-answer scores [0,100]",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

// InitMetrics registers all metrics once per process.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(AIRequestsTotal)
	prometheus.MustRegister(AIRequestDuration)
	prometheus.MustRegister(AIFailuresTotal)
	prometheus.MustRegister(FallbacksTotal)
	prometheus.MustRegister(AnswerScoreHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// StartAIRequest marks an outbound model call and returns a stop func that
// records its duration.
func StartAIRequest(operation string) func() {
	AIRequestsTotal.WithLabelValues(operation).Inc()
	start := time.Now()
	return func() {
		AIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// RecordAIFailure counts a model call that gave up.
func RecordAIFailure(operation string) {
	AIFailuresTotal.WithLabelValues(operation).Inc()
}

// RecordFallback counts a deterministic fallback.
func RecordFallback(operation, reason string) {
	FallbacksTotal.WithLabelValues(operation, reason).Inc()
}

// ObserveAnswerScore records a returned per-answer score.
func ObserveAnswerScore(score int) {
	AnswerScoreHistogram.Observe(float64(score))
}
