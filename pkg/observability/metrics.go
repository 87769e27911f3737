// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the ocotillo gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocotillo_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ocotillo_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// EngineRequestsTotal counts requests sent to inference engines.
	EngineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocotillo_engine_requests_total",
			Help: "Engine requests",
		},
		[]string{"engine", "model", "status"},
	)

	// EngineLatency records inference engine latency in seconds.
	EngineLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ocotillo_engine_latency_seconds",
			Help:    "Engine latency",
			Buckets: LLMBuckets,
		},
		[]string{"engine", "model"},
	)

	// EngineTokensTotal counts tokens processed by direction (prefill/decode).
	EngineTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocotillo_engine_tokens_total",
			Help: "Token count",
		},
		[]string{"engine", "model", "direction"},
	)

	// FunctionCallsTotal counts function calls extracted from completions.
	FunctionCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocotillo_function_calls_total",
			Help: "Extracted function calls",
		},
		[]string{"model"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ocotillo_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		EngineRequestsTotal,
		EngineLatency,
		EngineTokensTotal,
		FunctionCallsTotal,
		RateLimitRejectedTotal,
	)
}

// RecordEngineRequest records a completed engine round trip: the request
// outcome, its latency, and the token counts reported by the engine.
func RecordEngineRequest(engine, model, status string, seconds float64, prefillTokens, decodeTokens int) {
	EngineRequestsTotal.WithLabelValues(engine, model, status).Inc()
	EngineLatency.WithLabelValues(engine, model).Observe(seconds)
	if prefillTokens > 0 {
		EngineTokensTotal.WithLabelValues(engine, model, "prefill").Add(float64(prefillTokens))
	}
	if decodeTokens > 0 {
		EngineTokensTotal.WithLabelValues(engine, model, "decode").Add(float64(decodeTokens))
	}
}
