package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry without panicking.
func TestMetricsRegistered(t *testing.T) {
	// Counters and histograms only appear in a gather after the first
	// observation, so seed every metric before checking.
	RequestsTotal.WithLabelValues("GET", "2xx").Inc()
	RequestDuration.WithLabelValues("GET").Observe(0.1)
	EngineRequestsTotal.WithLabelValues("llamacpp", "test", "ok").Inc()
	EngineLatency.WithLabelValues("llamacpp", "test").Observe(0.1)
	EngineTokensTotal.WithLabelValues("llamacpp", "test", "prefill").Add(10)
	FunctionCallsTotal.WithLabelValues("test").Inc()
	RateLimitRejectedTotal.WithLabelValues("default").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"ocotillo_requests_total":           false,
		"ocotillo_request_duration_seconds": false,
		"ocotillo_engine_requests_total":    false,
		"ocotillo_engine_latency_seconds":   false,
		"ocotillo_engine_tokens_total":      false,
		"ocotillo_function_calls_total":     false,
		"ocotillo_ratelimit_rejected_total": false,
	}

	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

// TestMiddlewareRecordsRequestCount verifies that the middleware increments
// the request counter for each served request.
func TestMiddlewareRecordsRequestCount(t *testing.T) {
	before := counterValue(t, RequestsTotal, "GET", "2xx")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/v1/completions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := counterValue(t, RequestsTotal, "GET", "2xx")
	if after-before != 1 {
		t.Errorf("expected request count to increase by 1, got delta=%f", after-before)
	}
}

// TestMiddlewareRecordsDuration verifies that the middleware records
// a request duration observation.
func TestMiddlewareRecordsDuration(t *testing.T) {
	before := histogramCount(t, RequestDuration, "POST")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/v1/completions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := histogramCount(t, RequestDuration, "POST")
	if after-before != 1 {
		t.Errorf("expected histogram sample count to increase by 1, got delta=%d", after-before)
	}
}

// TestMiddlewareCapturesStatusCode verifies that non-200 status codes are
// captured correctly in the status label.
func TestMiddlewareCapturesStatusCode(t *testing.T) {
	before := counterValue(t, RequestsTotal, "POST", "4xx")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest("POST", "/v1/completions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := counterValue(t, RequestsTotal, "POST", "4xx")
	if after-before != 1 {
		t.Errorf("expected 4xx count to increase by 1, got delta=%f", after-before)
	}
}

// TestMiddlewareImplicitStatus verifies that a handler writing a body
// without calling WriteHeader is recorded as 2xx.
func TestMiddlewareImplicitStatus(t *testing.T) {
	before := counterValue(t, RequestsTotal, "GET", "2xx")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := counterValue(t, RequestsTotal, "GET", "2xx")
	if after-before != 1 {
		t.Errorf("expected 2xx count to increase by 1, got delta=%f", after-before)
	}
}

// TestRecordEngineRequest verifies the engine round-trip helper touches
// the counters and the latency histogram.
func TestRecordEngineRequest(t *testing.T) {
	reqBefore := counterValue(t, EngineRequestsTotal, "llamacpp", "llama-3", "ok")
	latBefore := histogramCount(t, EngineLatency, "llamacpp", "llama-3")
	prefillBefore := counterValue(t, EngineTokensTotal, "llamacpp", "llama-3", "prefill")
	decodeBefore := counterValue(t, EngineTokensTotal, "llamacpp", "llama-3", "decode")

	RecordEngineRequest("llamacpp", "llama-3", "ok", 0.42, 17, 9)

	if d := counterValue(t, EngineRequestsTotal, "llamacpp", "llama-3", "ok") - reqBefore; d != 1 {
		t.Errorf("engine requests delta = %f, want 1", d)
	}
	if d := histogramCount(t, EngineLatency, "llamacpp", "llama-3") - latBefore; d != 1 {
		t.Errorf("latency sample delta = %d, want 1", d)
	}
	if d := counterValue(t, EngineTokensTotal, "llamacpp", "llama-3", "prefill") - prefillBefore; d != 17 {
		t.Errorf("prefill token delta = %f, want 17", d)
	}
	if d := counterValue(t, EngineTokensTotal, "llamacpp", "llama-3", "decode") - decodeBefore; d != 9 {
		t.Errorf("decode token delta = %f, want 9", d)
	}
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter: %v", err)
	}
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("reading counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	h, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting histogram: %v", err)
	}
	m := &dto.Metric{}
	if obs, ok := h.(prometheus.Histogram); ok {
		if err := obs.Write(m); err != nil {
			t.Fatalf("reading histogram: %v", err)
		}
	} else {
		t.Fatal("metric is not a histogram")
	}
	return m.GetHistogram().GetSampleCount()
}
