package service

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/bw-lms-api/pkg/kv"
)

// MetricsService encapsulates Prometheus instrumentation. All methods are safe on a nil receiver.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	kvDuration      *prometheus.HistogramVec
	kvHitRatio      prometheus.Gauge
	logins          *prometheus.CounterVec
	rotations       prometheus.Counter
	quizSubmissions *prometheus.CounterVec
	completions     prometheus.Counter

	kvHitCount  uint64
	kvMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	kvDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lms_kv_operation_duration_seconds",
		Help:    "Latency of key-value store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "result"})

	kvHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lms_kv_hit_ratio",
		Help: "Ratio of key-value reads that found a record",
	})

	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_logins_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	rotations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lms_session_rotations_total",
		Help: "Session tokens rotated",
	})

	quizSubmissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lms_quiz_submissions_total",
		Help: "Quiz submissions by result",
	}, []string{"result"})

	completions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lms_module_completions_total",
		Help: "Modules marked completed",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, kvDuration, kvHitRatio, logins, rotations, quizSubmissions, completions, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		kvDuration:      kvDuration,
		kvHitRatio:      kvHitRatio,
		logins:          logins,
		rotations:       rotations,
		quizSubmissions: quizSubmissions,
		completions:     completions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveKVOperation implements kv.Observer. Reads also feed the hit ratio.
func (m *MetricsService) ObserveKVOperation(op string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case errors.Is(err, kv.ErrNotFound):
		result = "miss"
	case err != nil:
		result = "error"
	}
	m.kvDuration.WithLabelValues(op, result).Observe(duration.Seconds())

	if op != "get" || result == "error" {
		return
	}
	if result == "miss" {
		atomic.AddUint64(&m.kvMissCount, 1)
	} else {
		atomic.AddUint64(&m.kvHitCount, 1)
	}
	hits := atomic.LoadUint64(&m.kvHitCount)
	total := hits + atomic.LoadUint64(&m.kvMissCount)
	if total > 0 {
		m.kvHitRatio.Set(float64(hits) / float64(total))
	}
}

// RecordLogin counts a login attempt.
func (m *MetricsService) RecordLogin(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// RecordSessionRotation counts a rotated session token.
func (m *MetricsService) RecordSessionRotation() {
	if m == nil {
		return
	}
	m.rotations.Inc()
}

// RecordQuizSubmission counts an evaluated quiz submission.
func (m *MetricsService) RecordQuizSubmission(passed bool) {
	if m == nil {
		return
	}
	result := "failed"
	if passed {
		result = "passed"
	}
	m.quizSubmissions.WithLabelValues(result).Inc()
}

// RecordModuleCompletion counts a module transitioning to completed.
func (m *MetricsService) RecordModuleCompletion() {
	if m == nil {
		return
	}
	m.completions.Inc()
}
