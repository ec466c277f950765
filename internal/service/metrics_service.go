package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the booking lifecycle.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	conflicts       prometheus.Counter
	integrityFaults prometheus.Counter
	settlements     prometheus.Counter
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

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Booking lifecycle transitions applied",
	}, []string{"from", "to"})

	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Booking writes rejected by the slot or status guards",
	})

	integrityFaults := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calendar_integrity_faults_total",
		Help: "Duplicate active bookings observed by the reconciler",
	})

	settlements := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_settlements_total",
		Help: "Past bookings paid out to tutors",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, transitions, conflicts, integrityFaults, settlements, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		transitions:     transitions,
		conflicts:       conflicts,
		integrityFaults: integrityFaults,
		settlements:     settlements,
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

// ObserveTransition counts one applied lifecycle transition.
func (m *MetricsService) ObserveTransition(from, to models.BookingStatus) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// ObserveConflict counts one write rejected by a concurrency guard.
func (m *MetricsService) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

// ObserveIntegrityFault counts one duplicate-slot observation.
func (m *MetricsService) ObserveIntegrityFault() {
	if m == nil {
		return
	}
	m.integrityFaults.Inc()
}

// ObserveSettlements counts paid-out bookings.
func (m *MetricsService) ObserveSettlements(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.settlements.Add(float64(n))
}
