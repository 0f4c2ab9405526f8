// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Borrowing operation names
const (
	OpCheckout = "checkout"
	OpCheckin  = "checkin"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	borrowingOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_borrowing_operations_total",
			Help: "Checkout and checkin attempts by outcome",
		},
		[]string{"operation", "result"},
	)
	activeBorrowings = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_active_borrowings",
			Help: "Borrowings opened minus borrowings closed since process start",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, borrowingOps, activeBorrowings)
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveBorrowing records a lifecycle operation. result is "ok" or an error label.
func ObserveBorrowing(op, result string) {
	borrowingOps.WithLabelValues(op, result).Inc()
	if result != "ok" {
		return
	}
	switch op {
	case OpCheckout:
		activeBorrowings.Inc()
	case OpCheckin:
		activeBorrowings.Dec()
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
