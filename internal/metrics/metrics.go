// Package metrics holds the prometheus collectors for the storefront and its
// demo backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Checkout outcomes.
const (
	OutcomeSucceeded         = "succeeded"
	OutcomeRejected          = "rejected"
	OutcomeBackendError      = "backend_error"
	OutcomeTransportError    = "transport_error"
	OutcomeAlreadyInProgress = "in_flight"
)

type CheckoutMetrics struct {
	Attempts *prometheus.CounterVec
	Duration prometheus.Histogram
	Spent    prometheus.Counter
}

// NewCheckoutMetrics registers the checkout collectors with reg. A nil reg
// leaves them unregistered.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by outcome and reason.",
	}, []string{"outcome", "reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "submit_duration_seconds",
		Help:      "Time spent waiting for the backend to accept a checkout.",
		Buckets:   prometheus.DefBuckets,
	})
	spent := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "spent_total",
		Help:      "Wallet amount spent on successful checkouts.",
	})

	if reg != nil {
		reg.MustRegister(attempts, duration, spent)
	}
	return &CheckoutMetrics{Attempts: attempts, Duration: duration, Spent: spent}
}

// Observe records one finished attempt. reason may be empty.
func (m *CheckoutMetrics) Observe(outcome, reason string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome, reason).Inc()
}

func (m *CheckoutMetrics) ObserveSubmit(took time.Duration) {
	if m == nil {
		return
	}
	m.Duration.Observe(took.Seconds())
}

func (m *CheckoutMetrics) AddSpent(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.Spent.Add(amount)
}

type ServerMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	if reg != nil {
		reg.MustRegister(requests, latency)
	}
	return &ServerMetrics{Requests: requests, Latency: latency}
}

func (m *ServerMetrics) ObserveRequest(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.Latency.WithLabelValues(route).Observe(took.Seconds())
}

// Handler exposes the collectors registered with g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
