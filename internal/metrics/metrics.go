package metrics

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ErlanBelekov/order-tracker/internal/domain"
	"github.com/ErlanBelekov/order-tracker/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	AuthEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordertracker",
		Name:      "auth_events_total",
		Help:      "Authentication attempts, by event and outcome.",
	}, []string{"event", "outcome"})

	LoginsThrottledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ordertracker",
		Name:      "logins_throttled_total",
		Help:      "Login attempts rejected by the per-client rate limiter.",
	})

	// Order metrics

	OrderTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordertracker",
		Name:      "order_transitions_total",
		Help:      "Orders entering each status.",
	}, []string{"status"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ordertracker",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordertracker",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		AuthEventsTotal,
		LoginsThrottledTotal,
		OrderTransitionsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// AuthEvent counts one signup, login or password operation.
func AuthEvent(event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}

// Orders records order status changes; it satisfies the use case's recorder.
type Orders struct{}

func (Orders) OrderTransition(to domain.OrderStatus) {
	OrderTransitionsTotal.WithLabelValues(string(to)).Inc()
}

// prober is satisfied by *health.Checker.
type prober interface {
	Liveness(ctx context.Context) health.HealthResult
	Readiness(ctx context.Context) health.HealthResult
}

// NewServer serves /metrics, /healthz and /readyz on a separate port.
func NewServer(addr string, checker prober) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, res health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if res.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(res)
}
