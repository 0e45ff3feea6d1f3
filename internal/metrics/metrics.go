// Package metrics exposes Prometheus collectors for screen mutations,
// mounted screens, authentication attempts and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "planner"

// Registry holds the service's collectors on a private Prometheus registry
type Registry struct {
	reg *prometheus.Registry

	Mutations      *prometheus.CounterVec
	MountedScreens *prometheus.GaugeVec
	AuthAttempts   *prometheus.CounterVec
	Requests       *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
}

// New creates a registry with every collector registered
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Screen mutation commands by record type, operation and outcome",
			},
			[]string{"record", "op", "outcome"},
		),

		MountedScreens: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mounted_screens",
				Help:      "Currently mounted screens by kind",
			},
			[]string{"kind"},
		),

		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Identity provider calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),

		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		RequestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"route"},
		),
	}

	r.reg.MustRegister(
		r.Mutations,
		r.MountedScreens,
		r.AuthAttempts,
		r.Requests,
		r.RequestSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Mutation counts one screen mutation command
func (r *Registry) Mutation(record, op, outcome string) {
	r.Mutations.WithLabelValues(record, op, outcome).Inc()
}

// SetMounted records how many screens of kind are mounted
func (r *Registry) SetMounted(kind string, n int) {
	r.MountedScreens.WithLabelValues(kind).Set(float64(n))
}

// AuthAttempt counts one identity provider call
func (r *Registry) AuthAttempt(op, outcome string) {
	r.AuthAttempts.WithLabelValues(op, outcome).Inc()
}

// ObserveRequest records a finished HTTP request. Route is the matched
// pattern, not the raw path.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestSeconds.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Gatherer exposes the underlying registry
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
