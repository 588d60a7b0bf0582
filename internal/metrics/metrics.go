// Package metrics exposes Prometheus metrics for the game catalog API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gamevault"

// Recorder owns a private registry and the collectors recorded into it.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	gameOperations  *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	dependencyUp    *prometheus.GaugeVec
}

// NewRecorder creates a recorder with Go runtime and process collectors registered
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		gameOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "game_operations_total",
			Help:      "Game service operations by outcome.",
		}, []string{"operation", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dependencyUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dependency_up",
			Help:      "1 when the last probe of a dependency succeeded, 0 otherwise.",
		}, []string{"dependency"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.gameOperations,
		r.httpRequests,
		r.requestDuration,
		r.dependencyUp,
	)
	return r
}

// RecordGameOperation counts one game service call
func (r *Recorder) RecordGameOperation(operation, outcome string) {
	if r == nil {
		return
	}
	r.gameOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordHTTPRequest counts a served request and observes its latency.
// route is the matched mux pattern, not the raw path, to bound cardinality.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetDependencyUp records the result of the latest probe of a dependency
func (r *Recorder) SetDependencyUp(dependency string, up bool) {
	if r == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	r.dependencyUp.WithLabelValues(dependency).Set(v)
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
