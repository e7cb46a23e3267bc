// Package metrics owns the Prometheus collectors describing the client's
// traffic to the backend and its store reloads.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "suggestly"

// Load outcomes recorded by the stores.
const (
	OutcomeApplied    = "applied"
	OutcomeSuperseded = "superseded"
	OutcomeFailed     = "failed"
)

type Collectors struct {
	Registry *prometheus.Registry

	inFlight prometheus.Gauge
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	loads    *prometheus.CounterVec
}

func New() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight backend requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend requests by response code and method.",
		}, []string{"code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"method"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "loads_total",
			Help:      "Store reloads by concern and outcome.",
		}, []string{"concern", "outcome"}),
	}
	c.Registry.MustRegister(c.inFlight, c.requests, c.duration, c.loads)
	return c
}

// InstrumentRoundTripper wraps next so every backend request is counted
// and timed.
func (c *Collectors) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(c.inFlight,
		promhttp.InstrumentRoundTripperCounter(c.requests,
			promhttp.InstrumentRoundTripperDuration(c.duration, next),
		),
	)
}

// ObserveLoad records the outcome of a store reload.
func (c *Collectors) ObserveLoad(concern, outcome string) {
	c.loads.WithLabelValues(concern, outcome).Inc()
}

// WriteToTextfile dumps the registry in the node-exporter textfile format.
func (c *Collectors) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.Registry)
}
