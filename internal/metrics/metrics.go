// Package metrics holds the process-wide Prometheus registry the pollers
// write into and the exporter serves.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	RequestSecondsName  = "http_status_request_seconds"
	RequestResponseName = "http_status_request_response_total"
)

// Metrics is safe for concurrent use by any number of pollers.
type Metrics struct {
	registry       *prometheus.Registry
	requestSeconds *prometheus.SummaryVec
	responses      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestSeconds: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       RequestSecondsName,
			Help:       "Times the http(s) request was made",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"domain"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RequestResponseName,
			Help: "Response codes from http(s) requests",
		}, []string{"domain", "code"}),
	}
	m.registry.MustRegister(
		m.requestSeconds,
		m.responses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveResponse counts one received response for domain.
func (m *Metrics) ObserveResponse(domain string, code int) {
	m.responses.WithLabelValues(domain, strconv.Itoa(code)).Inc()
}

// ObserveDuration records one completed request cycle for domain.
func (m *Metrics) ObserveDuration(domain string, d time.Duration) {
	m.requestSeconds.WithLabelValues(domain).Observe(d.Seconds())
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
