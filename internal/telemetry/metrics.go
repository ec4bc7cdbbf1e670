package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	DependencyErrors    *prometheus.CounterVec
	ConsignmentsCreated prometheus.Counter
	LabelsRendered      prometheus.Counter
}

// NewMetrics creates Prometheus metrics registered against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "consign_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "consign_request_duration_seconds",
				Help:    "HTTP request duration in seconds by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		DependencyErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "consign_dependency_errors_total",
				Help: "Total upstream dependency failures by service and kind",
			},
			[]string{"service", "kind"},
		),
		ConsignmentsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "consign_consignments_created_total",
				Help: "Total number of consignments successfully created",
			},
		),
		LabelsRendered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "consign_labels_rendered_total",
				Help: "Total number of shipping labels written to disk",
			},
		),
	}
}

// RecordRequest records a completed HTTP request.
func (m *Metrics) RecordRequest(route, status string, duration float64) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration)
}

// RecordDependencyError records an upstream failure.
func (m *Metrics) RecordDependencyError(service, kind string) {
	m.DependencyErrors.WithLabelValues(service, kind).Inc()
}
