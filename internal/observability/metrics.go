// Package observability defines the service's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "geomag"

// Metrics holds the Prometheus collectors for fetching, normalization,
// publishing and HTTP serving.
type Metrics struct {
	FetchRequests   *prometheus.CounterVec   // labels: resource, outcome={success,error}
	FetchDuration   *prometheus.HistogramVec // labels: resource
	ResourceState   *prometheus.GaugeVec     // labels: resource; value is the FetchState
	Records         *prometheus.GaugeVec     // labels: kind={observatories,institutes,contacts,definitives}
	DroppedEntries  *prometheus.CounterVec   // labels: reason={no_membership,duplicate,invalid}
	MissingLocation prometheus.Gauge
	StaleResults    prometheus.Counter
	PipelineRunning prometheus.Gauge

	// Publishing metrics.
	PublishedRecords prometheus.Counter
	PublishErrors    prometheus.Counter

	// HTTP metrics.
	HTTPRequestDuration *prometheus.HistogramVec // labels: route, code
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Metadata fetches by resource and outcome.",
		}, []string{"resource", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a metadata fetch including decoding.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"resource"}),
		ResourceState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resource_state",
			Help:      "Fetch state per resource: 0 idle, 1 loading, 2 loaded, 3 errored.",
		}, []string{"resource"}),
		Records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Normalized records in the current snapshot.",
		}, []string{"kind"}),
		DroppedEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_entries_total",
			Help:      "Observatory entries skipped during normalization, by reason.",
		}, []string{"reason"}),
		MissingLocation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observatories_missing_location",
			Help:      "Observatories in the current snapshot without coordinates.",
		}),
		StaleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Fetch results discarded because their cycle was superseded or cancelled.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		PublishedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_records_total",
			Help:      "Observatory records written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish attempts.",
		}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route pattern and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FetchRequests,
		m.FetchDuration,
		m.ResourceState,
		m.Records,
		m.DroppedEntries,
		m.MissingLocation,
		m.StaleResults,
		m.PipelineRunning,
		m.PublishedRecords,
		m.PublishErrors,
		m.HTTPRequestDuration,
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}
