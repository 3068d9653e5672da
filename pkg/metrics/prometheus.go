// Package metrics holds the Prometheus instruments of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	ItinerariesBuilt prometheus.Counter
	SegmentsParsed   prometheus.Counter
	LinesRejected    *prometheus.CounterVec
	AssembleTime     prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
	HTTPLatency      *prometheus.HistogramVec
	OverrideRefresh  *prometheus.CounterVec
	OverrideEntries  prometheus.Gauge
}

// NewMetrics creates the metrics on a fresh registry that also carries the
// Go runtime and process collectors.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetricsWith(namespace, reg)
}

// NewMetricsWith registers the metrics on reg.
func NewMetricsWith(namespace string, reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ItinerariesBuilt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "itineraries_built_total",
			Help:      "The total number of itineraries assembled",
		}),
		SegmentsParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_parsed_total",
			Help:      "The total number of segment lines parsed",
		}),
		LinesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_rejected_total",
			Help:      "Segment lines that could not be read, by reason",
		}, []string{"reason"}),
		AssembleTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assemble_duration_seconds",
			Help:      "Time taken to parse and render an itinerary",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OverrideRefresh: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "override_refresh_total",
			Help:      "Airport override refreshes by source and result",
		}, []string{"source", "result"}),
		OverrideEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "override_entries",
			Help:      "Number of airport overrides in the active snapshot",
		}),
	}
}

// ObserveItinerary records one assembled itinerary.
func (m *Metrics) ObserveItinerary(segments int, rejectReasons []string, took time.Duration) {
	if m == nil {
		return
	}
	m.ItinerariesBuilt.Inc()
	m.SegmentsParsed.Add(float64(segments))
	for _, reason := range rejectReasons {
		m.LinesRejected.WithLabelValues(reason).Inc()
	}
	m.AssembleTime.Observe(took.Seconds())
}

// ObserveRefresh records an override refresh outcome.
func (m *Metrics) ObserveRefresh(source string, entries int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.OverrideRefresh.WithLabelValues(source, "error").Inc()
		return
	}
	m.OverrideRefresh.WithLabelValues(source, "ok").Inc()
	m.OverrideEntries.Set(float64(entries))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
