package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for a breach-radius run
type Registry struct {
	// Query Metrics
	QueriesTotal     *prometheus.CounterVec
	QueryDuration    *prometheus.HistogramVec
	NodesCompromised *prometheus.HistogramVec

	// Network Metrics
	GraphComputers   prometheus.Histogram
	GraphConnections prometheus.Histogram

	// Discovery Metrics
	DiscoveredComputers *prometheus.GaugeVec
	DiscoveryErrors     *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.QueriesTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "breach_radius_queries_total",
			Help: "Total number of simulation queries executed",
		},
		[]string{"operation", "status"},
	)

	r.QueryDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "breach_radius_query_duration_seconds",
			Help:    "Simulation query duration in seconds, graph construction included",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
		[]string{"operation"},
	)

	r.NodesCompromised = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "breach_radius_nodes_compromised",
			Help:    "Number of computers reached per query",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		},
		[]string{"operation"},
	)

	r.GraphComputers = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "breach_radius_graph_computers",
			Help:    "Number of computers per built network",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	r.GraphConnections = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "breach_radius_graph_connections",
			Help:    "Number of stored connections per built network",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		},
	)

	r.DiscoveredComputers = promauto.With(reg).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "breach_radius_discovered_computers",
			Help: "Computers found by the last AWS inventory, by resource type",
		},
		[]string{"type"},
	)

	r.DiscoveryErrors = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "breach_radius_discovery_errors_total",
			Help: "AWS inventory calls that failed, by resource type",
		},
		[]string{"type"},
	)

	return r
}

// RecordQuery records a simulation query. A nil registry records nothing.
func (r *Registry) RecordQuery(operation, status string, duration time.Duration, compromised int) {
	if r == nil {
		return
	}
	r.QueriesTotal.WithLabelValues(operation, status).Inc()
	r.QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	r.NodesCompromised.WithLabelValues(operation).Observe(float64(compromised))
}

// RecordGraph records the size of a built network
func (r *Registry) RecordGraph(computers, connections int) {
	if r == nil {
		return
	}
	r.GraphComputers.Observe(float64(computers))
	r.GraphConnections.Observe(float64(connections))
}

// RecordDiscovery records the outcome of listing one resource type
func (r *Registry) RecordDiscovery(resourceType string, count int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.DiscoveryErrors.WithLabelValues(resourceType).Inc()
		return
	}
	r.DiscoveredComputers.WithLabelValues(resourceType).Set(float64(count))
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node exporter textfile collector
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
