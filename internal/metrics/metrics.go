package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for faregraph
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Source Metrics
	FareFetchesTotal  prometheus.CounterVec
	RouteSyncDuration prometheus.HistogramVec
	RouteEdgesSynced  prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faregraph_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "faregraph_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "faregraph_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
			[]string{"endpoint"},
		),
		FareFetchesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faregraph_fare_fetches_total",
				Help: "Fare series fetches per airline and outcome",
			},
			[]string{"airline", "outcome"},
		),
		RouteSyncDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "faregraph_route_sync_duration_seconds",
				Help:    "Duration of one full graph sync run by stage",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"stage"},
		),
		RouteEdgesSynced: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "faregraph_route_edges_synced_total",
				Help: "Route edges applied to the graph per sync run",
			},
			[]string{"outcome"},
		),
	}
}
