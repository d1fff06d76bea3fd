package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	DatasetRows    prometheus.Gauge
	RowsSkipped    *prometheus.CounterVec // labels: reason={missing_region,missing_product,bad_date,before_threshold}
	FilteredRows   prometheus.Gauge
	FilterEvents   *prometheus.CounterVec // labels: kind={region,category,range,relative,select,deselect,reset}
	RecomputeTotal prometheus.Counter

	RecomputeDuration prometheus.Histogram

	// Per-chart push metrics.
	ChartPushes      *prometheus.CounterVec // labels: chart={timeseries,category,product,region}
	ChartPushErrors  *prometheus.CounterVec // labels: chart
	BoundaryFetches  *prometheus.CounterVec // labels: outcome={success,error}
	BoundaryCacheHit prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "device_insights",
			Name:      "dataset_rows",
			Help:      "Rows retained in the dataset store after load-time filtering.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "device_insights",
			Name:      "rows_skipped_total",
			Help:      "Source rows dropped at load time, by reason.",
		}, []string{"reason"}),
		FilteredRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "device_insights",
			Name:      "filtered_rows",
			Help:      "Rows in the current filtered subset.",
		}),
		FilterEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "device_insights",
			Name:      "filter_events_total",
			Help:      "Filter-affecting events processed, by kind.",
		}, []string{"kind"}),
		RecomputeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "device_insights",
			Name:      "recompute_total",
			Help:      "Total filter/aggregate recomputation cycles.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "device_insights",
			Name:      "recompute_duration_seconds",
			Help:      "Duration of a full filter-aggregate-push cycle.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		ChartPushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "device_insights",
			Name:      "chart_pushes_total",
			Help:      "Series pushed to chart surfaces, by chart.",
		}, []string{"chart"}),
		ChartPushErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "device_insights",
			Name:      "chart_push_errors_total",
			Help:      "Failed chart surface pushes, by chart.",
		}, []string{"chart"}),
		BoundaryFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "device_insights",
			Name:      "boundary_fetches_total",
			Help:      "Geographic boundary fetches, by outcome.",
		}, []string{"outcome"}),
		BoundaryCacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "device_insights",
			Name:      "boundary_cache_hits_total",
			Help:      "Boundary requests served from the process-lifetime cache.",
		}),
	}

	prometheus.MustRegister(
		m.DatasetRows,
		m.RowsSkipped,
		m.FilteredRows,
		m.FilterEvents,
		m.RecomputeTotal,
		m.RecomputeDuration,
		m.ChartPushes,
		m.ChartPushErrors,
		m.BoundaryFetches,
		m.BoundaryCacheHit,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetRows:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "device_insights", Name: "dataset_rows"}),
		RowsSkipped:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "device_insights", Name: "rows_skipped_total"}, []string{"reason"}),
		FilteredRows:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "device_insights", Name: "filtered_rows"}),
		FilterEvents:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "device_insights", Name: "filter_events_total"}, []string{"kind"}),
		RecomputeTotal:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "device_insights", Name: "recompute_total"}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "device_insights", Name: "recompute_duration_seconds"}),
		ChartPushes:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "device_insights", Name: "chart_pushes_total"}, []string{"chart"}),
		ChartPushErrors:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "device_insights", Name: "chart_push_errors_total"}, []string{"chart"}),
		BoundaryFetches:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "device_insights", Name: "boundary_fetches_total"}, []string{"outcome"}),
		BoundaryCacheHit:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "device_insights", Name: "boundary_cache_hits_total"}),
	}
}
