package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ComputationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roads_computations_total",
		Help: "Total number of filter and aggregate runs",
	})
	ComputeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roads_compute_duration_ms",
		Help:    "Filter and aggregate duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100, 500},
	})
	InsufficientTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roads_insufficient_grouping_total",
		Help: "Total number of selections whose grouping had no data",
	})
	StoreLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roads_store_loads_total",
		Help: "Total record store loads by result",
	}, []string{"result"})
	StoreLoadDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "roads_store_load_duration_ms",
		Help:    "Record store load duration in milliseconds",
		Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 30000},
	})
	StoreRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "roads_store_records",
		Help: "Number of road segment records currently loaded",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "roads_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ComputationsTotal,
			ComputeDurationMs,
			InsufficientTotal,
			StoreLoadsTotal,
			StoreLoadDurationMs,
			StoreRecords,
			HTTPRequestsTotal,
		)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
