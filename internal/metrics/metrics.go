// Package metrics provides the centralized Prometheus metrics registry for
// the simulation service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brainfin",
		Name:      "simulations_total",
		Help:      "Total number of simulations run, by investment type",
	}, []string{"investment_type"})
	SimulationFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brainfin",
		Name:      "simulation_failures_total",
		Help:      "Total number of rejected or failed simulations, by investment type",
	}, []string{"investment_type"})
	RecordsPersistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "brainfin",
		Name:      "records_persisted_total",
		Help:      "Total number of simulation records written to storage",
	})
	RecordsPrunedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "brainfin",
		Name:      "records_pruned_total",
		Help:      "Total number of simulation records removed by retention sweeps",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "brainfin",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code",
	}, []string{"method", "route", "status"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "brainfin",
		Name:      "cache_hits_total",
		Help:      "Total number of record cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "brainfin",
		Name:      "cache_misses_total",
		Help:      "Total number of record cache misses",
	})
)

// Gauge metrics
var (
	CacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "brainfin",
		Name:      "cache_size",
		Help:      "Number of entries currently held in the record cache",
	})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "brainfin",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of simulation runs in seconds, by investment type",
		Buckets:   prometheus.DefBuckets,
	}, []string{"investment_type"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "brainfin",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds, by method and route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	MonteCarloTrials = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "brainfin",
		Name:      "monte_carlo_trials",
		Help:      "Trial counts of Monte Carlo simulation requests",
		Buckets:   []float64{100, 1000, 5000, 10000, 25000, 50000, 100000},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(SimulationFailuresTotal)
		registry.MustRegister(RecordsPersistedTotal)
		registry.MustRegister(RecordsPrunedTotal)
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)

		// Register gauge metrics
		registry.MustRegister(CacheSize)

		// Register histogram metrics
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(MonteCarloTrials)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSimulation records a completed simulation run.
func RecordSimulation(investmentType string, durationSeconds float64) {
	SimulationsTotal.WithLabelValues(investmentType).Inc()
	SimulationDuration.WithLabelValues(investmentType).Observe(durationSeconds)
}

// RecordSimulationFailure records a rejected or failed simulation.
func RecordSimulationFailure(investmentType string) {
	SimulationFailuresTotal.WithLabelValues(investmentType).Inc()
}

// RecordPersisted records a stored simulation record.
func RecordPersisted() {
	RecordsPersistedTotal.Inc()
}

// RecordPruned records removals performed by a retention sweep.
func RecordPruned(count int64) {
	RecordsPrunedTotal.Add(float64(count))
}

// RecordHTTPRequest records an HTTP request outcome.
func RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordCacheHit records a record cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a record cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// UpdateCacheSize updates the record cache size gauge.
func UpdateCacheSize(count float64) {
	CacheSize.Set(count)
}

// RecordMonteCarloTrials records the trial count of a Monte Carlo request.
func RecordMonteCarloTrials(trials int) {
	MonteCarloTrials.Observe(float64(trials))
}
