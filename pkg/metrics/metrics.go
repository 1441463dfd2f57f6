// Package metrics defines the Prometheus collectors for completion queries
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes used as the "result" label.
const (
	ResultOK      = "ok"
	ResultEmpty   = "zero_result"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Metrics holds all Prometheus collectors for wordrank.
type Metrics struct {
	registry *prometheus.Registry

	QueriesTotal   *prometheus.CounterVec
	QueryLatency   *prometheus.HistogramVec
	ResultsCount   prometheus.Histogram
	WordsAdded     prometheus.Counter
	VocabularySize prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry, so
// several instances can coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordrank_queries_total",
				Help: "Total completion queries by index and result (ok, zero_result, invalid, error).",
			},
			[]string{"index", "result"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wordrank_query_latency_seconds",
				Help:    "Completion query latency in seconds.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"index"},
		),
		ResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordrank_results_count",
				Help:    "Number of suggestions returned per query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		WordsAdded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "wordrank_words_added_total",
				Help: "Words inserted or re-weighted after startup.",
			},
		),
		VocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordrank_vocabulary_words",
				Help: "Number of distinct words in the index.",
			},
		),
	}

	m.registry.MustRegister(
		m.QueriesTotal,
		m.QueryLatency,
		m.ResultsCount,
		m.WordsAdded,
		m.VocabularySize,
	)
	return m
}

// ObserveQuery records one query against the named index.
func (m *Metrics) ObserveQuery(index, result string, elapsed time.Duration, results int) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(index, result).Inc()
	m.QueryLatency.WithLabelValues(index).Observe(elapsed.Seconds())
	if result == ResultOK || result == ResultEmpty {
		m.ResultsCount.Observe(float64(results))
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
