package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type importMetrics struct {
	runsTotal *prometheus.CounterVec
	rowsTotal *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *importMetrics {
	return &importMetrics{
		runsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registry",
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Total number of import runs by terminal state.",
		}, []string{"kind", "state"}),
		rowsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registry",
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "Total number of imported rows by outcome (valid/invalid/duplicate/persisted).",
		}, []string{"kind", "outcome"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "registry",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Latency distribution of import runs.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"kind"}),
	}
})

func getMetrics() *importMetrics {
	return metricsSingleton()
}

func (m *importMetrics) observe(res Result, seconds float64) {
	kind := string(res.Kind)
	m.runsTotal.WithLabelValues(kind, string(res.State)).Inc()
	m.rowsTotal.WithLabelValues(kind, "valid").Add(float64(res.ValidCount))
	m.rowsTotal.WithLabelValues(kind, "invalid").Add(float64(res.InvalidCount))
	m.rowsTotal.WithLabelValues(kind, "duplicate").Add(float64(res.DuplicateCount))
	m.rowsTotal.WithLabelValues(kind, "persisted").Add(float64(res.InsertedOrUpdatedCount))
	m.duration.WithLabelValues(kind).Observe(seconds)
}
