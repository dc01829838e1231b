package core

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "transformer"

// Metrics holds the pipeline's prometheus collectors on a private registry,
// so tests can build as many services as they like.
type Metrics struct {
	registry *prometheus.Registry

	batches      prometheus.Counter
	files        *prometheus.CounterVec
	rowsIngested prometheus.Counter
	duration     *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	rejected     prometheus.Counter
}

// NewMetrics registers the pipeline collectors. limiter may be nil.
func NewMetrics(limiter *UploadLimiter) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "batches_total",
			Help:      "Upload batches processed.",
		}),
		files: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "files_total",
			Help:      "Files processed, by detected format and outcome.",
		}, []string{"format", "status"}),
		rowsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rows_ingested_total",
			Help:      "Data rows parsed from uploaded files.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "file_duration_seconds",
			Help:      "Time to process one file through every stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"format"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_lookups_total",
			Help:      "Report cache lookups, by result.",
		}, []string{"result"}),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "batches_rejected_total",
			Help:      "Batches refused because every processing slot was busy.",
		}),
	}

	if limiter != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_batches",
			Help:      "Batches currently being processed.",
		}, func() float64 { return float64(limiter.Status().Active) })
	}
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeFile(rep *FileReport, elapsed time.Duration) {
	format := string(rep.Format)
	if format == "" {
		format = "unknown"
	}
	m.files.WithLabelValues(format, rep.Status).Inc()
	m.rowsIngested.Add(float64(rep.Rows))
	m.duration.WithLabelValues(format).Observe(elapsed.Seconds())
}

func (m *Metrics) observeCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
