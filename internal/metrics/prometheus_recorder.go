package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "jekyll_studio"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once               sync.Once
	categoryDuration   *prom.HistogramVec
	categoryResults    *prom.CounterVec
	filesWritten       *prom.CounterVec
	materializeSeconds prom.Histogram
	materializeOutcome *prom.CounterVec
	backendDuration    *prom.HistogramVec
	backendRetries     *prom.CounterVec
	buildDuration      *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.categoryDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "category_duration_seconds",
			Help:      "Duration of writing one site category",
			Buckets:   prom.DefBuckets,
		}, []string{"category"})
		pr.categoryResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "category_results_total",
			Help:      "Category write results by outcome",
		}, []string{"category", "result"})
		pr.filesWritten = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Files written per category",
		}, []string{"category"})
		pr.materializeSeconds = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "materialize_duration_seconds",
			Help:      "Total duration of a site materialization",
			Buckets:   prom.DefBuckets,
		})
		pr.materializeOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "materialize_outcomes_total",
			Help:      "Materializations by final status",
		}, []string{"outcome"})
		pr.backendDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of AI backend requests",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"endpoint", "result"})
		pr.backendRetries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "backend_retries_total",
			Help:      "Retried AI backend requests (transient failures)",
		}, []string{"endpoint"})
		pr.buildDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of jekyll build/serve subprocesses",
			Buckets:   prom.DefBuckets,
		}, []string{"tool", "action", "result"})
		reg.MustRegister(pr.categoryDuration, pr.categoryResults, pr.filesWritten, pr.materializeSeconds,
			pr.materializeOutcome, pr.backendDuration, pr.backendRetries, pr.buildDuration)
	})
	return pr
}

func resultOf(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}

func (p *PrometheusRecorder) ObserveCategoryDuration(category string, d time.Duration) {
	if p == nil || p.categoryDuration == nil {
		return
	}
	p.categoryDuration.WithLabelValues(category).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCategoryResult(category string, result ResultLabel) {
	if p == nil || p.categoryResults == nil {
		return
	}
	p.categoryResults.WithLabelValues(category, string(result)).Inc()
}

func (p *PrometheusRecorder) AddFilesWritten(category string, n int) {
	if p == nil || p.filesWritten == nil || n <= 0 {
		return
	}
	p.filesWritten.WithLabelValues(category).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveMaterializeDuration(d time.Duration) {
	if p == nil || p.materializeSeconds == nil {
		return
	}
	p.materializeSeconds.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncMaterializeOutcome(outcome OutcomeLabel) {
	if p == nil || p.materializeOutcome == nil {
		return
	}
	p.materializeOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveBackendRequest(endpoint string, d time.Duration, success bool) {
	if p == nil || p.backendDuration == nil {
		return
	}
	p.backendDuration.WithLabelValues(endpoint, resultOf(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBackendRetry(endpoint string) {
	if p == nil || p.backendRetries == nil {
		return
	}
	p.backendRetries.WithLabelValues(endpoint).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(tool, action string, d time.Duration, success bool) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.WithLabelValues(tool, action, resultOf(success)).Observe(d.Seconds())
}
