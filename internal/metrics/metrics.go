// Package metrics defines the Prometheus collectors used by the gap analyzer
// and writes them out in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gap_agent"

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AnalysisDuration prometheus.Histogram
	AnalysesTotal    *prometheus.CounterVec
	PhrasesExtracted *prometheus.CounterVec
	GapsTotal        *prometheus.CounterVec
	MatchesTotal     prometheus.Counter
	EmbedRequests    *prometheus.CounterVec
	EmbedTexts       *prometheus.CounterVec
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CacheErrorsTotal *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AnalysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one job/resume analysis.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses by outcome (actionable, non_actionable, error).",
		}, []string{"outcome"}),
		PhrasesExtracted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phrases_extracted_total",
			Help:      "Phrases kept by the extractor, by side (job, resume).",
		}, []string{"side"}),
		GapsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gaps_total",
			Help:      "Classified gaps by status (missing, weak).",
		}, []string{"status"}),
		MatchesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Job phrases classified as strong matches.",
		}),
		EmbedRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embed_requests_total",
			Help:      "Embedding provider calls by provider and status.",
		}, []string{"provider", "status"}),
		EmbedTexts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embed_texts_total",
			Help:      "Texts sent to the embedding provider.",
		}, []string{"provider"}),
		CacheHitsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_hits_total",
			Help:      "Phrase embeddings served from the cache.",
		}),
		CacheMissesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_misses_total",
			Help:      "Phrase embeddings not found in the cache.",
		}),
		CacheErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_errors_total",
			Help:      "Cache store failures by operation (get, put).",
		}, []string{"op"}),
	}
}

// Registry exposes the gatherer, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(elapsed time.Duration, outcome string, missing, weak, matches int) {
	if m == nil {
		return
	}
	m.AnalysisDuration.Observe(elapsed.Seconds())
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.GapsTotal.WithLabelValues("missing").Add(float64(missing))
	m.GapsTotal.WithLabelValues("weak").Add(float64(weak))
	m.MatchesTotal.Add(float64(matches))
}

// ObservePhrases records the number of phrases kept for one side.
func (m *Metrics) ObservePhrases(side string, n int) {
	if m == nil {
		return
	}
	m.PhrasesExtracted.WithLabelValues(side).Add(float64(n))
}

// ObserveEmbed records one provider call.
func (m *Metrics) ObserveEmbed(provider string, texts int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EmbedRequests.WithLabelValues(provider, status).Inc()
	m.EmbedTexts.WithLabelValues(provider).Add(float64(texts))
}

// ObserveCache records cache hits and misses for one lookup.
func (m *Metrics) ObserveCache(hits, misses int) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Add(float64(hits))
	m.CacheMissesTotal.Add(float64(misses))
}

// ObserveCacheError records a failed store operation.
func (m *Metrics) ObserveCacheError(op string) {
	if m == nil {
		return
	}
	m.CacheErrorsTotal.WithLabelValues(op).Inc()
}

// WriteToTextfile writes every collected metric to path.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
