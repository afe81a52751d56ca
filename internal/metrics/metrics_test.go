package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAnalysis(t *testing.T) {
	m := New()

	m.ObserveAnalysis(120*time.Millisecond, "actionable", 2, 1, 3)
	m.ObserveAnalysis(10*time.Millisecond, "non_actionable", 0, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("actionable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("non_actionable")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.GapsTotal.WithLabelValues("missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GapsTotal.WithLabelValues("weak")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.MatchesTotal))
}

func TestObserveEmbedAndCache(t *testing.T) {
	m := New()

	m.ObserveEmbed("lexical", 4, nil)
	m.ObserveEmbed("gemini", 2, errors.New("quota"))
	m.ObserveCache(3, 1)
	m.ObserveCacheError("put")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmbedRequests.WithLabelValues("lexical", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmbedRequests.WithLabelValues("gemini", "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.EmbedTexts.WithLabelValues("lexical")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheErrorsTotal.WithLabelValues("put")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAnalysis(time.Second, "error", 1, 1, 1)
		m.ObservePhrases("job", 3)
		m.ObserveEmbed("lexical", 1, nil)
		m.ObserveCache(1, 1)
		m.ObserveCacheError("get")
	})
	assert.NoError(t, m.WriteToTextfile(filepath.Join(t.TempDir(), "never.prom")))
	assert.Nil(t, m.Registry())
}

func TestWriteToTextfile(t *testing.T) {
	m := New()
	m.ObservePhrases("job", 7)

	path := filepath.Join(t.TempDir(), "gap_agent.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gap_agent_phrases_extracted_total{side="job"} 7`)
}
