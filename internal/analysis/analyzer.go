// Package analysis compares a job description with a resume and classifies
// every job requirement as a strong match, a weak match, or missing.
package analysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-gap/internal/metrics"
	"github.com/jonathan/resume-gap/internal/similarity"
	"github.com/jonathan/resume-gap/internal/taxonomy"
)

// resultNamespace seeds content-derived result IDs, so identical inputs
// produce identical results.
var resultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("gap_agent/analysis"))

// PhraseExtractor turns text into at most maxPhrases candidate phrases.
// *phrases.Extractor is the production implementation.
type PhraseExtractor interface {
	Extract(text string, maxPhrases int) []string
}

// Analyzer runs gap analyses. It holds only read-only collaborators and is
// safe for concurrent use when its extractor and engine are.
type Analyzer struct {
	taxonomy  *taxonomy.Taxonomy
	extractor PhraseExtractor
	engine    *similarity.Engine
	defaults  Options
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithLogger sets the analyzer logger.
func WithLogger(logger *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics records analysis outcomes.
func WithMetrics(m *metrics.Metrics) AnalyzerOption {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithDefaults applies opts on top of DefaultOptions for every call.
func WithDefaults(opts ...Option) AnalyzerOption {
	return func(a *Analyzer) {
		for _, opt := range opts {
			opt(&a.defaults)
		}
	}
}

// NewAnalyzer wires the taxonomy, extractor and similarity engine together.
func NewAnalyzer(tax *taxonomy.Taxonomy, extractor PhraseExtractor, engine *similarity.Engine, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		taxonomy:  tax,
		extractor: extractor,
		engine:    engine,
		defaults:  DefaultOptions(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Defaults returns the options used when a call passes none.
func (a *Analyzer) Defaults() Options {
	return a.defaults
}

// Analyze extracts phrases from both texts, scores every job phrase against
// its closest resume phrase and classifies it. An empty phrase list on
// either side yields a non-actionable result rather than an error.
// Embedding failures are returned.
func (a *Analyzer) Analyze(ctx context.Context, jobText, resumeText string, opts ...Option) (*Result, error) {
	start := time.Now()

	o := a.defaults
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		ID:                resultID(a.engine.Model(), jobText, resumeText, o),
		Model:             a.engine.Model(),
		Gaps:              []GapRecord{},
		Matches:           []MatchRecord{},
		TopMissingSkills:  []string{},
		TopMatchingSkills: []string{},
		Options:           o,
	}
	log := a.logger.With(zap.String("analysis_id", res.ID.String()))

	jobPhrases := a.extractor.Extract(jobText, o.MaxPhrases)
	resumePhrases := a.extractor.Extract(resumeText, o.MaxPhrases)
	res.JobPhraseCount = len(jobPhrases)
	res.ResumePhraseCount = len(resumePhrases)
	a.metrics.ObservePhrases("job", len(jobPhrases))
	a.metrics.ObservePhrases("resume", len(resumePhrases))

	log.Debug("extracted phrases",
		zap.Int("job_phrases", len(jobPhrases)),
		zap.Int("resume_phrases", len(resumePhrases)),
	)

	switch {
	case len(jobPhrases) == 0:
		log.Info("no job requirements extracted, analysis not actionable")
		a.finish(res, start, "non_actionable")
		return res, nil
	case len(resumePhrases) == 0:
		log.Info("no resume evidence extracted, analysis not actionable",
			zap.Int("job_phrases", len(jobPhrases)),
		)
		res.Gaps = allMissing(jobPhrases)
		res.TopMissingSkills = a.topMissing(res.Gaps, o.TopN)
		a.finish(res, start, "non_actionable")
		return res, nil
	}

	var jobVecs, resumeVecs [][]float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := a.engine.Embed(gctx, jobPhrases)
		jobVecs = v
		return err
	})
	g.Go(func() error {
		v, err := a.engine.Embed(gctx, resumePhrases)
		resumeVecs = v
		return err
	})
	if err := g.Wait(); err != nil {
		a.finish(res, start, "error")
		return nil, fmt.Errorf("semantic analysis unavailable: %w", err)
	}

	matrix, err := similarity.NewMatrix(jobVecs, resumeVecs)
	if err != nil {
		a.finish(res, start, "error")
		return nil, fmt.Errorf("semantic analysis unavailable: %w", err)
	}
	rows, cols := matrix.Dims()
	log.Debug("built similarity matrix", zap.Int("rows", rows), zap.Int("cols", cols))

	a.classify(res, jobPhrases, resumePhrases, matrix, o)
	res.Actionable = true

	log.Info("analysis complete",
		zap.Float64("overall_match", res.OverallMatch),
		zap.Float64("coverage", res.Coverage),
		zap.Int("gaps", len(res.Gaps)),
		zap.Int("matches", len(res.Matches)),
		zap.Duration("elapsed", time.Since(start)),
	)
	a.finish(res, start, "actionable")
	return res, nil
}

func (a *Analyzer) finish(res *Result, start time.Time, outcome string) {
	a.metrics.ObserveAnalysis(time.Since(start), outcome,
		len(res.Missing()), len(res.Weak()), len(res.Matches))
}

func resultID(model, jobText, resumeText string, o Options) uuid.UUID {
	var b strings.Builder
	b.WriteString(model)
	for _, f := range []float64{o.SimilarityThreshold, o.WeakThreshold, o.TaxonomyWeight, o.HighSeverityCutoff} {
		b.WriteByte(0)
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(o.MaxPhrases))
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(o.TopN))
	b.WriteByte(0)
	b.WriteString(jobText)
	b.WriteByte(0)
	b.WriteString(resumeText)
	return uuid.NewSHA1(resultNamespace, []byte(b.String()))
}
