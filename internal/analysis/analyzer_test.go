package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-gap/internal/embedding"
	"github.com/jonathan/resume-gap/internal/metrics"
	"github.com/jonathan/resume-gap/internal/phrases"
	"github.com/jonathan/resume-gap/internal/similarity"
	"github.com/jonathan/resume-gap/internal/taxonomy"
)

// stubExtractor returns canned phrases per input text.
type stubExtractor map[string][]string

func (s stubExtractor) Extract(text string, _ int) []string {
	return append([]string(nil), s[text]...)
}

// tableEmbedder returns fixed vectors per text and delegates the rest.
type tableEmbedder struct {
	vectors  map[string][]float32
	fallback embedding.Embedder
	err      error
	calls    atomic.Int32
}

func (f *tableEmbedder) Name() string { return "table" }

func (f *tableEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
			continue
		}
		if f.fallback == nil {
			return nil, errors.New("no vector for " + t)
		}
		v, err := f.fallback.Embed(ctx, []string{t})
		if err != nil {
			return nil, err
		}
		out[i] = v[0]
	}
	return out, nil
}

// docParser hands out prepared parses keyed by input text.
type docParser map[string]*phrases.Document

func (p docParser) Parse(text string) (*phrases.Document, error) {
	if doc, ok := p[text]; ok {
		return doc, nil
	}
	return &phrases.Document{}, nil
}

func nounChunk(text, root string) phrases.NounChunk {
	return phrases.NounChunk{
		Text:   text,
		Root:   phrases.Token{Text: root, Tag: "NN"},
		Tokens: len(strings.Fields(text)),
	}
}

func newAnalyzer(ex PhraseExtractor, emb embedding.Embedder, opts ...AnalyzerOption) *Analyzer {
	return NewAnalyzer(taxonomy.Default(), ex, similarity.New(emb), opts...)
}

func TestAnalyze_ExactTaxonomyMatch(t *testing.T) {
	job := "Requires 5+ years of Python and experience with React for frontend development"
	resume := "Built frontend applications using React and Redux."

	parser := docParser{
		job: {
			Sentences: []string{job},
			NounChunks: []phrases.NounChunk{
				nounChunk("5+ years", "years"),
				nounChunk("Python", "Python"),
				nounChunk("experience", "experience"),
				nounChunk("React", "React"),
				nounChunk("frontend development", "development"),
			},
			VerbPhrases: []phrases.VerbPhrase{{Verb: "Requires", Objects: []string{"5+ years"}}},
		},
		resume: {
			Sentences: []string{resume},
			NounChunks: []phrases.NounChunk{
				nounChunk("frontend applications", "applications"),
				nounChunk("React", "React"),
				nounChunk("Redux", "Redux"),
			},
			VerbPhrases: []phrases.VerbPhrase{{Verb: "Built", Objects: []string{"frontend applications"}}},
		},
	}
	tax := taxonomy.Default()
	ex := phrases.NewExtractor(tax, parser)
	a := NewAnalyzer(tax, ex, similarity.New(embedding.NewLexical(256)))

	res, err := a.Analyze(context.Background(), job, resume)
	require.NoError(t, err)
	require.True(t, res.Actionable)

	var react *MatchRecord
	for i := range res.Matches {
		if res.Matches[i].JobRequirement == "react" {
			react = &res.Matches[i]
		}
	}
	require.NotNil(t, react, "react should be a strong match")
	assert.Equal(t, "react", react.ResumeEvidence)
	assert.InDelta(t, 1.0, react.Similarity, 1e-6)
	require.NotNil(t, react.TaxonomyHint)
	assert.Equal(t, taxonomy.MatchExact, react.TaxonomyHint.MatchType)
	assert.Equal(t, 1.0, react.TaxonomyHint.Confidence)

	for _, g := range res.Gaps {
		assert.NotContains(t, g.JobRequirement, "5+")
	}
	for _, m := range res.Matches {
		assert.NotContains(t, m.JobRequirement, "5+")
	}
	assert.Contains(t, res.TopMatchingSkills, "react")
}

func TestAnalyze_ChildOfCategoryBoost(t *testing.T) {
	ex := stubExtractor{
		"job":    {"frontend development"},
		"resume": {"react"},
	}
	// raw cosine 0.35, below the 0.5 similarity threshold
	emb := &tableEmbedder{vectors: map[string][]float32{
		"frontend development": {1, 0},
		"react":                {0.35, float32(math.Sqrt(1 - 0.35*0.35))},
	}}
	a := newAnalyzer(ex, emb)

	res, err := a.Analyze(context.Background(), "job", "resume")
	require.NoError(t, err)
	require.Len(t, res.Gaps, 1)

	gap := res.Gaps[0]
	assert.Equal(t, StatusWeak, gap.Status)
	assert.Equal(t, SeverityLow, gap.Severity)
	assert.InDelta(t, 0.35, gap.RawSimilarity, 1e-5)
	assert.InDelta(t, 0.35+0.3*0.9, gap.Similarity, 1e-5)
	require.NotNil(t, gap.TaxonomyHint)
	assert.Equal(t, taxonomy.MatchChildOfCategory, gap.TaxonomyHint.MatchType)
	assert.Equal(t, 0.9, gap.TaxonomyHint.Confidence)
	assert.Equal(t, "frontend development", gap.TaxonomyHint.JobSkill)
	assert.Equal(t, "react", gap.TaxonomyHint.ResumeSkill)

	// without the taxonomy the same pair is missing
	plain, err := a.Analyze(context.Background(), "job", "resume", WithTaxonomyWeight(0))
	require.NoError(t, err)
	require.Len(t, plain.Gaps, 1)
	assert.Equal(t, StatusMissing, plain.Gaps[0].Status)

	// a looser strong threshold turns the boosted pair into a match
	loose, err := a.Analyze(context.Background(), "job", "resume", WithThresholds(0.5, 0.6))
	require.NoError(t, err)
	assert.Len(t, loose.Matches, 1)
	assert.Empty(t, loose.Gaps)
}

func TestAnalyze_BoilerplateOnly(t *testing.T) {
	job := "We are a global leader. Join our team! We are an equal opportunity employer."
	parser := docParser{job: {
		Sentences: []string{"We are a global leader.", "Join our team!", "We are an equal opportunity employer."},
		NounChunks: []phrases.NounChunk{
			nounChunk("a global leader", "leader"),
			nounChunk("our team", "team"),
			nounChunk("an equal opportunity employer", "employer"),
		},
		VerbPhrases: []phrases.VerbPhrase{{Verb: "Join", Objects: []string{"our team"}}},
	}}
	tax := taxonomy.Default()
	emb := &tableEmbedder{fallback: embedding.NewLexical(64)}
	a := NewAnalyzer(tax, phrases.NewExtractor(tax, parser), similarity.New(emb))

	res, err := a.Analyze(context.Background(), job, "Built APIs in Go and Python.")
	require.NoError(t, err)

	assert.False(t, res.Actionable)
	assert.Zero(t, res.OverallMatch)
	assert.Zero(t, res.Coverage)
	assert.Empty(t, res.Gaps)
	assert.Empty(t, res.Matches)
	assert.Zero(t, res.JobPhraseCount)
	assert.Zero(t, emb.calls.Load(), "provider must not be called")
}

func TestAnalyze_BoilerplateOnly_ProseParser(t *testing.T) {
	tax := taxonomy.Default()
	emb := &tableEmbedder{fallback: embedding.NewLexical(64)}
	a := NewAnalyzer(tax, phrases.NewExtractor(tax, nil), similarity.New(emb))

	jobs := []string{
		"We are a world-class company with a passion for our customers. " +
			"We offer a competitive salary and we are an equal opportunity employer.",
		"We are a global leader in our industry. Join our team!",
	}
	for _, job := range jobs {
		res, err := a.Analyze(context.Background(), job, "Built APIs in Go and Python.")
		require.NoError(t, err)

		assert.False(t, res.Actionable, job)
		assert.Zero(t, res.JobPhraseCount, job)
		assert.Empty(t, res.Gaps, job)
		assert.Empty(t, res.TopMissingSkills, job)
	}
	assert.Zero(t, emb.calls.Load(), "provider must not be called")
}

func TestAnalyze_EmptyResume(t *testing.T) {
	ex := stubExtractor{"job": {"kubernetes", "terraform modules", "incident response"}}
	emb := &tableEmbedder{fallback: embedding.NewLexical(64)}
	a := newAnalyzer(ex, emb)

	res, err := a.Analyze(context.Background(), "job", "")
	require.NoError(t, err)

	assert.False(t, res.Actionable)
	assert.Zero(t, res.Coverage)
	assert.Zero(t, res.OverallMatch)
	assert.Empty(t, res.Matches)
	require.Len(t, res.Gaps, 3)
	for _, g := range res.Gaps {
		assert.Equal(t, StatusMissing, g.Status)
		assert.Equal(t, SeverityHigh, g.Severity)
		assert.Zero(t, g.Similarity)
		assert.Empty(t, g.BestMatch)
	}
	assert.Equal(t, []string{"kubernetes", "terraform modules", "incident response"}, res.TopMissingSkills)
	assert.Zero(t, emb.calls.Load())
}

var propertyCases = []struct {
	job, resume []string
}{
	{
		job:    []string{"python", "distributed systems", "kubernetes operators", "react", "graphql apis", "mentoring engineers"},
		resume: []string{"built python services", "react dashboards", "operated kubernetes clusters", "rest apis"},
	},
	{
		job:    []string{"aws", "terraform", "ci/cd pipelines", "postgresql tuning"},
		resume: []string{"gcp", "ansible playbooks", "github actions pipelines", "mysql"},
	},
	{
		job:    []string{"machine learning", "pytorch", "data pipelines"},
		resume: []string{"tensorflow models", "deep learning research"},
	},
}

func TestAnalyze_GapsAndMatchesPartitionJobPhrases(t *testing.T) {
	for _, tc := range propertyCases {
		ex := stubExtractor{"job": tc.job, "resume": tc.resume}
		a := newAnalyzer(ex, embedding.NewLexical(128))

		res, err := a.Analyze(context.Background(), "job", "resume")
		require.NoError(t, err)

		assert.Equal(t, len(tc.job), len(res.Gaps)+len(res.Matches))
		seen := make(map[string]int)
		for _, g := range res.Gaps {
			seen[g.JobRequirement]++
		}
		for _, m := range res.Matches {
			seen[m.JobRequirement]++
		}
		for _, p := range tc.job {
			assert.Equal(t, 1, seen[p], p)
		}
		assert.InDelta(t, float64(len(res.Matches))/float64(len(tc.job)), res.Coverage, 1e-12)
	}
}

func TestAnalyze_ThresholdMonotonicity(t *testing.T) {
	for _, tc := range propertyCases {
		ex := stubExtractor{"job": tc.job, "resume": tc.resume}
		a := newAnalyzer(ex, embedding.NewLexical(128))

		var previous map[string]bool
		for _, weak := range []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0} {
			res, err := a.Analyze(context.Background(), "job", "resume", WithThresholds(0.5, weak))
			require.NoError(t, err)

			strong := make(map[string]bool)
			for _, m := range res.Matches {
				strong[m.JobRequirement] = true
			}
			for p := range strong {
				if previous != nil {
					assert.True(t, previous[p], "%q became strong when weak_threshold rose to %v", p, weak)
				}
			}
			previous = strong
		}
	}
}

func TestAnalyze_BoostBoundedness(t *testing.T) {
	for _, tc := range propertyCases {
		ex := stubExtractor{"job": tc.job, "resume": tc.resume}
		a := newAnalyzer(ex, embedding.NewLexical(128))

		res, err := a.Analyze(context.Background(), "job", "resume")
		require.NoError(t, err)

		check := func(sim, raw float64) {
			assert.LessOrEqual(t, sim, math.Min(1.0, raw+0.3)+1e-9)
			assert.GreaterOrEqual(t, sim, raw-1e-9)
		}
		for _, g := range res.Gaps {
			check(g.Similarity, g.RawSimilarity)
		}
		for _, m := range res.Matches {
			check(m.Similarity, m.RawSimilarity)
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	tc := propertyCases[0]
	ex := stubExtractor{"job": tc.job, "resume": tc.resume}
	a := newAnalyzer(ex, embedding.NewLexical(128))

	first, err := a.Analyze(context.Background(), "job", "resume")
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), "job", "resume")
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := a.Analyze(context.Background(), "job", "resume", WithThresholds(0.4, 0.7))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestAnalyze_OrderingAndSeverity(t *testing.T) {
	ex := stubExtractor{
		"job":    {"a-req", "b-req", "c-req", "d-req"},
		"resume": {"evidence"},
	}
	emb := &tableEmbedder{vectors: map[string][]float32{
		"evidence": {1, 0},
		"a-req":    {0.2, float32(math.Sqrt(1 - 0.04))},
		"b-req":    {0.9, float32(math.Sqrt(1 - 0.81))},
		"c-req":    {0.4, float32(math.Sqrt(1 - 0.16))},
		"d-req":    {0.6, float32(math.Sqrt(1 - 0.36))},
	}}
	a := newAnalyzer(ex, emb)

	res, err := a.Analyze(context.Background(), "job", "resume")
	require.NoError(t, err)

	require.Len(t, res.Gaps, 3)
	assert.Equal(t, "a-req", res.Gaps[0].JobRequirement)
	assert.Equal(t, SeverityHigh, res.Gaps[0].Severity)
	assert.Equal(t, "c-req", res.Gaps[1].JobRequirement)
	assert.Equal(t, SeverityMedium, res.Gaps[1].Severity)
	assert.Equal(t, "d-req", res.Gaps[2].JobRequirement)
	assert.Equal(t, StatusWeak, res.Gaps[2].Status)
	assert.Equal(t, SeverityLow, res.Gaps[2].Severity)

	require.Len(t, res.Matches, 1)
	assert.Equal(t, "b-req", res.Matches[0].JobRequirement)
	assert.Nil(t, res.Matches[0].TaxonomyHint)

	assert.InDelta(t, (0.2+0.9+0.4+0.6)/4, res.OverallMatch, 1e-5)
	assert.InDelta(t, 0.25, res.Coverage, 1e-12)
	assert.Equal(t, []string{"a-req", "c-req"}, res.TopMissingSkills, "weak gaps are not listed as missing")
	assert.Len(t, res.Weak(), 1)
	assert.Len(t, res.Missing(), 2)
}

func TestAnalyze_TopListsPreferTaxonomy(t *testing.T) {
	long := strings.Repeat("x", 150)
	job := []string{"zzz one", "zzz two", "docker swarm", "zzz three", "rust", long, "zzz four", "java"}
	ex := stubExtractor{"job": job, "resume": {"evidence"}}

	vectors := map[string][]float32{"evidence": {1, 0}}
	for i, p := range job {
		x := 0.01 * float64(i)
		vectors[p] = []float32{float32(x), float32(math.Sqrt(1 - x*x))}
	}
	a := newAnalyzer(ex, &tableEmbedder{vectors: vectors})

	res, err := a.Analyze(context.Background(), "job", "resume")
	require.NoError(t, err)

	require.Len(t, res.TopMissingSkills, 5)
	assert.Equal(t, []string{"docker swarm", "rust", "java"}, res.TopMissingSkills[:3])
	assert.Equal(t, "zzz one", res.TopMissingSkills[3])
	assert.Equal(t, "zzz two", res.TopMissingSkills[4])

	short, err := a.Analyze(context.Background(), "job", "resume", WithTopN(8))
	require.NoError(t, err)
	require.Len(t, short.TopMissingSkills, 8)
	assert.Len(t, []rune(short.TopMissingSkills[6]), 100)
}

func TestAnalyze_ProviderErrorPropagates(t *testing.T) {
	cause := &embedding.ProviderError{Provider: "table", Cause: errors.New("429 quota exceeded")}
	ex := stubExtractor{"job": {"go"}, "resume": {"golang services"}}
	m := metrics.New()
	a := newAnalyzer(ex, &tableEmbedder{err: cause}, WithMetrics(m))

	res, err := a.Analyze(context.Background(), "job", "resume")
	assert.Nil(t, res)
	require.Error(t, err)

	var perr *embedding.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "semantic analysis unavailable")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("error")))
}

func TestAnalyze_InvalidOptions(t *testing.T) {
	a := newAnalyzer(stubExtractor{}, embedding.NewLexical(8))

	_, err := a.Analyze(context.Background(), "job", "resume", WithThresholds(0.8, 0.5))
	assert.ErrorContains(t, err, "invalid analysis options")

	_, err = a.Analyze(context.Background(), "job", "resume", WithTaxonomyWeight(1.5))
	assert.Error(t, err)

	_, err = a.Analyze(context.Background(), "job", "resume", WithMaxPhrases(0))
	assert.Error(t, err)
}

func TestAnalyzer_Defaults(t *testing.T) {
	a := newAnalyzer(stubExtractor{}, embedding.NewLexical(8), WithDefaults(WithThresholds(0.4, 0.6), WithTopN(3)))

	d := a.Defaults()
	assert.Equal(t, 0.4, d.SimilarityThreshold)
	assert.Equal(t, 0.6, d.WeakThreshold)
	assert.Equal(t, 3, d.TopN)
	assert.Equal(t, DefaultTaxonomyWeight, d.TaxonomyWeight)
	assert.NoError(t, DefaultOptions().Validate())
}

func TestAnalyze_RecordsMetrics(t *testing.T) {
	tc := propertyCases[1]
	m := metrics.New()
	a := newAnalyzer(stubExtractor{"job": tc.job, "resume": tc.resume}, embedding.NewLexical(64), WithMetrics(m))

	res, err := a.Analyze(context.Background(), "job", "resume")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("actionable")))
	assert.Equal(t, float64(len(tc.job)), testutil.ToFloat64(m.PhrasesExtracted.WithLabelValues("job")))
	assert.Equal(t, float64(len(res.Matches)), testutil.ToFloat64(m.MatchesTotal))
}
