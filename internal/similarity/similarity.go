// Package similarity embeds phrase sets and scores them against each other
// by cosine similarity.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/jonathan/resume-gap/internal/embedding"
	"github.com/jonathan/resume-gap/internal/metrics"
)

var (
	// ErrEmptyInput is returned when there is nothing to embed or compare.
	ErrEmptyInput = errors.New("similarity: no phrases to compare")
	// ErrDimensionMismatch is returned when vectors are not all the same length.
	ErrDimensionMismatch = errors.New("similarity: vector dimensions differ")
)

// DefaultTopK is used by RelatedSkills for a non-positive topK.
const DefaultTopK = 5

// Engine scores phrases through an embedding provider. It keeps no state
// between calls.
type Engine struct {
	embedder embedding.Embedder
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records provider calls.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New returns an engine over embedder.
func New(embedder embedding.Embedder, opts ...Option) *Engine {
	e := &Engine{
		embedder: embedder,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model names the embedding provider in use.
func (e *Engine) Model() string {
	return e.embedder.Name()
}

// Embed returns one vector per phrase. An empty list is rejected with
// ErrEmptyInput before the provider is called; provider errors are returned
// wrapped, never replaced by zero vectors.
func (e *Engine) Embed(ctx context.Context, phrases []string) ([][]float32, error) {
	if len(phrases) == 0 {
		return nil, ErrEmptyInput
	}

	vectors, err := e.embedder.Embed(ctx, phrases)
	e.metrics.ObserveEmbed(e.embedder.Name(), len(phrases), err)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d phrases: %w", len(phrases), err)
	}
	if len(vectors) != len(phrases) {
		return nil, &embedding.ProviderError{
			Provider: e.embedder.Name(),
			Cause:    fmt.Errorf("returned %d vectors for %d texts", len(vectors), len(phrases)),
		}
	}
	if _, err := dimension(vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Pairwise embeds two strings and returns their cosine similarity.
func (e *Engine) Pairwise(ctx context.Context, text1, text2 string) (float64, error) {
	vectors, err := e.Embed(ctx, []string{text1, text2})
	if err != nil {
		return 0, err
	}
	return Cosine(vectors[0], vectors[1]), nil
}

// Scored is a candidate string with its similarity to a query.
type Scored struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// RelatedSkills ranks candidates by similarity to skill and returns the
// best topK. The skill itself (case-insensitively) and blank candidates are
// skipped; an empty candidate list yields an empty result.
func (e *Engine) RelatedSkills(ctx context.Context, skill string, candidates []string, topK int) ([]Scored, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	self := strings.ToLower(strings.TrimSpace(skill))
	if self == "" {
		return nil, ErrEmptyInput
	}

	pool := make([]string, 0, len(candidates))
	for _, c := range candidates {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" || strings.ToLower(trimmed) == self {
			continue
		}
		pool = append(pool, trimmed)
	}
	if len(pool) == 0 {
		return []Scored{}, nil
	}

	vectors, err := e.Embed(ctx, append([]string{skill}, pool...))
	if err != nil {
		return nil, err
	}

	scored := make([]Scored, len(pool))
	for i, c := range pool {
		scored[i] = Scored{Text: c, Score: Cosine(vectors[0], vectors[i+1])}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either has no
// magnitude or their lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	x, y := widen(a), widen(b)
	na, nb := floats.Norm(x, 2), floats.Norm(y, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(floats.Dot(x, y) / (na * nb))
}

func dimension(vectors [][]float32) (int, error) {
	if len(vectors) == 0 {
		return 0, ErrEmptyInput
	}
	dim := len(vectors[0])
	if dim == 0 {
		return 0, fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return 0, fmt.Errorf("%w: vector %d has %d values, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return dim, nil
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
