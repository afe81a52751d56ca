package analysis

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default tuning. The taxonomy weight caps how far taxonomy evidence alone
// can lift a raw similarity.
const (
	DefaultSimilarityThreshold = 0.5
	DefaultWeakThreshold       = 0.75
	DefaultTaxonomyWeight      = 0.3
	DefaultHighSeverityCutoff  = 0.3
	DefaultMaxPhrases          = 50
	DefaultTopN                = 5
	maxRequirementRunes        = 100
)

// Options tunes one analysis.
type Options struct {
	SimilarityThreshold float64 `json:"similarity_threshold" validate:"gte=0,lte=1"`
	WeakThreshold       float64 `json:"weak_threshold" validate:"gte=0,lte=1,gtefield=SimilarityThreshold"`
	TaxonomyWeight      float64 `json:"taxonomy_weight" validate:"gte=0,lte=1"`
	HighSeverityCutoff  float64 `json:"high_severity_cutoff" validate:"gte=0,lte=1"`
	MaxPhrases          int     `json:"max_phrases" validate:"gte=1"`
	TopN                int     `json:"top_n" validate:"gte=0"`
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold: DefaultSimilarityThreshold,
		WeakThreshold:       DefaultWeakThreshold,
		TaxonomyWeight:      DefaultTaxonomyWeight,
		HighSeverityCutoff:  DefaultHighSeverityCutoff,
		MaxPhrases:          DefaultMaxPhrases,
		TopN:                DefaultTopN,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks ranges and that the weak threshold is not below the
// similarity threshold.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid analysis options: %w", err)
	}
	return nil
}

// Option adjusts Options.
type Option func(*Options)

// WithThresholds sets the missing/weak and weak/strong boundaries.
func WithThresholds(similarity, weak float64) Option {
	return func(o *Options) {
		o.SimilarityThreshold = similarity
		o.WeakThreshold = weak
	}
}

// WithTaxonomyWeight sets the blend weight for taxonomy confidence.
func WithTaxonomyWeight(weight float64) Option {
	return func(o *Options) {
		o.TaxonomyWeight = weight
	}
}

// WithHighSeverityCutoff sets the similarity below which a missing gap is
// high severity.
func WithHighSeverityCutoff(cutoff float64) Option {
	return func(o *Options) {
		o.HighSeverityCutoff = cutoff
	}
}

// WithMaxPhrases caps phrases extracted from each text.
func WithMaxPhrases(n int) Option {
	return func(o *Options) {
		o.MaxPhrases = n
	}
}

// WithTopN sets the length of the top-missing and top-matching lists.
func WithTopN(n int) Option {
	return func(o *Options) {
		o.TopN = n
	}
}

// WithOptions replaces every setting with o.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		*dst = o
	}
}
