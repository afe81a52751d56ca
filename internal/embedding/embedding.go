// Package embedding converts phrases into fixed-length vectors that are
// comparable by cosine similarity. Providers are interchangeable behind
// Embedder; Cached adds a persistent lookup in front of any of them.
package embedding

import (
	"context"
	"fmt"
)

// Embedder is an embedding provider. Embed returns one vector per input
// text, in input order, all of the same dimension. Implementations must be
// safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Name identifies the provider and model; cached vectors are keyed by it.
	Name() string
}

// New creates the provider selected by cfg.
func New(ctx context.Context, cfg *Config) (Embedder, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Provider {
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	case ProviderLexical, "":
		return NewLexical(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// checkCount guards against providers that drop or duplicate inputs.
func checkCount(provider string, want, got int) error {
	if want != got {
		return &ProviderError{
			Provider: provider,
			Cause:    fmt.Errorf("returned %d vectors for %d texts", got, want),
		}
	}
	return nil
}
