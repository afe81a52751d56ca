package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini embeds text with the Gemini embedding API.
type Gemini struct {
	client    *genai.Client
	model     string
	batchSize int
}

// NewGemini creates a Gemini embedder.
func NewGemini(ctx context.Context, cfg *Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:    client,
		model:     cfg.model(),
		batchSize: cfg.batchSize(),
	}, nil
}

// Name returns "gemini/<model>".
func (g *Gemini) Name() string {
	return "gemini/" + g.model
}

// Embed sends texts in batches of at most batchSize.
func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	em := g.client.EmbeddingModel(g.model)
	em.TaskType = genai.TaskTypeSemanticSimilarity

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += g.batchSize {
		end := min(start+g.batchSize, len(texts))

		batch := em.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, &ProviderError{Provider: g.Name(), Cause: err}
		}
		if err := checkCount(g.Name(), end-start, len(resp.Embeddings)); err != nil {
			return nil, err
		}

		for _, e := range resp.Embeddings {
			if e == nil || len(e.Values) == 0 {
				return nil, &ProviderError{Provider: g.Name(), Cause: fmt.Errorf("empty embedding in response")}
			}
			out = append(out, e.Values)
		}
	}
	return out, nil
}

// Close releases resources held by the client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
