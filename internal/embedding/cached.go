package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/jonathan/resume-gap/internal/metrics"
)

// Entry is one vector to store.
type Entry struct {
	Key    string
	Text   string
	Vector []float32
}

// Store persists vectors by (model, key). Lookups return only the keys that
// were found.
type Store interface {
	GetMany(ctx context.Context, model string, keys []string) (map[string][]float32, error)
	PutMany(ctx context.Context, model string, entries []Entry) error
	Count(ctx context.Context, model string) (int64, error)
	Purge(ctx context.Context, model string) (int64, error)
	Close() error
}

// Key is the cache key for text: a hex SHA-256 of the exact text the
// provider is sent. Case and spacing variants are cached separately.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Cached serves vectors from a Store and asks the wrapped provider only for
// the misses. Store failures are logged and bypassed; provider failures are
// returned unchanged.
type Cached struct {
	next    Embedder
	store   Store
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures Cached.
type Option func(*Cached)

// WithLogger sets the logger for store failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cached) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records cache hits, misses and store errors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cached) {
		c.metrics = m
	}
}

// NewCached wraps next with store.
func NewCached(next Embedder, store Store, opts ...Option) *Cached {
	c := &Cached{
		next:   next,
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the wrapped provider's name.
func (c *Cached) Name() string {
	return c.next.Name()
}

// Store returns the backing store.
func (c *Cached) Store() Store {
	return c.store
}

// Embed implements Embedder.
func (c *Cached) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	model := c.next.Name()

	keys := make([]string, len(texts))
	unique := make([]string, 0, len(texts))
	firstText := make(map[string]string, len(texts))
	for i, text := range texts {
		k := Key(text)
		keys[i] = k
		if _, seen := firstText[k]; !seen {
			firstText[k] = text
			unique = append(unique, k)
		}
	}

	found, err := c.store.GetMany(ctx, model, unique)
	if err != nil {
		c.logger.Warn("embedding cache lookup failed",
			zap.String("model", model),
			zap.Int("keys", len(unique)),
			zap.Error(err),
		)
		c.metrics.ObserveCacheError("get")
		found = nil
	}

	var missKeys, missTexts []string
	for _, k := range unique {
		if _, ok := found[k]; !ok {
			missKeys = append(missKeys, k)
			missTexts = append(missTexts, firstText[k])
		}
	}
	c.metrics.ObserveCache(len(unique)-len(missKeys), len(missKeys))

	vectors := make(map[string][]float32, len(unique))
	for k, v := range found {
		vectors[k] = v
	}

	if len(missTexts) > 0 {
		fresh, err := c.next.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if err := checkCount(model, len(missTexts), len(fresh)); err != nil {
			return nil, err
		}

		entries := make([]Entry, len(missKeys))
		for i, k := range missKeys {
			vectors[k] = fresh[i]
			entries[i] = Entry{Key: k, Text: missTexts[i], Vector: fresh[i]}
		}
		if err := c.store.PutMany(ctx, model, entries); err != nil {
			c.logger.Warn("embedding cache store failed",
				zap.String("model", model),
				zap.Int("entries", len(entries)),
				zap.Error(err),
			)
			c.metrics.ObserveCacheError("put")
		}
	}

	out := make([][]float32, len(texts))
	for i, k := range keys {
		out[i] = vectors[k]
	}

	c.logger.Debug("embedded phrases",
		zap.String("model", model),
		zap.Int("texts", len(texts)),
		zap.Int("cache_misses", len(missKeys)),
	)
	return out, nil
}

// Close closes the backing store.
func (c *Cached) Close() error {
	return c.store.Close()
}
