package embedding

// Provider names an embedding backend.
type Provider string

// Supported providers.
const (
	// ProviderLexical is the local hashed n-gram embedder. It needs no
	// network access and is deterministic.
	ProviderLexical Provider = "lexical"
	// ProviderGemini is the Google Gemini embedding API.
	ProviderGemini Provider = "gemini"
)

// Defaults used when a Config field is zero.
const (
	DefaultGeminiModel = "text-embedding-004"
	DefaultBatchSize   = 100
	DefaultDimension   = 512
)

// Config selects and tunes a provider.
type Config struct {
	Provider  Provider
	Model     string
	APIKey    string
	BatchSize int
	Dimension int
}

// DefaultConfig returns the local lexical provider configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:  ProviderLexical,
		Model:     DefaultGeminiModel,
		BatchSize: DefaultBatchSize,
		Dimension: DefaultDimension,
	}
}

// DefaultGeminiConfig returns a Gemini configuration for apiKey.
func DefaultGeminiConfig(apiKey string) *Config {
	cfg := DefaultConfig()
	cfg.Provider = ProviderGemini
	cfg.APIKey = apiKey
	return cfg
}

// WithModel returns a copy of c using model.
func (c *Config) WithModel(model string) *Config {
	next := *c
	next.Model = model
	return &next
}

func (c *Config) batchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

func (c *Config) model() string {
	if c.Model == "" {
		return DefaultGeminiModel
	}
	return c.Model
}
