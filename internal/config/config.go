// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/resume-gap/internal/analysis"
	"github.com/jonathan/resume-gap/internal/embedding"
)

const (
	// EnvPrefix prefixes every environment override, e.g.
	// GAP_AGENT_ANALYSIS_WEAK_THRESHOLD.
	EnvPrefix = "GAP_AGENT"
	// DefaultFileName is looked up in the working directory when no config
	// path is given.
	DefaultFileName = "gap_agent"
)

// Config is the full CLI configuration. Every field has a default, so an
// empty file or no file at all is valid.
type Config struct {
	Analysis  AnalysisConfig  `mapstructure:"analysis" json:"analysis"`
	Taxonomy  TaxonomyConfig  `mapstructure:"taxonomy" json:"taxonomy"`
	Embedding EmbeddingConfig `mapstructure:"embedding" json:"embedding"`
	Cache     CacheConfig     `mapstructure:"cache" json:"cache"`
	Log       LogConfig       `mapstructure:"log" json:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics" json:"metrics"`
}

// AnalysisConfig holds the gap-classification thresholds.
type AnalysisConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" json:"similarity_threshold" validate:"gte=0,lte=1"`
	WeakThreshold       float64 `mapstructure:"weak_threshold" json:"weak_threshold" validate:"gte=0,lte=1,gtefield=SimilarityThreshold"`
	TaxonomyWeight      float64 `mapstructure:"taxonomy_weight" json:"taxonomy_weight" validate:"gte=0,lte=1"`
	HighSeverityCutoff  float64 `mapstructure:"high_severity_cutoff" json:"high_severity_cutoff" validate:"gte=0,lte=1"`
	MaxPhrases          int     `mapstructure:"max_phrases" json:"max_phrases" validate:"gte=1"`
	TopN                int     `mapstructure:"top_n" json:"top_n" validate:"gte=0"`
}

// TaxonomyConfig points at an optional taxonomy file.
type TaxonomyConfig struct {
	// Path to a YAML taxonomy. Empty uses the embedded default.
	Path string `mapstructure:"path" json:"path,omitempty"`
}

// EmbeddingConfig selects the embedding provider.
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider" json:"provider" validate:"oneof=lexical gemini"`
	Model     string `mapstructure:"model" json:"model"`
	APIKey    string `mapstructure:"api_key" json:"-"`
	BatchSize int    `mapstructure:"batch_size" json:"batch_size" validate:"gte=1"`
	Dimension int    `mapstructure:"dimension" json:"dimension" validate:"gte=8"`
}

// CacheConfig selects the embedding cache store.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend" json:"backend" validate:"oneof=none memory redis postgres"`
	TTL           time.Duration `mapstructure:"ttl" json:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr" json:"redis_addr,omitempty"`
	RedisPassword string        `mapstructure:"redis_password" json:"-"`
	RedisDB       int           `mapstructure:"redis_db" json:"redis_db" validate:"gte=0"`
	DatabaseURL   string        `mapstructure:"database_url" json:"-"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json" json:"json"`
	Debug bool `mapstructure:"debug" json:"debug"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition on exit.
	Textfile string `mapstructure:"textfile" json:"textfile,omitempty"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	o := analysis.DefaultOptions()
	return Config{
		Analysis: AnalysisConfig{
			SimilarityThreshold: o.SimilarityThreshold,
			WeakThreshold:       o.WeakThreshold,
			TaxonomyWeight:      o.TaxonomyWeight,
			HighSeverityCutoff:  o.HighSeverityCutoff,
			MaxPhrases:          o.MaxPhrases,
			TopN:                o.TopN,
		},
		Embedding: EmbeddingConfig{
			Provider:  string(embedding.ProviderLexical),
			Model:     embedding.DefaultGeminiModel,
			BatchSize: embedding.DefaultBatchSize,
			Dimension: embedding.DefaultDimension,
		},
		Cache: CacheConfig{
			Backend:   string(embedding.BackendMemory),
			TTL:       7 * 24 * time.Hour,
			RedisAddr: "localhost:6379",
		},
	}
}

// New returns a viper instance seeded with defaults and environment
// bindings. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()

	v.SetDefault("analysis.similarity_threshold", d.Analysis.SimilarityThreshold)
	v.SetDefault("analysis.weak_threshold", d.Analysis.WeakThreshold)
	v.SetDefault("analysis.taxonomy_weight", d.Analysis.TaxonomyWeight)
	v.SetDefault("analysis.high_severity_cutoff", d.Analysis.HighSeverityCutoff)
	v.SetDefault("analysis.max_phrases", d.Analysis.MaxPhrases)
	v.SetDefault("analysis.top_n", d.Analysis.TopN)
	v.SetDefault("taxonomy.path", d.Taxonomy.Path)
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.batch_size", d.Embedding.BatchSize)
	v.SetDefault("embedding.dimension", d.Embedding.Dimension)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)
	v.SetDefault("cache.database_url", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("metrics.textfile", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The provider's own variable is honoured as well.
	_ = v.BindEnv("embedding.api_key", EnvPrefix+"_EMBEDDING_API_KEY", "GEMINI_API_KEY")

	return v
}

// Load reads path (or gap_agent.yaml in the working directory when path is
// empty) into v, applies environment overrides and validates the result. A
// missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks ranges and enumerations, and the settings each provider
// or backend depends on.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Embedding.Provider == string(embedding.ProviderGemini) && c.Embedding.APIKey == "" {
		return fmt.Errorf("config error: 'embedding.api_key' (or GEMINI_API_KEY) is required for the gemini provider")
	}
	if c.Cache.Backend == string(embedding.BackendPostgres) && c.Cache.DatabaseURL == "" {
		return fmt.Errorf("config error: 'cache.database_url' is required for the postgres cache")
	}
	if c.Cache.Backend == string(embedding.BackendRedis) && c.Cache.RedisAddr == "" {
		return fmt.Errorf("config error: 'cache.redis_addr' is required for the redis cache")
	}
	return nil
}

// AnalysisOptions converts the analysis section.
func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{
		SimilarityThreshold: c.Analysis.SimilarityThreshold,
		WeakThreshold:       c.Analysis.WeakThreshold,
		TaxonomyWeight:      c.Analysis.TaxonomyWeight,
		HighSeverityCutoff:  c.Analysis.HighSeverityCutoff,
		MaxPhrases:          c.Analysis.MaxPhrases,
		TopN:                c.Analysis.TopN,
	}
}

// EmbeddingConfig converts the embedding section.
func (c *Config) EmbeddingConfig() *embedding.Config {
	return &embedding.Config{
		Provider:  embedding.Provider(c.Embedding.Provider),
		Model:     c.Embedding.Model,
		APIKey:    c.Embedding.APIKey,
		BatchSize: c.Embedding.BatchSize,
		Dimension: c.Embedding.Dimension,
	}
}

// StoreConfig converts the cache section.
func (c *Config) StoreConfig() embedding.StoreConfig {
	return embedding.StoreConfig{
		Backend:       embedding.Backend(c.Cache.Backend),
		TTL:           c.Cache.TTL,
		RedisAddr:     c.Cache.RedisAddr,
		RedisPassword: c.Cache.RedisPassword,
		RedisDB:       c.Cache.RedisDB,
		DatabaseURL:   c.Cache.DatabaseURL,
	}
}
