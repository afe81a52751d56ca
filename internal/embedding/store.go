package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/resume-gap/internal/db"
)

// Backend names a cache store.
type Backend string

// Supported cache backends.
const (
	BackendNone     Backend = "none"
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// StoreConfig selects and configures a cache store.
type StoreConfig struct {
	Backend       Backend
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
}

// OpenStore opens the configured store. BackendNone returns a nil Store.
func OpenStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres cache requires a database URL")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store, err := NewPostgresStore(ctx, database)
		if err != nil {
			database.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// WithStore wraps next in a Cached embedder when store is non-nil.
func WithStore(next Embedder, store Store, opts ...Option) Embedder {
	if store == nil {
		return next
	}
	return NewCached(next, store, opts...)
}
