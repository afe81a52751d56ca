package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// schemaStatements create the pgvector extension and the cache table.
// Vectors of any dimension share the table; rows are keyed by model.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS phrase_embeddings (
		model       TEXT        NOT NULL,
		phrase_hash TEXT        NOT NULL,
		phrase      TEXT        NOT NULL,
		dimension   INTEGER     NOT NULL,
		embedding   vector      NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (model, phrase_hash)
	)`,
}

// PhraseEmbedding is one cached vector.
type PhraseEmbedding struct {
	Model     string    `json:"model"`
	Hash      string    `json:"phrase_hash"`
	Phrase    string    `json:"phrase"`
	Vector    []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// EnsureEmbeddingSchema creates the phrase_embeddings table if needed.
func (db *DB) EnsureEmbeddingSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure embedding schema: %w", err)
		}
	}
	return nil
}

// GetEmbeddings returns the cached vectors for the given phrase hashes,
// keyed by hash. Hashes with no row are absent from the map.
func (db *DB) GetEmbeddings(ctx context.Context, model string, hashes []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(hashes))
	if len(hashes) == 0 {
		return out, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT phrase_hash, embedding FROM phrase_embeddings
		 WHERE model = $1 AND phrase_hash = ANY($2)`,
		model, hashes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var hash string
		var vec pgvector.Vector
		if err := rows.Scan(&hash, &vec); err != nil {
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		out[hash] = vec.Slice()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read embeddings: %w", err)
	}
	return out, nil
}

// UpsertEmbeddings stores vectors in a single batch, replacing existing rows.
func (db *DB) UpsertEmbeddings(ctx context.Context, items []PhraseEmbedding) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(
			`INSERT INTO phrase_embeddings (model, phrase_hash, phrase, dimension, embedding)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (model, phrase_hash) DO UPDATE
			 SET phrase = $3, dimension = $4, embedding = $5, created_at = NOW()`,
			item.Model, item.Hash, item.Phrase, len(item.Vector), pgvector.NewVector(item.Vector),
		)
	}

	br := db.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, item := range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert embedding for %q: %w", item.Phrase, err)
		}
	}
	return nil
}

// CountEmbeddings returns how many vectors are cached for model.
func (db *DB) CountEmbeddings(ctx context.Context, model string) (int64, error) {
	var n int64
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM phrase_embeddings WHERE model = $1`, model,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return n, nil
}

// PurgeEmbeddings deletes every cached vector for model.
func (db *DB) PurgeEmbeddings(ctx context.Context, model string) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM phrase_embeddings WHERE model = $1`, model)
	if err != nil {
		return 0, fmt.Errorf("failed to purge embeddings: %w", err)
	}
	return tag.RowsAffected(), nil
}
