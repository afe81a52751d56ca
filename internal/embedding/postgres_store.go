package embedding

import (
	"context"

	"github.com/jonathan/resume-gap/internal/db"
)

// PostgresStore keeps vectors in the pgvector phrase_embeddings table.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore ensures the schema exists and returns a store that owns
// database; Close closes it.
func NewPostgresStore(ctx context.Context, database *db.DB) (*PostgresStore, error) {
	if err := database.EnsureEmbeddingSchema(ctx); err != nil {
		return nil, err
	}
	return &PostgresStore{db: database}, nil
}

// GetMany implements Store.
func (s *PostgresStore) GetMany(ctx context.Context, model string, keys []string) (map[string][]float32, error) {
	return s.db.GetEmbeddings(ctx, model, keys)
}

// PutMany implements Store.
func (s *PostgresStore) PutMany(ctx context.Context, model string, entries []Entry) error {
	rows := make([]db.PhraseEmbedding, len(entries))
	for i, e := range entries {
		rows[i] = db.PhraseEmbedding{Model: model, Hash: e.Key, Phrase: e.Text, Vector: e.Vector}
	}
	return s.db.UpsertEmbeddings(ctx, rows)
}

// Count implements Store.
func (s *PostgresStore) Count(ctx context.Context, model string) (int64, error) {
	return s.db.CountEmbeddings(ctx, model)
}

// Purge implements Store.
func (s *PostgresStore) Purge(ctx context.Context, model string) (int64, error) {
	return s.db.PurgeEmbeddings(ctx, model)
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
