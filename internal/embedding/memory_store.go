package embedding

import (
	"context"
	"sync"
)

// MemoryStore keeps vectors in process memory for the lifetime of the value.
type MemoryStore struct {
	mu      sync.RWMutex
	vectors map[string]map[string][]float32
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vectors: make(map[string]map[string][]float32)}
}

// GetMany implements Store.
func (s *MemoryStore) GetMany(_ context.Context, model string, keys []string) (map[string][]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]float32, len(keys))
	byKey := s.vectors[model]
	for _, k := range keys {
		if v, ok := byKey[k]; ok {
			out[k] = append([]float32(nil), v...)
		}
	}
	return out, nil
}

// PutMany implements Store.
func (s *MemoryStore) PutMany(_ context.Context, model string, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.vectors[model]
	if !ok {
		byKey = make(map[string][]float32, len(entries))
		s.vectors[model] = byKey
	}
	for _, e := range entries {
		byKey[e.Key] = append([]float32(nil), e.Vector...)
	}
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context, model string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.vectors[model])), nil
}

// Purge implements Store.
func (s *MemoryStore) Purge(_ context.Context, model string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.vectors[model]))
	delete(s.vectors, model)
	return n, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
