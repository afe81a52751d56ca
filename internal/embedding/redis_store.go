package embedding

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "emb:"

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore keeps vectors in Redis as little-endian float32 blobs under
// "emb:<model>:<key>".
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore connects and verifies the connection with a PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStoreFromClient(rdb, opts.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client. A zero ttl stores
// entries without expiry.
func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(model, key string) string {
	return redisKeyPrefix + model + ":" + key
}

// GetMany implements Store with a single MGET.
func (s *RedisStore) GetMany(ctx context.Context, model string, keys []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = redisKey(model, k)
	}

	values, err := s.rdb.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget failed: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		vec, err := decodeVector([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("corrupt cache entry %s: %w", full[i], err)
		}
		out[keys[i]] = vec
	}
	return out, nil
}

// PutMany implements Store with one pipelined SET per entry.
func (s *RedisStore) PutMany(ctx context.Context, model string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, e := range entries {
		pipe.Set(ctx, redisKey(model, e.Key), encodeVector(e.Vector), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline failed: %w", err)
	}
	return nil
}

// Count implements Store by scanning the model's key space.
func (s *RedisStore) Count(ctx context.Context, model string) (int64, error) {
	var n int64
	iter := s.rdb.Scan(ctx, 0, redisKey(model, "*"), 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return n, fmt.Errorf("scanning %s: %w", model, err)
	}
	return n, nil
}

// Purge implements Store by scanning and deleting the model's keys.
func (s *RedisStore) Purge(ctx context.Context, model string) (int64, error) {
	var deleted int64
	iter := s.rdb.Scan(ctx, 0, redisKey(model, "*"), 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("deleting key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scanning %s: %w", model, err)
	}
	return deleted, nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("length %d is not a multiple of 4", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vec, nil
}
