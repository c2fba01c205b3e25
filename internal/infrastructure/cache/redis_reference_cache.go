package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appreference "github.com/milorg/backend/internal/application/reference"
	"github.com/milorg/backend/internal/domain/reference"
	"github.com/milorg/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisReferenceCache is a read-through cache for reference data kinds.
// Misses and Redis failures are absorbed by the service layer, which falls
// back to the database, so this cache never has to be available.
type RedisReferenceCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisReferenceCache creates a cache backed by a new Redis connection
func NewRedisReferenceCache(cfg config.RedisConfig) (*RedisReferenceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReferenceCache{
		client:    client,
		keyPrefix: "reference:kind:",
		ttl:       cfg.ReferenceTTL,
	}, nil
}

// NewRedisReferenceCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisReferenceCacheWithClient(client *redis.Client, ttl time.Duration) *RedisReferenceCache {
	return &RedisReferenceCache{
		client:    client,
		keyPrefix: "reference:kind:",
		ttl:       ttl,
	}
}

// GetKind returns the cached entries for a kind. The second return value
// reports whether the kind was present.
func (c *RedisReferenceCache) GetKind(ctx context.Context, kind reference.Kind) ([]reference.Entry, bool, error) {
	payload, err := c.client.Get(ctx, c.key(kind)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read reference cache: %w", err)
	}

	var entries []reference.Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached reference entries: %w", err)
	}
	return entries, true, nil
}

// SetKind stores the entries for a kind with the configured TTL
func (c *RedisReferenceCache) SetKind(ctx context.Context, kind reference.Kind, entries []reference.Entry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode reference entries: %w", err)
	}
	if err := c.client.Set(ctx, c.key(kind), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write reference cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached entries for a kind
func (c *RedisReferenceCache) Invalidate(ctx context.Context, kind reference.Kind) error {
	if err := c.client.Del(ctx, c.key(kind)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate reference cache: %w", err)
	}
	return nil
}

// Close releases the Redis connection
func (c *RedisReferenceCache) Close() error {
	return c.client.Close()
}

func (c *RedisReferenceCache) key(kind reference.Kind) string {
	return c.keyPrefix + string(kind)
}

var _ appreference.EntryCache = (*RedisReferenceCache)(nil)
