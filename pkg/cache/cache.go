package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLMethodDoc   = 10 * time.Minute // method catalog/detail documents (change rarely)
	TTLIdempotency = 24 * time.Hour   // stored intent responses keyed by idempotency key
	TTLDefault     = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixMethod      = "method:"
	PrefixCatalog     = "catalog:"
	PrefixIdempotency = "idem:"
)

// ErrCacheMiss is returned when a key does not exist
var ErrCacheMiss = errors.New("cache miss")

// Service Redis cache service interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Method document cache
	GetMethodDoc(ctx context.Context, methodID string) ([]byte, error)
	SetMethodDoc(ctx context.Context, methodID string, data []byte) error
	InvalidateMethodDoc(ctx context.Context, methodID string) error

	// Intent idempotency cache
	GetIntentResponse(ctx context.Context, idempotencyKey string) ([]byte, error)
	SetIntentResponse(ctx context.Context, idempotencyKey string, data []byte) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis-backed cache implementation
type redisCache struct {
	client *redis.Client
}

// NewService creates a Redis cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = TTLDefault
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) GetMethodDoc(ctx context.Context, methodID string) ([]byte, error) {
	data, err := c.client.Get(ctx, PrefixMethod+methodID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

func (c *redisCache) SetMethodDoc(ctx context.Context, methodID string, data []byte) error {
	return c.client.Set(ctx, PrefixMethod+methodID, data, TTLMethodDoc).Err()
}

func (c *redisCache) InvalidateMethodDoc(ctx context.Context, methodID string) error {
	return c.client.Del(ctx, PrefixMethod+methodID).Err()
}

func (c *redisCache) GetIntentResponse(ctx context.Context, idempotencyKey string) ([]byte, error) {
	data, err := c.client.Get(ctx, PrefixIdempotency+idempotencyKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

func (c *redisCache) SetIntentResponse(ctx context.Context, idempotencyKey string, data []byte) error {
	return c.client.Set(ctx, PrefixIdempotency+idempotencyKey, data, TTLIdempotency).Err()
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
