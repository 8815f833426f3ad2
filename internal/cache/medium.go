package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Medium is the persistent key/value storage behind the Store. It keeps raw payloads
// and knows nothing about expiration.
type Medium interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, raw string) error
	RemoveItem(ctx context.Context, key string) error
}

type MemoryMedium struct {
	c *gocache.Cache
}

// NewMemoryMedium returns process local storage without a janitor: expired entries stay
// until the Store touches them.
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{
		c: gocache.New(gocache.NoExpiration, 0),
	}
}

func (m *MemoryMedium) GetItem(_ context.Context, key string) (string, bool, error) {
	val, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}

	raw, ok := val.(string)
	if !ok {
		return "", false, ErrUnexpectedPayload
	}

	return raw, true, nil
}

func (m *MemoryMedium) SetItem(_ context.Context, key, raw string) error {
	m.c.Set(key, raw, gocache.NoExpiration)

	return nil
}

func (m *MemoryMedium) RemoveItem(_ context.Context, key string) error {
	m.c.Delete(key)

	return nil
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisMedium struct {
	cl redisClient
}

func NewRedisMedium(cl redisClient) *RedisMedium {
	return &RedisMedium{cl: cl}
}

func (m *RedisMedium) GetItem(ctx context.Context, key string) (string, bool, error) {
	raw, err := m.cl.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, err
	}

	return raw, true, nil
}

func (m *RedisMedium) SetItem(ctx context.Context, key, raw string) error {
	return m.cl.Set(ctx, key, raw, 0).Err()
}

func (m *RedisMedium) RemoveItem(ctx context.Context, key string) error {
	return m.cl.Del(ctx, key).Err()
}
