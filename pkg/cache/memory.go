package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		c: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Set 存 JSON 副本，避免调用方后续修改对象影响缓存内容，也与 Redis 行为保持一致
func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.c.Set(key, bytes, ttl)
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string, target interface{}) error {
	val, found := m.c.Get(key)
	if !found {
		return ErrMiss
	}
	bytes, ok := val.([]byte)
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(bytes, target)
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
