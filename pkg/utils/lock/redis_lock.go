package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DistributedLock 定义分布式锁接口
type DistributedLock interface {
	// Acquire 尝试获取锁
	// key: 锁的唯一标识
	// ttl: 锁的过期时间
	// 返回: (是否成功, error)
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release 释放锁; 只删除本实例持有的那一把
	Release(ctx context.Context, key string) error
}

// value 等于自己的 token 才删除
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type lockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redis.Scripter
}

// RedisLock SET NX PX + 随机 token, 释放时比对 token
type RedisLock struct {
	client lockClient

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return newRedisLock(client)
}

func newRedisLock(client lockClient) *RedisLock {
	return &RedisLock{client: client, tokens: make(map[string]string)}
}

func lockKey(key string) string { return "lock:" + key }

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil || !ok {
		return false, err
	}
	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return true, nil
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}
	// 锁已过期并被他人拿走时返回 0, 不算错误
	return releaseScript.Run(ctx, l.client, []string{lockKey(key)}, token).Err()
}
