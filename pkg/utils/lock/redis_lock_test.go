package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis 只实现锁用到的 SET NX 与 compare-and-delete 脚本
type fakeRedis struct {
	redis.Scripter

	mu   sync.Mutex
	data map[string]string
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: make(map[string]string)} }

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := f.data[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	f.data[key] = value.(string)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeRedis) compareAndDelete(ctx context.Context, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewCmd(ctx)
	if v, ok := f.data[keys[0]]; ok && v == args[0].(string) {
		delete(f.data, keys[0])
		cmd.SetVal(int64(1))
		return cmd
	}
	cmd.SetVal(int64(0))
	return cmd
}

func (f *fakeRedis) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(ctx, keys, args...)
}

func (f *fakeRedis) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return f.compareAndDelete(ctx, keys, args...)
}

// 模拟 TTL 到期
func (f *fakeRedis) expire(key string) {
	f.mu.Lock()
	delete(f.data, key)
	f.mu.Unlock()
}

func TestRedisLock_TokenPerAcquire(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	a := newRedisLock(rdb)
	b := newRedisLock(rdb)

	ok, err := a.Acquire(ctx, "relay", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Acquire(ctx, "relay", time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must wait")

	tokenA := rdb.data["lock:relay"]
	rdb.expire("lock:relay")

	ok, err = b.Acquire(ctx, "relay", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	tokenB := rdb.data["lock:relay"]
	assert.NotEqual(t, tokenA, tokenB)

	// a 的锁已过期, 释放时不能删掉 b 的锁
	require.NoError(t, a.Release(ctx, "relay"))
	assert.Equal(t, tokenB, rdb.data["lock:relay"])

	require.NoError(t, b.Release(ctx, "relay"))
	_, held := rdb.data["lock:relay"]
	assert.False(t, held)

	// 未持有时 Release 是 no-op
	require.NoError(t, b.Release(ctx, "relay"))
}
