package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLock 单进程实现，用于 memory 模式和测试
type LocalLock struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]time.Time), clock: time.Now}
}

func (l *LocalLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return false, nil
	}
	l.held[key] = now.Add(ttl)
	return true, nil
}

func (l *LocalLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
