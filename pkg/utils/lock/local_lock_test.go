package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLock(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	l := NewLocalLock()
	l.clock = func() time.Time { return now }

	ok, err := l.Acquire(ctx, "relay", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.Acquire(ctx, "relay", time.Second)
	assert.False(t, ok, "second acquire must fail while held")

	// 过期后可重新获取
	now = now.Add(2 * time.Second)
	ok, _ = l.Acquire(ctx, "relay", time.Second)
	assert.True(t, ok)

	require.NoError(t, l.Release(ctx, "relay"))
	ok, _ = l.Acquire(ctx, "relay", time.Second)
	assert.True(t, ok)
}
