package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/service/custody"
	"donation-core/internal/service/mq"
	"donation-core/internal/store/memstore"
	"donation-core/pkg/config"
	"donation-core/pkg/utils/lock"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Store = "memory"
	cfg.Redis.MQType = "memory"
	cfg.Custody.PendingStore = "memory"
	cfg.Custody.Dispatcher = "local"
	return cfg
}

func TestNeedsRedis(t *testing.T) {
	cfg := memoryConfig()
	assert.False(t, NeedsRedis(cfg))

	cfg.Custody.Dispatcher = "asynq"
	assert.True(t, NeedsRedis(cfg))

	cfg = memoryConfig()
	cfg.App.Store = "postgres"
	assert.True(t, NeedsRedis(cfg))
}

func TestOpen_MemoryMode(t *testing.T) {
	cfg := memoryConfig()
	inf, err := Open(cfg)
	require.NoError(t, err)
	defer inf.Close()

	assert.Nil(t, inf.Redis)
	assert.IsType(t, &memstore.Store{}, inf.Store)
	assert.IsType(t, &lock.LocalLock{}, inf.Lock)
	assert.IsType(t, &custody.MemoryRegistry{}, inf.Registry)

	broker := mq.NewMemoryBroker(4)
	assert.Same(t, broker, inf.Producer(cfg, broker))
	assert.Same(t, broker, inf.Consumer(cfg, broker, "feed"))
}
