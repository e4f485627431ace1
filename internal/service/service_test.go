package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/event"
	"donation-core/internal/service/custody"
	"donation-core/internal/service/mq"
	"donation-core/internal/store"
	"donation-core/internal/store/memstore"
	"donation-core/pkg/utils/lock"
)

type recordingProducer struct {
	mu     sync.Mutex
	fail   map[string]bool
	topics []string
	keys   []string
}

func (p *recordingProducer) Publish(ctx context.Context, topic, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail[topic] {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func seedOutbox(t *testing.T, s store.Store, topic, key string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Transaction(ctx, func(tx store.Store) error {
		return store.CreateOutboxMessage(ctx, tx, topic, key, map[string]string{"k": key})
	}))
}

func TestRelayOnce(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedOutbox(t, s, event.TopicDonationRecorded, "d1")
	seedOutbox(t, s, event.TopicVoteCast, "water-2024")
	seedOutbox(t, s, event.TopicDonationRecorded, "d2")

	p := &recordingProducer{fail: map[string]bool{event.TopicVoteCast: true}}
	relay := NewRelayService(s, p, lock.NewLocalLock())

	assert.Equal(t, 2, relay.RelayOnce(ctx))
	assert.Equal(t, []string{"d1", "d2"}, p.keys)

	// 失败的消息保持 PENDING，下次重发
	pending, err := s.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, event.TopicVoteCast, pending[0].Topic)

	p.fail = nil
	assert.Equal(t, 1, relay.RelayOnce(ctx))
	assert.Equal(t, 0, relay.RelayOnce(ctx))
}

func TestRelayOnce_SkipsWhenLocked(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	seedOutbox(t, s, event.TopicDonationRecorded, "d1")

	l := lock.NewLocalLock()
	ok, err := l.Acquire(ctx, relayLockKey, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	relay := NewRelayService(s, &recordingProducer{}, l)
	assert.Equal(t, 0, relay.RelayOnce(ctx))
}

func TestRelay_DeliversThroughMemoryBroker(t *testing.T) {
	s := memstore.New()
	seedOutbox(t, s, event.TopicDonationRecorded, "d1")

	broker := mq.NewMemoryBroker(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *mq.Message, 1)
	go func() {
		_ = broker.Subscribe(ctx, event.TopicDonationRecorded, func(m *mq.Message) error {
			got <- m
			return nil
		})
	}()
	require.Eventually(t, func() bool { return broker.Subscribers(event.TopicDonationRecorded) == 1 }, time.Second, 5*time.Millisecond)

	relay := NewRelayService(s, broker, nil)
	go relay.Start(ctx)

	select {
	case m := <-got:
		assert.Equal(t, "d1", m.Key)
		assert.JSONEq(t, `{"k":"d1"}`, string(m.Payload))
	case <-time.After(3 * time.Second):
		t.Fatal("relay did not deliver")
	}
}

type fixedSweeper struct {
	ops   []custody.PendingOperation
	calls int
	after time.Duration
}

func (f *fixedSweeper) SweepStale(ctx context.Context, olderThan time.Duration) ([]custody.PendingOperation, error) {
	f.calls++
	f.after = olderThan
	return f.ops, nil
}

func TestCronService_SweepPending(t *testing.T) {
	ctx := context.Background()
	sw := &fixedSweeper{ops: []custody.PendingOperation{{CorrelationID: "c1", Kind: custody.KindDeposit}}}
	l := lock.NewLocalLock()
	c := NewCronService(l, sw, 5*time.Minute)

	assert.Equal(t, 1, c.SweepPending(ctx))
	assert.Equal(t, 5*time.Minute, sw.after)

	// 其他实例持有锁时跳过
	ok, _ := l.Acquire(ctx, sweepLockKey, time.Minute)
	require.True(t, ok)
	assert.Equal(t, -1, c.SweepPending(ctx))
	assert.Equal(t, 1, sw.calls)
}

