package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/model"
	"donation-core/internal/store"
	"donation-core/internal/store/storetest"
)

func TestMemStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestMemStore_ConcurrentConsume(t *testing.T) {
	s := New()
	ctx := context.Background()
	target := model.CampaignTarget("water-2024")
	require.NoError(t, s.GrantCredit(ctx, target, "alice"))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Transaction(ctx, func(tx store.Store) error {
				ok, err := tx.ConsumeCredit(ctx, target, "alice")
				if err != nil || !ok {
					return err
				}
				mu.Lock()
				wins++
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMemStore_PanicRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.Transaction(ctx, func(tx store.Store) error {
			require.NoError(t, tx.CreditBalance(ctx, "native", decimal.NewFromInt(5)))
			panic("boom")
		})
	})

	bal, err := s.GetBalance(ctx, "native")
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	// 锁已释放
	require.NoError(t, s.CreditBalance(ctx, "native", decimal.NewFromInt(1)))
}

// 事务内追加一条捐款只登记一条撤销动作，不随账本规模复制状态
func TestMemStore_TransactionDoesNotCopyLedger(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		require.NoError(t, s.AppendDonation(ctx, &model.Donation{ID: fmt.Sprintf("seed%d", i), Donor: "alice",
			Asset: "native", Amount: decimal.NewFromInt(1), TargetKind: model.TargetGeneral}))
	}

	var undo int
	err := s.Transaction(ctx, func(tx store.Store) error {
		require.NoError(t, tx.AppendDonation(ctx, &model.Donation{ID: "next", Donor: "bob",
			Asset: "native", Amount: decimal.NewFromInt(1), TargetKind: model.TargetGeneral}))
		undo = len(*tx.(*Store).undo)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, undo)

	rows, total, err := s.ListDonations(ctx, store.DonationFilter{Donor: "bob"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.EqualValues(t, 1001, rows[0].Seq)
}

func BenchmarkAppendDonation(b *testing.B) {
	s := New()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Transaction(ctx, func(tx store.Store) error {
			return tx.AppendDonation(ctx, &model.Donation{ID: fmt.Sprintf("don%d", i), Donor: "alice",
				Asset: "native", Amount: decimal.NewFromInt(1), TargetKind: model.TargetGeneral})
		})
	}
}
