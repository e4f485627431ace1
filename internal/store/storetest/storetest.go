// Package storetest 是 store.Store 实现共用的行为测试集
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/model"
	"donation-core/internal/store"
)

// Factory 每个子测试都拿到一个全新的空 Store
type Factory func(t *testing.T) store.Store

func sp(s string) *string { return &s }

// Run 执行全部行为用例
func Run(t *testing.T, newStore Factory) {
	t.Run("Donations", func(t *testing.T) { testDonations(t, newStore(t)) })
	t.Run("Campaigns", func(t *testing.T) { testCampaigns(t, newStore(t)) })
	t.Run("Voting", func(t *testing.T) { testVoting(t, newStore(t)) })
	t.Run("Partners", func(t *testing.T) { testPartners(t, newStore(t)) })
	t.Run("Tokens", func(t *testing.T) { testTokens(t, newStore(t)) })
	t.Run("Custody", func(t *testing.T) { testCustody(t, newStore(t)) })
	t.Run("Outbox", func(t *testing.T) { testOutbox(t, newStore(t)) })
	t.Run("TransactionRollback", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("NestedTransaction", func(t *testing.T) { testNested(t, newStore(t)) })
}

func testDonations(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		d := &model.Donation{
			ID:         fmt.Sprintf("don%d", i),
			Donor:      "alice",
			Asset:      "native",
			Amount:     decimal.NewFromInt(int64(i * 100)),
			AmountRef:  float64(i),
			TargetKind: model.TargetCampaign,
			CampaignID: sp("water-2024"),
		}
		if i%2 == 0 {
			d.Donor = "bob"
			d.TargetKind = model.TargetGeneral
			d.CampaignID = nil
		}
		require.NoError(t, s.AppendDonation(ctx, d))
	}

	err := s.AppendDonation(ctx, &model.Donation{ID: "don1", Donor: "x", Asset: "native", TargetKind: model.TargetGeneral})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	ok, err := s.HasDonation(ctx, "don3")
	require.NoError(t, err)
	assert.True(t, ok)

	all, total, err := s.ListDonations(ctx, store.DonationFilter{}, 0, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, all, 5)
	for i, d := range all {
		assert.Equal(t, fmt.Sprintf("don%d", i+1), d.ID, "insertion order")
	}
	assert.Equal(t, "300", all[2].Amount.String())

	page, total, err := s.ListDonations(ctx, store.DonationFilter{}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "don3", page[0].ID)
	assert.Equal(t, "don4", page[1].ID)

	none, total, err := s.ListDonations(ctx, store.DonationFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.EqualValues(t, 5, total)

	camp, total, err := s.ListDonations(ctx, store.DonationFilter{Kind: model.TargetCampaign, TargetID: "water-2024"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, camp, 3)

	bob, total, err := s.ListDonations(ctx, store.DonationFilter{Donor: "bob"}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "don2", bob[0].ID)

	general, _, err := s.ListDonations(ctx, store.DonationFilter{Kind: model.TargetGeneral}, 0, 10)
	require.NoError(t, err)
	assert.Len(t, general, 2)

	past, total, err := s.ListDonations(ctx, store.DonationFilter{}, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, past)
	assert.EqualValues(t, 5, total)
}

func testCampaigns(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := &model.Campaign{ID: "water-2024", CreatedBy: "RedCross", Title: "Clean water", Asset: "native",
		Managers: []string{"RedCross", "ops"}}
	require.NoError(t, s.CreateCampaign(ctx, c))
	assert.ErrorIs(t, s.CreateCampaign(ctx, &model.Campaign{ID: "water-2024", CreatedBy: "x", Title: "y", Asset: "native"}), store.ErrDuplicate)

	got, err := s.GetCampaign(ctx, "water-2024")
	require.NoError(t, err)
	assert.Equal(t, "Clean water", got.Title)
	assert.Equal(t, []string{"RedCross", "ops"}, []string(got.Managers))

	_, err = s.GetCampaign(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CreateEvent(ctx, &model.Event{ID: "gala", CreatedBy: "RedCross", Title: "Gala", Asset: "native", EventType: "online"}))
	_, err = s.GetEvent(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)

	ok, err := s.TargetExists(ctx, model.CampaignTarget("water-2024"))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.TargetExists(ctx, model.EventTarget("water-2024"))
	require.NoError(t, err)
	assert.False(t, ok, "campaign id is not an event id")

	require.NoError(t, s.AddTargetTotals(ctx, model.CampaignTarget("water-2024"), decimal.NewFromInt(500), 9.98))
	require.NoError(t, s.AddTargetTotals(ctx, model.CampaignTarget("water-2024"), decimal.NewFromInt(1), 0.02))
	got, err = s.GetCampaign(ctx, "water-2024")
	require.NoError(t, err)
	assert.Equal(t, "501", got.TotalRaised.String())
	assert.InDelta(t, 10.0, got.TotalRaisedRef, 1e-9)
	assert.EqualValues(t, 2, got.DonationsCount)

	assert.ErrorIs(t, s.AddTargetTotals(ctx, model.EventTarget("missing"), decimal.NewFromInt(1), 0), store.ErrNotFound)

	list, err := s.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func testVoting(t *testing.T, s store.Store) {
	ctx := context.Background()
	target := model.CampaignTarget("water-2024")

	require.NoError(t, s.GrantCredit(ctx, target, "alice"))
	require.NoError(t, s.GrantCredit(ctx, target, "alice"), "granting twice is a no-op")
	require.NoError(t, s.GrantCredit(ctx, target, "bob"))

	voters, err := s.ListVoters(ctx, target)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, voters)

	ok, err := s.ConsumeCredit(ctx, target, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.ConsumeCredit(ctx, target, "alice")
	require.NoError(t, err)
	assert.False(t, ok)
	has, err := s.HasCredit(ctx, target, "alice")
	require.NoError(t, err)
	assert.False(t, has)

	other, err := s.ListVoters(ctx, model.EventTarget("water-2024"))
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.AddCandidate(ctx, target, "p1"))
	assert.ErrorIs(t, s.AddCandidate(ctx, target, "p1"), store.ErrDuplicate)
	require.NoError(t, s.AddCandidate(ctx, model.EventTarget("gala"), "p1"))

	isCand, err := s.IsCandidate(ctx, target, "p1")
	require.NoError(t, err)
	assert.True(t, isCand)

	require.NoError(t, s.IncrementTally(ctx, target, "p1"))
	require.NoError(t, s.IncrementTally(ctx, target, "p1"))
	assert.ErrorIs(t, s.IncrementTally(ctx, target, "p2"), store.ErrNotFound)

	cands, err := s.ListCandidates(ctx, target)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.EqualValues(t, 2, cands[0].Votes)

	gala, err := s.ListCandidates(ctx, model.EventTarget("gala"))
	require.NoError(t, err)
	require.Len(t, gala, 1)
	assert.EqualValues(t, 0, gala[0].Votes)
}

func testPartners(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.CreatePartner(ctx, &model.Partner{ID: "p1", CreatedBy: "alice", Name: "Water Org"}))
	require.NoError(t, s.CreatePartner(ctx, &model.Partner{ID: "p2", CreatedBy: "bob", Name: "Trees"}))
	assert.ErrorIs(t, s.CreatePartner(ctx, &model.Partner{ID: "p1", CreatedBy: "carol", Name: "dup"}), store.ErrDuplicate)

	p, err := s.GetPartner(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Water Org", p.Name)

	_, err = s.GetPartner(ctx, "p9")
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.ListPartners(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	mine, err := s.ListPartners(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "p2", mine[0].ID)
}

func testTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.PutToken(ctx, &model.Token{Address: "usdc.near", Name: "USD Coin", Symbol: "USDC", Decimals: 6}))
	require.NoError(t, s.PutToken(ctx, &model.Token{Address: "usdc.near", Name: "USD Coin", Symbol: "USDC.e", Decimals: 6}))

	tok, err := s.GetToken(ctx, "usdc.near")
	require.NoError(t, err)
	assert.Equal(t, "USDC.e", tok.Symbol)

	_, err = s.GetToken(ctx, "dai.near")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.ListTokens(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testCustody(t *testing.T, s store.Store) {
	ctx := context.Background()
	bal, err := s.GetBalance(ctx, "native")
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	require.NoError(t, s.CreditBalance(ctx, "native", decimal.NewFromInt(100)))
	require.NoError(t, s.CreditBalance(ctx, "native", decimal.NewFromInt(50)))
	require.NoError(t, s.DebitBalance(ctx, "native", decimal.NewFromInt(120)))
	assert.ErrorIs(t, s.DebitBalance(ctx, "native", decimal.NewFromInt(31)), store.ErrInsufficientBalance)

	bal, err = s.GetBalance(ctx, "native")
	require.NoError(t, err)
	assert.Equal(t, "30", bal.String())

	assert.ErrorIs(t, s.DebitBalance(ctx, "usdc.near", decimal.NewFromInt(1)), store.ErrInsufficientBalance)

	w := &model.Withdrawal{CorrelationID: "c1", FromAccount: "donations.core", ToAccount: "p1", Asset: "native",
		Amount: decimal.NewFromInt(10), Status: model.WithdrawalCompleted}
	require.NoError(t, s.CreateWithdrawal(ctx, w))
	assert.NotZero(t, w.ID)
	assert.ErrorIs(t, s.CreateWithdrawal(ctx, &model.Withdrawal{CorrelationID: "c1", FromAccount: "a", ToAccount: "b",
		Asset: "native", Amount: decimal.NewFromInt(1), Status: model.WithdrawalCompleted}), store.ErrDuplicate)

	list, err := s.ListWithdrawals(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	ok, err := s.HasWithdrawal(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.HasWithdrawal(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, ok)

	// 新资产的首笔入账走 upsert
	require.NoError(t, s.CreditBalance(ctx, "usdc.near", decimal.NewFromInt(7)))
	require.NoError(t, s.CreditBalance(ctx, "usdc.near", decimal.NewFromInt(3)))
	bal, err = s.GetBalance(ctx, "usdc.near")
	require.NoError(t, err)
	assert.Equal(t, "10", bal.String())
}

func testOutbox(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, store.CreateOutboxMessage(ctx, s, "donation_recorded", "don1", map[string]string{"id": "don1"}))
	require.NoError(t, store.CreateOutboxMessage(ctx, s, "vote_cast", "water-2024", map[string]string{"voter": "alice"}))

	pending, err := s.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "donation_recorded", pending[0].Topic)
	assert.JSONEq(t, `{"id":"don1"}`, string(pending[0].Payload))

	require.NoError(t, s.MarkOutboxSent(ctx, pending[0].ID))
	pending, err = s.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "vote_cast", pending[0].Topic)

	limited, err := s.PendingOutbox(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, limited)
}

func testRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx store.Store) error {
		require.NoError(t, tx.AppendDonation(ctx, &model.Donation{ID: "don1", Donor: "alice", Asset: "native",
			Amount: decimal.NewFromInt(1), TargetKind: model.TargetGeneral}))
		require.NoError(t, tx.CreditBalance(ctx, "native", decimal.NewFromInt(1)))
		require.NoError(t, store.CreateOutboxMessage(ctx, tx, "donation_recorded", "don1", "x"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ok, err := s.HasDonation(ctx, "don1")
	require.NoError(t, err)
	assert.False(t, ok)
	bal, err := s.GetBalance(ctx, "native")
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
	pending, err := s.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	err = s.Transaction(ctx, func(tx store.Store) error {
		return tx.AppendDonation(ctx, &model.Donation{ID: "don1", Donor: "alice", Asset: "native",
			Amount: decimal.NewFromInt(1), TargetKind: model.TargetGeneral})
	})
	require.NoError(t, err)
	ok, err = s.HasDonation(ctx, "don1")
	require.NoError(t, err)
	assert.True(t, ok)

	// 投票、候选人、余额、出金记录同样回滚
	target := model.CampaignTarget("water-2024")
	require.NoError(t, s.CreateCampaign(ctx, &model.Campaign{ID: "water-2024", CreatedBy: "alice", Title: "Water",
		Target: decimal.NewFromInt(1000), Asset: "native"}))
	require.NoError(t, s.AddCandidate(ctx, target, "redcross"))
	require.NoError(t, s.GrantCredit(ctx, target, "bob"))
	require.NoError(t, s.CreditBalance(ctx, "native", decimal.NewFromInt(50)))

	err = s.Transaction(ctx, func(tx store.Store) error {
		consumed, err := tx.ConsumeCredit(ctx, target, "bob")
		require.NoError(t, err)
		require.True(t, consumed)
		require.NoError(t, tx.IncrementTally(ctx, target, "redcross"))
		require.NoError(t, tx.GrantCredit(ctx, target, "carol"))
		require.NoError(t, tx.AddCandidate(ctx, target, "unicef"))
		require.NoError(t, tx.AddTargetTotals(ctx, target, decimal.NewFromInt(5), 1.5))
		require.NoError(t, tx.DebitBalance(ctx, "native", decimal.NewFromInt(20)))
		require.NoError(t, tx.CreateWithdrawal(ctx, &model.Withdrawal{CorrelationID: "w1", FromAccount: "a",
			ToAccount: "b", Asset: "native", Amount: decimal.NewFromInt(20), Status: model.WithdrawalCompleted}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	voters, err := s.ListVoters(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, voters)
	cands, err := s.ListCandidates(ctx, target)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.EqualValues(t, 0, cands[0].Votes)
	c, err := s.GetCampaign(ctx, "water-2024")
	require.NoError(t, err)
	assert.True(t, c.TotalRaised.IsZero())
	assert.Zero(t, c.DonationsCount)
	bal, err = s.GetBalance(ctx, "native")
	require.NoError(t, err)
	assert.Equal(t, "50", bal.String())
	ok, err = s.HasWithdrawal(ctx, "w1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testNested(t *testing.T, s store.Store) {
	ctx := context.Background()
	err := s.Transaction(ctx, func(tx store.Store) error {
		if err := tx.GrantCredit(ctx, model.CampaignTarget("c"), "alice"); err != nil {
			return err
		}
		return tx.Transaction(ctx, func(inner store.Store) error {
			return inner.GrantCredit(ctx, model.CampaignTarget("c"), "bob")
		})
	})
	require.NoError(t, err)

	voters, err := s.ListVoters(ctx, model.CampaignTarget("c"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, voters)
}
