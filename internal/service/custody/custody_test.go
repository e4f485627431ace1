package custody

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/event"
	"donation-core/internal/model"
	"donation-core/internal/service/attribution"
	"donation-core/internal/service/donation"
	"donation-core/internal/service/ledger"
	"donation-core/internal/service/voting"
	"donation-core/internal/store"
	"donation-core/internal/store/memstore"
	"donation-core/pkg/config"
	"donation-core/pkg/errno"
)

const (
	system = "donations.core"
	usdc   = "usdc.token.near"
)

var water = model.CampaignTarget("water-2024")

type storeTokens struct{ s store.Store }

func (t storeTokens) GetToken(ctx context.Context, address string) (*model.Token, error) {
	return t.s.GetToken(ctx, address)
}

// outcomeSwitch 测试里控制外部调用的结果
type outcomeSwitch struct {
	mu      sync.Mutex
	outcome Outcome
	calls   int
}

func (o *outcomeSwitch) set(v Outcome) {
	o.mu.Lock()
	o.outcome = v
	o.mu.Unlock()
}

func (o *outcomeSwitch) Execute(ctx context.Context, op PendingOperation) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	return o.outcome
}

func (o *outcomeSwitch) executed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

type fixture struct {
	store      *memstore.Store
	voting     *voting.Service
	ledger     *ledger.Service
	donations  *donation.Service
	registry   *MemoryRegistry
	reconciler *Reconciler
	dispatcher *LocalDispatcher
	gateway    *Gateway
	outcome    *outcomeSwitch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.CreateCampaign(ctx, &model.Campaign{ID: "water-2024", CreatedBy: "ngo", Title: "Water", Asset: "native"}))
	require.NoError(t, s.CreateEvent(ctx, &model.Event{ID: "gala", CreatedBy: "ngo", Title: "Gala", Asset: "native"}))
	require.NoError(t, s.PutToken(ctx, &model.Token{Address: usdc, Name: "USD Coin", Symbol: "USDC", Decimals: 6}))

	vote := voting.NewService(s)
	led := ledger.NewService(s)
	rec := donation.NewRecorder(led, attribution.NewEngine(vote))
	registry := NewMemoryRegistry()
	reconciler := NewReconciler(s, registry, rec, system)
	outcome := &outcomeSwitch{outcome: OutcomeConfirmed}
	dispatcher := NewLocalDispatcher(outcome, reconciler, system, 16)
	reconciler.UseDispatcher(dispatcher)

	cfg := config.CustodyConfig{SystemAccount: system, NativeAsset: "native", Operators: []string{"ops.near"}}
	return &fixture{
		store:      s,
		voting:     vote,
		ledger:     led,
		donations:  donation.NewService(s, rec),
		registry:   registry,
		reconciler: reconciler,
		dispatcher: dispatcher,
		gateway:    NewGateway(s, storeTokens{s}, reconciler, cfg),
		outcome:    outcome,
	}
}

func (f *fixture) history(t *testing.T) *ledger.Page {
	page, err := f.ledger.All(context.Background(), 1, 100)
	require.NoError(t, err)
	return page
}

func (f *fixture) outbox(t *testing.T, topic string) []model.OutboxMessage {
	msgs, err := f.store.PendingOutbox(context.Background(), 100)
	require.NoError(t, err)
	var out []model.OutboxMessage
	for _, m := range msgs {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func TestScenario_TransferThenVote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.voting.RegisterCandidate(ctx, water, "RedCross"))

	receipt, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "5000000", "don1:campaign:water-2024:null:9.98")
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.CorrelationID)
	assert.Equal(t, "0", receipt.Refund)
	assert.Len(t, receipt.Fingerprint, 64)

	// Issued: 回调之前账本和投票人集合都不能变化
	assert.EqualValues(t, 0, f.history(t).Count)
	has, _ := f.store.HasCredit(ctx, water, "alice")
	assert.False(t, has)
	pending, _ := f.reconciler.Pending(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, StateIssued, pending[0].State)

	assert.Equal(t, 1, f.dispatcher.Drain(ctx))

	page := f.history(t)
	require.EqualValues(t, 1, page.Count)
	d := page.Results[0]
	assert.Equal(t, "don1", d.ID)
	assert.Equal(t, "alice", d.Donor)
	assert.Equal(t, usdc, d.Asset)
	assert.Equal(t, "water-2024", *d.CampaignID)
	assert.InDelta(t, 9.98, d.AmountRef, 1e-9)

	voters, err := f.voting.Voters(ctx, water)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, voters)
	gala, err := f.voting.Voters(ctx, model.EventTarget("gala"))
	require.NoError(t, err)
	assert.Empty(t, gala)

	bal, _ := f.store.GetBalance(ctx, usdc)
	assert.Equal(t, "5000000", bal.String())
	require.Len(t, f.outbox(t, event.TopicDonationRecorded), 1)

	status, err := f.voting.CastVote(ctx, water, "alice", "RedCross")
	require.NoError(t, err)
	assert.Equal(t, errno.StatusDone, status)
	tallies, err := f.voting.Tallies(ctx, water)
	require.NoError(t, err)
	assert.EqualValues(t, 1, tallies[0].Votes)
	voters, _ = f.voting.Voters(ctx, water)
	assert.Empty(t, voters)

	pending, _ = f.reconciler.Pending(ctx)
	assert.Empty(t, pending)
}

func TestReceive_MalformedMemoNoMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:9.98")
	assert.ErrorIs(t, err, errno.ErrMalformedMemo)

	assert.Equal(t, 0, f.dispatcher.Drain(ctx))
	assert.EqualValues(t, 0, f.history(t).Count)
	pending, _ := f.reconciler.Pending(ctx)
	assert.Empty(t, pending)
}

func TestReceive_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		token  string
		sender string
		amount string
		memo   string
		want   error
	}{
		{"zero amount", usdc, "alice", "0", "d:general:null:null:1", errno.ErrInvalidAmount},
		{"negative amount", usdc, "alice", "-5", "d:general:null:null:1", errno.ErrInvalidAmount},
		{"overflow", usdc, "alice", "340282366920938463463374607431768211456", "d:general:null:null:1", errno.ErrInvalidAmount},
		{"empty sender", usdc, " ", "5", "d:general:null:null:1", errno.ErrInvalidInput},
		{"unregistered token", "dai.token.near", "alice", "5", "d:general:null:null:1", errno.ErrTokenNotFound},
		{"missing campaign", usdc, "alice", "5", "d:campaign:nope:null:1", errno.ErrCampaignNotFound},
		{"missing event", usdc, "alice", "5", "d:event:null:nope:1", errno.ErrEventNotFound},
		{"bad ref amount", usdc, "alice", "5", "d:general:null:null:ten", errno.ErrMalformedMemo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.gateway.ReceiveTransferNotification(ctx, tt.token, tt.sender, tt.amount, tt.memo)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	pending, _ := f.reconciler.Pending(ctx)
	assert.Empty(t, pending)
}

func TestReceive_NativeAssetNeedsNoRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.gateway.ReceiveTransferNotification(ctx, "native", "bob", "7", "g1:general:null:null:0")
	require.NoError(t, err)
	f.dispatcher.Drain(ctx)
	assert.EqualValues(t, 1, f.history(t).Count)
}

func TestReceive_DuplicateDonationID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	memo := "don1:event:null:gala:1"

	_, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", memo)
	require.NoError(t, err)
	// 同一笔捐款在途时再次通知
	_, err = f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", memo)
	assert.ErrorIs(t, err, errno.ErrOperationPending)

	f.dispatcher.Drain(ctx)
	// 已入账后再次通知
	_, err = f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", memo)
	assert.ErrorIs(t, err, errno.ErrDuplicateDonation)
	assert.EqualValues(t, 1, f.history(t).Count)
}

func TestResolve_CallerGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	receipt, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.NoError(t, err)

	_, err = f.reconciler.Resolve(ctx, "mallory", receipt.CorrelationID, OutcomeConfirmed)
	assert.ErrorIs(t, err, errno.ErrCallerNotSystem)
	assert.True(t, errno.IsUnauthorized(err))

	// 拒绝后操作仍处于 Issued
	op, err := f.registry.Get(ctx, receipt.CorrelationID)
	require.NoError(t, err)
	assert.Equal(t, StateIssued, op.State)
	assert.EqualValues(t, 0, f.history(t).Count)

	f.dispatcher.Drain(ctx)
	assert.EqualValues(t, 1, f.history(t).Count)
}

func TestResolve_FailedLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.outcome.set(OutcomeFailed)

	receipt, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.NoError(t, err)
	f.dispatcher.Drain(ctx)

	assert.EqualValues(t, 0, f.history(t).Count)
	has, _ := f.store.HasCredit(ctx, water, "alice")
	assert.False(t, has)
	bal, _ := f.store.GetBalance(ctx, usdc)
	assert.True(t, bal.IsZero())
	msgs, _ := f.store.PendingOutbox(ctx, 10)
	assert.Empty(t, msgs)

	// Failed 是终态: 不能再被确认
	_, err = f.reconciler.Resolve(ctx, system, receipt.CorrelationID, OutcomeConfirmed)
	assert.ErrorIs(t, err, errno.ErrOperationNotFound)
}

func TestResolve_AtMostOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	capture := &captureDispatcher{}
	f.reconciler.UseDispatcher(capture)

	receipt, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.reconciler.Resolve(ctx, system, receipt.CorrelationID, OutcomeConfirmed)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, errno.ErrOperationNotFound)
		}
	}
	assert.Equal(t, 1, ok)
	assert.EqualValues(t, 1, f.history(t).Count)
}

func TestResolve_ConfirmedButLedgerRejectsWritesRefundAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.NoError(t, err)

	// 回调到达之前，同一个 id 通过显式入口入账
	_, err = f.donations.Create(ctx, donation.CreateInput{ID: "don1", Donor: "bob", Asset: "native", Amount: "1",
		TargetKind: "general", EventID: "null", CampaignID: "null"})
	require.NoError(t, err)

	f.dispatcher.Drain(ctx)

	page := f.history(t)
	require.EqualValues(t, 1, page.Count)
	assert.Equal(t, "bob", page.Results[0].Donor)
	has, _ := f.store.HasCredit(ctx, water, "alice")
	assert.False(t, has)
	bal, _ := f.store.GetBalance(ctx, usdc)
	assert.True(t, bal.IsZero(), "custody credit rolled back with the ledger append")

	alerts := f.outbox(t, event.TopicRefundRequired)
	require.Len(t, alerts, 1)
	var alert event.CustodyAlertEvent
	require.NoError(t, json.Unmarshal(alerts[0].Payload, &alert))
	assert.Equal(t, "don1", alert.DonationID)
	assert.Equal(t, "alice", alert.From)
	assert.Equal(t, "10", alert.Amount)
}

func fundCustody(t *testing.T, f *fixture, amount string) {
	_, err := f.gateway.ReceiveTransferNotification(context.Background(), usdc, "alice", amount, "seed:general:null:null:0")
	require.NoError(t, err)
	f.dispatcher.Drain(context.Background())
}

func TestWithdrawal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fundCustody(t, f, "100")

	_, err := f.gateway.InitiateOutboundTransfer(ctx, "alice", "", "redcross.near", usdc, "10", "")
	assert.ErrorIs(t, err, errno.ErrCallerNotOperator)

	_, err = f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "101", "")
	assert.ErrorIs(t, err, errno.ErrInsufficientFunds)

	_, err = f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "0", "")
	assert.ErrorIs(t, err, errno.ErrInvalidAmount)

	receipt, err := f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "60", "payout-1")
	require.NoError(t, err)
	assert.Equal(t, "payout-1", receipt.CorrelationID)

	_, err = f.gateway.InitiateOutboundTransfer(ctx, system, "", "redcross.near", usdc, "10", "payout-1")
	assert.ErrorIs(t, err, errno.ErrOperationPending)

	// 确认之前不扣减
	bal, _ := f.store.GetBalance(ctx, usdc)
	assert.Equal(t, "100", bal.String())

	f.dispatcher.Drain(ctx)
	bal, _ = f.store.GetBalance(ctx, usdc)
	assert.Equal(t, "40", bal.String())

	list, err := f.store.ListWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "redcross.near", list[0].ToAccount)
	assert.Equal(t, system, list[0].FromAccount)
	assert.Len(t, f.outbox(t, event.TopicWithdrawalConfirmed), 1)
}

func TestWithdrawal_CompletedIDCannotBeReissued(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fundCustody(t, f, "100")
	before := f.outcome.executed()

	_, err := f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "10", "w1")
	require.NoError(t, err)
	f.dispatcher.Drain(ctx)

	_, err = f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "10", "w1")
	assert.ErrorIs(t, err, errno.ErrOperationResolved)
	assert.True(t, errno.IsInvalidInput(err))
	assert.Zero(t, f.dispatcher.Drain(ctx))

	assert.Equal(t, 1, f.outcome.executed()-before, "external transfer runs once")
	bal, _ := f.store.GetBalance(ctx, usdc)
	assert.Equal(t, "90", bal.String())
	list, _ := f.store.ListWithdrawals(ctx)
	assert.Len(t, list, 1)
	assert.Empty(t, f.outbox(t, event.TopicReconciliationRequired))
}

func TestWithdrawal_FailedIDIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fundCustody(t, f, "100")
	f.outcome.set(OutcomeFailed)

	_, err := f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "10", "w1")
	require.NoError(t, err)
	f.dispatcher.Drain(ctx)

	// 重试必须是新的操作
	_, err = f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "10", "w1")
	assert.ErrorIs(t, err, errno.ErrOperationResolved)
	_, err = f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "10", "w1-retry")
	require.NoError(t, err)
}

func TestDeliver_ExpiredDepositWritesRefundAlert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	capture := &captureDispatcher{}
	f.reconciler.UseDispatcher(capture)

	_, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.NoError(t, err)
	require.Len(t, capture.ops, 1)
	op := capture.ops[0]

	// 挂起记录过期
	require.NoError(t, f.registry.Discard(ctx, op.CorrelationID))

	res, err := Deliver(ctx, f.outcome, f.reconciler, system, op)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, res.State)
	assert.False(t, res.Applied)
	assert.Equal(t, event.TopicRefundRequired, res.Alert)
	assert.Zero(t, f.outcome.executed())

	has, _ := f.store.HasDonation(ctx, "don1")
	assert.False(t, has)
	alerts := f.outbox(t, event.TopicRefundRequired)
	require.Len(t, alerts, 1)
	var alert event.CustodyAlertEvent
	require.NoError(t, json.Unmarshal(alerts[0].Payload, &alert))
	assert.Equal(t, "don1", alert.DonationID)
	assert.Equal(t, "10", alert.Amount)

	// 重复投递不再产生第二条补偿事件
	_, err = Deliver(ctx, f.outcome, f.reconciler, system, op)
	assert.ErrorIs(t, err, errno.ErrOperationNotFound)
	assert.Len(t, f.outbox(t, event.TopicRefundRequired), 1)
}

func TestDeliver_ExpiredWithdrawalIsNotExecuted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fundCustody(t, f, "100")
	before := f.outcome.executed()
	capture := &captureDispatcher{}
	f.reconciler.UseDispatcher(capture)

	_, err := f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "10", "w1")
	require.NoError(t, err)
	require.NoError(t, f.registry.Discard(ctx, "w1"))

	res, err := Deliver(ctx, f.outcome, f.reconciler, system, capture.ops[0])
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, before, f.outcome.executed())
	bal, _ := f.store.GetBalance(ctx, usdc)
	assert.Equal(t, "100", bal.String())

	_, err = f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "10", "w1")
	assert.ErrorIs(t, err, errno.ErrOperationResolved)
}

func TestDeliver_AlreadyResolvedIsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	capture := &captureDispatcher{}
	f.reconciler.UseDispatcher(capture)

	_, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.NoError(t, err)
	op := capture.ops[0]

	res, err := Deliver(ctx, f.outcome, f.reconciler, system, op)
	require.NoError(t, err)
	assert.True(t, res.Applied)

	_, err = Deliver(ctx, f.outcome, f.reconciler, system, op)
	assert.ErrorIs(t, err, errno.ErrOperationNotFound)
	assert.Equal(t, 1, f.outcome.executed())
	assert.EqualValues(t, 1, f.history(t).Count)
	assert.Empty(t, f.outbox(t, event.TopicRefundRequired))
}

func TestResolveExpired_CallerGuard(t *testing.T) {
	f := newFixture(t)
	_, err := f.reconciler.ResolveExpired(context.Background(), "mallory", PendingOperation{CorrelationID: "x", Kind: KindDeposit}, OutcomeConfirmed)
	assert.ErrorIs(t, err, errno.ErrCallerNotSystem)
	assert.Empty(t, f.outbox(t, event.TopicRefundRequired))
}

func TestWithdrawal_FailedKeepsBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fundCustody(t, f, "100")
	f.outcome.set(OutcomeFailed)

	_, err := f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "redcross.near", usdc, "60", "")
	require.NoError(t, err)
	f.dispatcher.Drain(ctx)

	bal, _ := f.store.GetBalance(ctx, usdc)
	assert.Equal(t, "100", bal.String())
	list, _ := f.store.ListWithdrawals(ctx)
	assert.Empty(t, list)
}

func TestWithdrawal_BalanceDrainedBeforeConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fundCustody(t, f, "100")

	// 两笔都通过了只读余额检查，只有第一笔能扣减成功
	_, err := f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "a.near", usdc, "70", "w1")
	require.NoError(t, err)
	_, err = f.gateway.InitiateOutboundTransfer(ctx, "ops.near", "", "b.near", usdc, "70", "w2")
	require.NoError(t, err)
	f.dispatcher.Drain(ctx)

	bal, _ := f.store.GetBalance(ctx, usdc)
	assert.Equal(t, "30", bal.String())
	alerts := f.outbox(t, event.TopicReconciliationRequired)
	require.Len(t, alerts, 1)
	assert.Equal(t, "w2", alerts[0].Key)
}

type captureDispatcher struct {
	mu  sync.Mutex
	ops []PendingOperation
	err error
}

func (c *captureDispatcher) Dispatch(ctx context.Context, op PendingOperation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.ops = append(c.ops, op)
	return nil
}

func TestIssue_DispatchFailureUnregisters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reconciler.UseDispatcher(&captureDispatcher{err: errors.New("queue down")})

	_, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.Error(t, err)

	pending, _ := f.reconciler.Pending(ctx)
	assert.Empty(t, pending)
	// 登记已撤销，同一笔捐款可以重新发起
	f.reconciler.UseDispatcher(f.dispatcher)
	_, err = f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.NoError(t, err)
}

func TestResolve_InvalidOutcome(t *testing.T) {
	f := newFixture(t)
	_, err := f.reconciler.Resolve(context.Background(), system, "x", Outcome("maybe"))
	assert.True(t, errno.IsInvalidInput(err))
}

func TestSweepStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	capture := &captureDispatcher{}
	f.reconciler.UseDispatcher(capture)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.reconciler.now = func() time.Time { return base }
	_, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "old:general:null:null:1")
	require.NoError(t, err)
	f.reconciler.now = func() time.Time { return base.Add(20 * time.Minute) }
	_, err = f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "new:general:null:null:1")
	require.NoError(t, err)

	stale, err := f.reconciler.SweepStale(ctx, 10*time.Minute)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].Intent.DonationID)

	// 只报告，不解决
	pending, _ := f.reconciler.Pending(ctx)
	assert.Len(t, pending, 2)
}

func TestLocalDispatcher_Run(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.dispatcher.Run(ctx)

	_, err := f.gateway.ReceiveTransferNotification(ctx, usdc, "alice", "10", "don1:campaign:water-2024:null:1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		ok, _ := f.store.HasDonation(context.Background(), "don1")
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPendingOperation_JSON(t *testing.T) {
	campaign := "water-2024"
	op := PendingOperation{
		CorrelationID: "c1", Kind: KindDeposit, From: "alice", To: system, Asset: usdc,
		Amount: decimal.RequireFromString("340282366920938463463374607431768211455"),
		Intent: &DonationIntent{DonationID: "don1", TargetKind: model.TargetCampaign, CampaignID: &campaign, ReferenceAmount: 1},
		State:  StateIssued,
	}
	data, err := json.Marshal(op)
	require.NoError(t, err)
	var back PendingOperation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, op.Amount.Equal(back.Amount))
	assert.Equal(t, op.Intent, back.Intent)
}

func TestMemoryRegistry_Tombstones(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	require.NoError(t, r.Put(ctx, &PendingOperation{CorrelationID: "a"}))
	require.NoError(t, r.Discard(ctx, "a"))
	// 撤销不留标记
	require.NoError(t, r.Put(ctx, &PendingOperation{CorrelationID: "a"}))

	_, err := r.Claim(ctx, "a")
	require.NoError(t, err)
	assert.ErrorIs(t, r.Put(ctx, &PendingOperation{CorrelationID: "a"}), errno.ErrOperationResolved)
	first, err := r.MarkResolved(ctx, "a")
	require.NoError(t, err)
	assert.False(t, first)

	first, err = r.MarkResolved(ctx, "b")
	require.NoError(t, err)
	assert.True(t, first)
	assert.ErrorIs(t, r.Discard(ctx, "b"), errno.ErrOperationNotFound)
}
